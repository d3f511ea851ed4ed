package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"tourbase/internal/apperr"
	"tourbase/internal/auth"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListAccounts 列出当前租户下的全部账户（根账户加成员）。
func (h *HTTPHandler) ListAccounts(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query dto.AccountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	normalisePaging(&query.BaseParams)
	query.RootUserID = tc.RootUserID

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	accounts, meta, err := h.repo.ListAccounts(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list accounts")
		RespondError(c, err)
		return
	}

	response := dto.AccountListResponse{
		Accounts: make([]dto.AccountSummary, 0, len(accounts)),
		Meta:     meta,
	}
	for idx := range accounts {
		response.Accounts = append(response.Accounts, makeAccountSummary(&accounts[idx]))
	}

	c.JSON(http.StatusOK, response)
}

// CreateAccount 在当前租户下创建成员账户。
func (h *HTTPHandler) CreateAccount(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req dto.AccountCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		MissingField(c, "email")
		return
	}

	role := sanitizeMemberRole(req.Role)
	if role == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid role")
		return
	}

	password := strings.TrimSpace(req.Password)
	if password == "" {
		MissingField(c, "password")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password for new account")
		InternalError(c, "failed to create account")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rootID := tc.RootUserID
	account := &db.Account{
		Name:               strings.TrimSpace(req.Name),
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		IsRootUser:         false,
		RootUserID:         &rootID,
		CompanyID:          tc.CompanyID,
		TenantID:           tc.TenantID,
		SubscriptionPlan:   tc.SubscriptionPlan,
		SubscriptionStatus: tc.SubscriptionStatus,
		IsActive:           isActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ErrorResponse(c, http.StatusConflict, ErrCodeEmailExists, "email already registered")
			return
		}
		logrus.WithError(err).Error("failed to create account")
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, makeAccountSummary(account))
}

// UpdateAccount 更新租户内的账户。根账户只能由自己修改。
func (h *HTTPHandler) UpdateAccount(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AccountUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	target, err := h.loadTenantAccount(ctx, id, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	if target.IsRootUser && target.ID != tc.UserID {
		Forbidden(c, "tenant owner can only be modified by themselves")
		return
	}

	var updates db.AccountUpdates

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		updates.Name = &name
	}

	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		if password == "" {
			BadRequest(c, ErrCodeInvalidRequest, "password must not be empty")
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			logrus.WithError(err).Error("failed to hash password for update")
			InternalError(c, "failed to update account")
			return
		}
		updates.PasswordHash = &hash
	}

	if req.Role != nil {
		if target.IsRootUser {
			BadRequest(c, ErrCodeInvalidRequest, "tenant owner role cannot be changed")
			return
		}
		role := sanitizeMemberRole(*req.Role)
		if role == "" {
			BadRequest(c, ErrCodeInvalidRequest, "invalid role")
			return
		}
		updates.Role = &role
	}

	if req.IsActive != nil {
		if target.IsRootUser {
			BadRequest(c, ErrCodeInvalidRequest, "tenant owner must remain active")
			return
		}
		updates.IsActive = req.IsActive
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, makeAccountSummary(target))
		return
	}

	if err := h.repo.UpdateAccount(ctx, target.ID, updates); err != nil {
		logrus.WithError(err).Error("failed to update account")
		RespondError(c, err)
		return
	}

	updated, err := h.repo.GetAccountByID(ctx, target.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, makeAccountSummary(updated))
}

// DeleteAccount 删除租户内的成员账户。根账户与自身不可删除。
func (h *HTTPHandler) DeleteAccount(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if id == tc.UserID {
		BadRequest(c, ErrCodeInvalidRequest, "cannot delete current account")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	target, err := h.loadTenantAccount(ctx, id, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	if target.IsRootUser {
		Forbidden(c, "tenant owner cannot be deleted")
		return
	}

	if err := h.repo.DeleteAccount(ctx, target.ID); err != nil {
		logrus.WithError(err).Error("failed to delete account")
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// loadTenantAccount 加载账户并确认其归属当前租户，越界按不存在处理。
func (h *HTTPHandler) loadTenantAccount(ctx context.Context, id, rootUserID uint) (*db.Account, error) {
	account, err := h.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.EffectiveRootUserID() != rootUserID {
		return nil, apperr.ErrNotFound
	}
	return account, nil
}

func sanitizeMemberRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case db.RoleAdmin:
		return db.RoleAdmin
	default:
		return ""
	}
}
