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
	"tourbase/internal/quota"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Register 注册新账户。公司的首个注册者成为根账户（租户所有者），
// 之后的注册者作为成员挂到既有根账户之下。
func (h *HTTPHandler) Register(c *gin.Context) {
	if h.repo == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "account repository not available")
		return
	}

	var req dto.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		MissingField(c, "email")
		return
	}

	companyID := strings.TrimSpace(req.CompanyID)
	if companyID == "" {
		companyID = h.cfg.DefaultCompanyID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if existing, err := h.repo.GetAccountByEmail(ctx, email); err == nil && existing != nil {
		ErrorResponse(c, http.StatusConflict, ErrCodeEmailExists, "email already registered")
		return
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, apperr.ErrNotFound) {
		logrus.WithError(err).Error("failed to check existing account")
		InternalError(c, "failed to process registration")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		InternalError(c, "failed to register account")
		return
	}

	account := &db.Account{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		CompanyID:    companyID,
		TenantID:     companyID,
		IsActive:     true,
	}

	root, err := h.repo.FindRootAccountByCompany(ctx, companyID)
	switch {
	case err == nil && root != nil:
		// 已有根账户，注册为成员
		account.Role = db.RoleAdmin
		account.IsRootUser = false
		rootID := root.ID
		account.RootUserID = &rootID
		account.SubscriptionPlan = root.SubscriptionPlan
		account.SubscriptionStatus = root.SubscriptionStatus
	case errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, apperr.ErrNotFound):
		// 公司首个账户，成为根账户
		account.Role = db.RoleRootUser
		account.IsRootUser = true
		account.SubscriptionPlan = quota.PlanTrial
		account.SubscriptionStatus = db.SubscriptionActive
	default:
		logrus.WithError(err).Error("failed to look up company root account")
		InternalError(c, "failed to process registration")
		return
	}

	if err := h.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ErrorResponse(c, http.StatusConflict, ErrCodeEmailExists, "email already registered")
			return
		}
		logrus.WithError(err).Error("failed to create account")
		InternalError(c, "failed to register account")
		return
	}

	token, expiresAt, err := h.authManager.GenerateToken(account)
	if err != nil {
		logrus.WithError(err).Error("failed to create token for account")
		InternalError(c, "failed to create session")
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   makeAccountSummary(account),
	})
}

// Login 登录。遗留账户（迁移前创建，缺少租户字段）在此路径上自愈：
// 缺失的角色、租户标识、套餐会被补齐后再签发会话。
func (h *HTTPHandler) Login(c *gin.Context) {
	if h.repo == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "account repository not available")
		return
	}

	var req dto.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		MissingField(c, "email")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	account, err := h.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		logrus.WithError(err).WithField("email", email).Warn("login attempt failed")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	if !account.IsActive {
		ErrorResponse(c, http.StatusForbidden, ErrCodeAccountDisabled, "account is disabled")
		return
	}

	if err := auth.VerifyPassword(account.PasswordHash, password); err != nil {
		logrus.WithError(err).WithField("email", email).Warn("password verification failed")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	if account, err = h.healLegacyAccount(ctx, account); err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Error("failed to heal legacy account")
		InternalError(c, "failed to create session")
		return
	}

	token, expiresAt, err := h.authManager.GenerateToken(account)
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		InternalError(c, "failed to create session")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   makeAccountSummary(account),
	})
}

// healLegacyAccount 补齐迁移前账户缺失的租户字段，并清掉根账户上残留
// 的 RootUserID。完整账户原样返回。
func (h *HTTPHandler) healLegacyAccount(ctx context.Context, account *db.Account) (*db.Account, error) {
	var updates db.AccountUpdates

	if strings.TrimSpace(account.Role) == "" {
		role := db.RoleRootUser
		isRoot := true
		updates.Role = &role
		updates.IsRootUser = &isRoot
	}

	// 根账户不允许再挂在别的根之下，否则会一直解析到错误的租户
	role := account.Role
	if updates.Role != nil {
		role = *updates.Role
	}
	if role == db.RoleRootUser {
		if !account.IsRootUser && updates.IsRootUser == nil {
			isRoot := true
			updates.IsRootUser = &isRoot
		}
		if account.RootUserID != nil {
			var cleared *uint
			updates.RootUserID = &cleared
		}
	}
	if strings.TrimSpace(account.CompanyID) == "" {
		companyID := h.cfg.DefaultCompanyID
		updates.CompanyID = &companyID
	}
	if strings.TrimSpace(account.TenantID) == "" {
		tenantID := account.CompanyID
		if strings.TrimSpace(tenantID) == "" {
			tenantID = h.cfg.DefaultCompanyID
		}
		updates.TenantID = &tenantID
	}
	if strings.TrimSpace(account.SubscriptionPlan) == "" {
		plan := quota.PlanTrial
		updates.SubscriptionPlan = &plan
	}
	if strings.TrimSpace(account.SubscriptionStatus) == "" {
		status := db.SubscriptionActive
		updates.SubscriptionStatus = &status
	}

	if updates.IsEmpty() {
		return account, nil
	}

	if err := h.repo.UpdateAccount(ctx, account.ID, updates); err != nil {
		return account, err
	}
	logrus.WithField("account_id", account.ID).Info("legacy account healed on login")
	return h.repo.GetAccountByID(ctx, account.ID)
}

// AuthStatus 报告系统中是否已有账户，供前端决定展示注册还是登录。
func (h *HTTPHandler) AuthStatus(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusOK, dto.AuthStatusResponse{HasAccount: false})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	count, err := h.repo.CountAccounts(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to count accounts for auth status")
		InternalError(c, "failed to check auth status")
		return
	}
	c.JSON(http.StatusOK, dto.AuthStatusResponse{HasAccount: count > 0})
}

// Me 返回当前账户信息。
func (h *HTTPHandler) Me(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	account, err := h.repo.GetAccountByID(ctx, tc.UserID)
	if err != nil {
		logrus.WithError(err).WithField("account_id", tc.UserID).Error("failed to load account profile")
		RespondError(c, err)
		return
	}

	summary := makeAccountSummary(account)
	c.JSON(http.StatusOK, gin.H{
		"account":      summary,
		"root_user_id": tc.RootUserID,
	})
}

func makeAccountSummary(account *db.Account) dto.AccountSummary {
	if account == nil {
		return dto.AccountSummary{}
	}
	return dto.AccountSummary{
		ID:                 account.ID,
		Name:               account.Name,
		Email:              account.Email,
		Role:               account.Role,
		IsRootUser:         account.IsRootUser,
		RootUserID:         account.RootUserID,
		CompanyID:          account.CompanyID,
		TenantID:           account.TenantID,
		SubscriptionPlan:   account.SubscriptionPlan,
		SubscriptionStatus: account.SubscriptionStatus,
		IsActive:           account.IsActive,
		IsVerified:         account.IsVerified,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
}
