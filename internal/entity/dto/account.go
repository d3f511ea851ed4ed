package dto

import (
	"time"

	"tourbase/internal/entity/common"
)

// AccountSummary is a lightweight account description returned to clients.
type AccountSummary struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	IsRootUser         bool      `json:"is_root_user"`
	RootUserID         *uint     `json:"root_user_id"`
	CompanyID          string    `json:"company_id"`
	TenantID           string    `json:"tenant_id"`
	SubscriptionPlan   string    `json:"subscription_plan"`
	SubscriptionStatus string    `json:"subscription_status"`
	IsActive           bool      `json:"is_active"`
	IsVerified         bool      `json:"is_verified"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AccountQuery supports listing accounts with pagination.
type AccountQuery struct {
	common.BaseParams
	RootUserID uint   `json:"-" form:"-"`
	Role       string `json:"role" form:"role"`
	Keyword    string `json:"keyword" form:"keyword"`
}

// AccountCreateRequest is the payload for creating a member account.
type AccountCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// AccountUpdateRequest is the payload for updating an account.
type AccountUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AccountListResponse is the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountSummary `json:"accounts"`
	Meta     *common.Meta     `json:"meta"`
}
