package dto

import "time"

// AuthRegisterRequest 注册请求。公司首个注册者成为根账户，
// 后续注册者挂到既有根账户之下。
type AuthRegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	CompanyID string `json:"company_id"`
}

// AuthLoginRequest 登录请求。
type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 登录/注册成功响应。
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   AccountSummary `json:"account"`
}

// AuthStatusResponse 报告系统中是否已有账户。
type AuthStatusResponse struct {
	HasAccount bool `json:"has_account"`
}
