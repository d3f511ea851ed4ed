package api

import (
	"errors"
	"net/http"

	"tourbase/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeConflict           = "ERR_CONFLICT"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证与账户错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeAccountNotFound    = "ERR_ACCOUNT_NOT_FOUND"
	ErrCodeAccountDisabled    = "ERR_ACCOUNT_DISABLED"
	ErrCodeIncompleteAccount  = "ERR_INCOMPLETE_ACCOUNT"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"

	// 业务错误码
	ErrCodeQuotaExceeded = "ERR_QUOTA_EXCEEDED"
	ErrCodeMissingField  = "ERR_MISSING_FIELD"
	ErrCodeInvalidUpload = "ERR_INVALID_UPLOAD"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// RespondError 把领域错误翻译成 HTTP 响应。所有 handler 的错误出口
// 都走这里，保证错误语义在整个 API 层一致。
func RespondError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if ve, ok := apperr.IsValidation(err); ok {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation, "validation failed", gin.H{"fields": ve.Fields})
		return
	}
	if qe, ok := apperr.IsQuota(err); ok {
		ErrorResponseWithDetails(c, http.StatusForbidden, ErrCodeQuotaExceeded, "plan quota exceeded", gin.H{
			"content_type": qe.ContentType,
			"limit":        qe.Limit,
			"remaining":    qe.Remaining,
		})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrAuthenticationRequired), errors.Is(err, apperr.ErrInvalidIdentity):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, apperr.ErrAccountNotFound):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeAccountNotFound, "account not found")
	case errors.Is(err, apperr.ErrAccountInactive):
		ErrorResponse(c, http.StatusForbidden, ErrCodeAccountDisabled, "account is disabled")
	case errors.Is(err, apperr.ErrIncompleteAccount):
		ErrorResponse(c, http.StatusForbidden, ErrCodeIncompleteAccount, "account is missing tenant information")
	case errors.Is(err, apperr.ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	// 跨租户访问与真实缺失刻意返回同一个 404，不泄露资源是否存在。
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrInvalidTenant), errors.Is(err, gorm.ErrRecordNotFound):
		ErrorResponse(c, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		ErrorResponse(c, http.StatusConflict, ErrCodeConflict, "duplicate resource")
	default:
		logrus.WithError(err).Error("unhandled api error")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}
