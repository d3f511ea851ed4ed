// Package apperr holds the shared error taxonomy. Every repository and
// policy layer returns one of these, and the API layer translates them to
// HTTP exactly once.
package apperr

import (
	"errors"
	"fmt"
)

// 身份与租户解析错误
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidIdentity        = errors.New("invalid identity")
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrIncompleteAccount      = errors.New("account is missing tenant information")
	ErrInvalidTenant          = errors.New("unknown tenant")
)

// 资源访问错误
var (
	// ErrNotFound 同时覆盖真实缺失与跨租户访问：对读路径刻意不区分，
	// 避免向外确认其他租户资源的存在。
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("duplicate resource")
)

// ValidationError 携带字段级校验信息。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// NewValidation 创建单字段校验错误。
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// QuotaError 表示订阅套餐配额已用尽。
type QuotaError struct {
	ContentType string
	Limit       int
	Remaining   int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (limit %d)", e.ContentType, e.Limit)
}

// IsValidation 判断错误是否为校验错误。
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsQuota 判断错误是否为配额错误。
func IsQuota(err error) (*QuotaError, bool) {
	var qe *QuotaError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
