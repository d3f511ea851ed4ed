// Package tenant 把请求身份解析为生效租户（根账户 ID）。
// 所有私有数据访问都必须经过这里得到的 Context 过滤。
package tenant

import (
	"context"
	"errors"
	"strings"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/db"

	"gorm.io/gorm"
)

// Identity 是一次已验证请求携带的身份信息。UserID/Email 来自校验过的
// 会话令牌，RootOverride 来自显式的 X-Root-User-Id 头（仅超级管理员可用）。
type Identity struct {
	UserID       uint
	Email        string
	RootOverride uint
}

// Context 是解析后的请求上下文，后续所有仓库调用以 RootUserID 过滤。
type Context struct {
	UserID             uint
	RootUserID         uint
	CompanyID          string
	TenantID           string
	SubscriptionPlan   string
	SubscriptionStatus string
	Role               string
	Email              string
	Name               string
}

// AccountDirectory 是解析器需要的最小账户查询接口。
type AccountDirectory interface {
	GetAccountByID(ctx context.Context, id uint) (*db.Account, error)
}

// Resolver 按固定优先级解析生效租户：
// 显式 override > 根账户自身 > 账户存储的 RootUserID。
type Resolver struct {
	dir AccountDirectory
}

// NewResolver 创建解析器。
func NewResolver(dir AccountDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve 校验身份并产出租户上下文。纯查询，不做任何写入；
// 遗留账户的字段补齐由登录路径单独完成。
func (r *Resolver) Resolve(ctx context.Context, identity Identity) (*Context, error) {
	if r == nil || r.dir == nil {
		return nil, apperr.ErrAuthenticationRequired
	}
	if identity.UserID == 0 || strings.TrimSpace(identity.Email) == "" {
		return nil, apperr.ErrAuthenticationRequired
	}

	account, err := r.dir.GetAccountByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, apperr.ErrAccountInactive
	}

	rootUserID := account.EffectiveRootUserID()
	if identity.RootOverride != 0 {
		// 跨租户操作只对超级管理员开放。
		if account.Role != db.RoleSuperAdmin {
			return nil, apperr.ErrForbidden
		}
		rootUserID = identity.RootOverride
	}
	if rootUserID == 0 {
		return nil, apperr.ErrIncompleteAccount
	}

	if strings.TrimSpace(account.CompanyID) == "" || strings.TrimSpace(account.TenantID) == "" {
		return nil, apperr.ErrIncompleteAccount
	}

	return &Context{
		UserID:             account.ID,
		RootUserID:         rootUserID,
		CompanyID:          account.CompanyID,
		TenantID:           account.TenantID,
		SubscriptionPlan:   account.SubscriptionPlan,
		SubscriptionStatus: account.SubscriptionStatus,
		Role:               account.Role,
		Email:              account.Email,
		Name:               account.Name,
	}, nil
}
