package db

// AccountUpdates 账户更新字段。登录自愈和管理端编辑共用。
type AccountUpdates struct {
	Name               *string
	Role               *string
	PasswordHash       *string
	IsRootUser         *bool
	RootUserID         **uint
	CompanyID          *string
	TenantID           *string
	SubscriptionPlan   *string
	SubscriptionStatus *string
	IsActive           *bool
	IsVerified         *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u AccountUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsRootUser != nil {
		updates["is_root_user"] = *u.IsRootUser
	}
	if u.RootUserID != nil {
		updates["root_user_id"] = *u.RootUserID
	}
	if u.CompanyID != nil {
		updates["company_id"] = *u.CompanyID
	}
	if u.TenantID != nil {
		updates["tenant_id"] = *u.TenantID
	}
	if u.SubscriptionPlan != nil {
		updates["subscription_plan"] = *u.SubscriptionPlan
	}
	if u.SubscriptionStatus != nil {
		updates["subscription_status"] = *u.SubscriptionStatus
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.IsVerified != nil {
		updates["is_verified"] = *u.IsVerified
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u AccountUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
