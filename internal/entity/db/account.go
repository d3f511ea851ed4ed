package db

import "time"

const (
	RoleRootUser   = "root_user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

const (
	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
)

// Account 表示持久化的账户。根账户（tenant owner）的 RootUserID 为空，
// 成员账户的 RootUserID 指向其所属的根账户。
type Account struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `gorm:"column:name;type:varchar(255)" json:"name"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex:idx_accounts_company_email,priority:2;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`

	// Role 为空表示迁移前的遗留账户，登录时自愈补齐。
	Role       string `gorm:"column:role;type:varchar(50);index" json:"role"`
	IsRootUser bool   `gorm:"column:is_root_user;not null;default:false" json:"is_root_user"`
	RootUserID *uint  `gorm:"column:root_user_id;index" json:"root_user_id"`

	// CompanyID/TenantID 是历史遗留的字符串租户标识，新的数据隔离
	// 以 RootUserID 为准。
	CompanyID string `gorm:"column:company_id;type:varchar(64);uniqueIndex:idx_accounts_company_email,priority:1;index" json:"company_id"`
	TenantID  string `gorm:"column:tenant_id;type:varchar(64)" json:"tenant_id"`

	SubscriptionPlan   string `gorm:"column:subscription_plan;type:varchar(50)" json:"subscription_plan"`
	SubscriptionStatus string `gorm:"column:subscription_status;type:varchar(50)" json:"subscription_status"`

	// 各内容类型的已发布用量计数，只在根账户上维护。
	UsagePackages     int `gorm:"column:usage_packages;not null;default:0" json:"usage_packages"`
	UsageDestinations int `gorm:"column:usage_destinations;not null;default:0" json:"usage_destinations"`
	UsageActivities   int `gorm:"column:usage_activities;not null;default:0" json:"usage_activities"`
	UsageBlogs        int `gorm:"column:usage_blogs;not null;default:0" json:"usage_blogs"`
	UsageTeamMembers  int `gorm:"column:usage_team_members;not null;default:0" json:"usage_team_members"`
	UsageTestimonials int `gorm:"column:usage_testimonials;not null;default:0" json:"usage_testimonials"`

	IsActive   bool `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsVerified bool `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
}

// TableName 指定表名。
func (Account) TableName() string {
	return "accounts"
}

// EffectiveRootUserID 返回该账户数据归属的根账户 ID。
// 根账户归属自身，成员账户归属其 RootUserID，未迁移完成时返回 0。
func (a *Account) EffectiveRootUserID() uint {
	if a == nil {
		return 0
	}
	if a.IsRootUser {
		return a.ID
	}
	if a.RootUserID != nil {
		return *a.RootUserID
	}
	return 0
}

// IsAdminRole 判断账户是否具有管理权限。
func (a *Account) IsAdminRole() bool {
	if a == nil {
		return false
	}
	switch a.Role {
	case RoleAdmin, RoleSuperAdmin, RoleRootUser:
		return true
	default:
		return false
	}
}
