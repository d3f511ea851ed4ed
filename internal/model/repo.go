package model

import (
	"context"

	"tourbase/internal/entity/common"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"
)

// ContentStore 是按租户隔离的通用内容仓库。所有读写都以 rootUserID
// 过滤；跨租户访问一律返回 apperr.ErrNotFound，不泄露资源是否存在。
type ContentStore[T any] interface {
	List(ctx context.Context, params *dto.ContentQuery) ([]T, *common.Meta, error)
	Get(ctx context.Context, id, rootUserID uint) (*T, error)
	// GetPublic 按内部 ID 或 slug 查找已发布条目，供公共站点使用。
	GetPublic(ctx context.Context, key string, rootUserID uint) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, id, rootUserID uint, updates map[string]interface{}) (*T, error)
	Delete(ctx context.Context, id, rootUserID uint) (*T, error)
	// Reorder 要求所有 ID 均属于该租户，否则整体拒绝。
	Reorder(ctx context.Context, rootUserID uint, ids []uint) error
}

// HealParams 指定一次孤儿收养/排序回填的归属目标。
type HealParams struct {
	RootUserID uint
	UserID     uint
	CompanyID  string
}

// HealResult 单张表的治理结果。
type HealResult struct {
	Adopted    int64 `json:"adopted"`
	Backfilled int64 `json:"backfilled"`
}

// Repository 定义数据库操作接口
type Repository interface {
	// 账户管理
	CreateAccount(ctx context.Context, account *db.Account) error
	UpdateAccount(ctx context.Context, id uint, updates db.AccountUpdates) error
	GetAccountByID(ctx context.Context, id uint) (*db.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*db.Account, error)
	FindRootAccountByCompany(ctx context.Context, companyID string) (*db.Account, error)
	ListAccounts(ctx context.Context, params *dto.AccountQuery) ([]db.Account, *common.Meta, error)
	DeleteAccount(ctx context.Context, id uint) error
	CountAccounts(ctx context.Context) (int64, error)
	// AdjustUsage 调整根账户某内容类型的用量计数，下限为零。
	AdjustUsage(ctx context.Context, rootUserID uint, usageColumn string, delta int) error

	// 内容仓库（每实体一个租户隔离的存储）
	Categories() ContentStore[db.Category]
	Packages() ContentStore[db.Package]
	Destinations() ContentStore[db.Destination]
	Activities() ContentStore[db.Activity]
	Blogs() ContentStore[db.Blog]
	BlogCategories() ContentStore[db.BlogCategory]
	TeamMembers() ContentStore[db.TeamMember]
	Testimonials() ContentStore[db.Testimonial]
	Gallery() ContentStore[db.GalleryImage]

	// 预订
	CreateBooking(ctx context.Context, booking *db.Booking) error
	ListBookings(ctx context.Context, params *dto.BookingQuery) ([]db.Booking, *common.Meta, error)
	GetBooking(ctx context.Context, id, rootUserID uint) (*db.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, rootUserID uint, status string) error
	DeleteBooking(ctx context.Context, id, rootUserID uint) error

	// 站点设置（每租户一份）
	GetSettings(ctx context.Context, rootUserID uint) (*db.SiteSettings, error)
	SaveSettings(ctx context.Context, settings *db.SiteSettings) error

	// HealTenantContent 一次性、幂等的孤儿收养与排序回填。
	HealTenantContent(ctx context.Context, params HealParams) (map[string]HealResult, error)
}
