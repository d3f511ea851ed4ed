package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"
	"tourbase/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func newTestRepository(t *testing.T) *GormRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NamingStrategy:                           schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := model.MigrateSchema(gormDB); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return NewGormRepository(gormDB)
}

func createTestRoot(t *testing.T, repo *GormRepository, email, company string) *db.Account {
	t.Helper()
	account := &db.Account{
		Name:               "Owner",
		Email:              email,
		PasswordHash:       "hash",
		Role:               db.RoleRootUser,
		IsRootUser:         true,
		CompanyID:          company,
		TenantID:           company,
		SubscriptionPlan:   "trial",
		SubscriptionStatus: db.SubscriptionActive,
		IsActive:           true,
	}
	if err := repo.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create root account: %v", err)
	}
	return account
}

func createTestCategory(t *testing.T, repo *GormRepository, rootUserID uint, name string, published bool) *db.Category {
	t.Helper()
	category := &db.Category{Name: name}
	category.RootUserID = rootUserID
	category.CreatedByID = rootUserID
	category.Slug = name
	category.Published = published
	if err := repo.Categories().Create(context.Background(), category); err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return category
}

func TestContentStoreTenantIsolation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	alpha := createTestRoot(t, repo, "alpha@example.com", "alpha")
	beta := createTestRoot(t, repo, "beta@example.com", "beta")

	catAlpha := createTestCategory(t, repo, alpha.ID, "safari", true)
	createTestCategory(t, repo, beta.ID, "cruise", true)

	items, _, err := repo.Categories().List(ctx, &dto.ContentQuery{RootUserID: alpha.ID})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "safari" {
		t.Fatalf("expected only alpha's category, got %d items", len(items))
	}

	// 跨租户读取按不存在处理
	if _, err := repo.Categories().Get(ctx, catAlpha.ID, beta.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-tenant read, got %v", err)
	}

	// 跨租户更新与删除同样拒绝
	if _, err := repo.Categories().Update(ctx, catAlpha.ID, beta.ID, map[string]interface{}{"name": "stolen"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-tenant update, got %v", err)
	}
	if _, err := repo.Categories().Delete(ctx, catAlpha.ID, beta.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-tenant delete, got %v", err)
	}
}

func TestContentStoreListWithoutTenantIsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	items, meta, err := repo.Categories().List(context.Background(), &dto.ContentQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
	if meta == nil || meta.Total != 0 {
		t.Fatalf("expected zero total, got %+v", meta)
	}
}

func TestContentStoreNameUniquePerTenant(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	alpha := createTestRoot(t, repo, "alpha@example.com", "alpha")
	beta := createTestRoot(t, repo, "beta@example.com", "beta")

	createTestCategory(t, repo, alpha.ID, "Safari", true)

	// 同租户同名（大小写不敏感）冲突
	dup := &db.Category{Name: "safari"}
	dup.RootUserID = alpha.ID
	if err := repo.Categories().Create(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// 其他租户可以使用同名
	other := &db.Category{Name: "Safari"}
	other.RootUserID = beta.ID
	if err := repo.Categories().Create(ctx, other); err != nil {
		t.Fatalf("expected cross-tenant same name to succeed, got %v", err)
	}
}

func TestContentStoreCreateAssignsSequentialPositions(t *testing.T) {
	repo := newTestRepository(t)
	root := createTestRoot(t, repo, "owner@example.com", "acme")

	first := createTestCategory(t, repo, root.ID, "first", false)
	second := createTestCategory(t, repo, root.ID, "second", false)
	third := createTestCategory(t, repo, root.ID, "third", false)

	if first.Position != 1 || second.Position != 2 || third.Position != 3 {
		t.Fatalf("expected positions 1,2,3, got %d,%d,%d", first.Position, second.Position, third.Position)
	}
}

func TestContentStoreReorder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	root := createTestRoot(t, repo, "owner@example.com", "acme")
	other := createTestRoot(t, repo, "other@example.com", "other")

	a := createTestCategory(t, repo, root.ID, "a", false)
	b := createTestCategory(t, repo, root.ID, "b", false)
	c := createTestCategory(t, repo, root.ID, "c", false)
	foreign := createTestCategory(t, repo, other.ID, "foreign", false)

	if err := repo.Categories().Reorder(ctx, root.ID, []uint{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("unexpected reorder error: %v", err)
	}

	items, _, err := repo.Categories().List(ctx, &dto.ContentQuery{RootUserID: root.ID})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	gotOrder := []string{items[0].Name, items[1].Name, items[2].Name}
	wantOrder := []string{"c", "a", "b"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("expected order %v, got %v", wantOrder, gotOrder)
		}
	}

	// 混入他租户的 ID 时整体拒绝，顺序不变
	if err := repo.Categories().Reorder(ctx, root.ID, []uint{a.ID, foreign.ID}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	items, _, _ = repo.Categories().List(ctx, &dto.ContentQuery{RootUserID: root.ID})
	if items[0].Name != "c" {
		t.Fatal("expected order to be unchanged after rejected reorder")
	}

	// 重排序幂等
	if err := repo.Categories().Reorder(ctx, root.ID, []uint{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("unexpected error on repeat reorder: %v", err)
	}
}

func TestContentStoreGetPublic(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	root := createTestRoot(t, repo, "owner@example.com", "acme")

	published := createTestCategory(t, repo, root.ID, "published-cat", true)
	draft := createTestCategory(t, repo, root.ID, "draft-cat", false)

	// 按 slug 查找
	found, err := repo.Categories().GetPublic(ctx, "published-cat", root.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != published.ID {
		t.Fatalf("expected category %d, got %d", published.ID, found.ID)
	}

	// 草稿对公共端不可见
	if _, err := repo.Categories().GetPublic(ctx, "draft-cat", root.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for draft, got %v", err)
	}
	_ = draft
}

func TestAdjustUsageFloorsAtZero(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	root := createTestRoot(t, repo, "owner@example.com", "acme")

	if err := repo.AdjustUsage(ctx, root.ID, "usage_packages", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.AdjustUsage(ctx, root.ID, "usage_packages", -5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, err := repo.GetAccountByID(ctx, root.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.UsagePackages != 0 {
		t.Fatalf("expected usage floored at 0, got %d", account.UsagePackages)
	}

	if err := repo.AdjustUsage(ctx, root.ID, "not_a_column", 1); err == nil {
		t.Fatal("expected error for unknown usage column")
	}
}

func TestHealTenantContentIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	root := createTestRoot(t, repo, "owner@example.com", "acme")

	// 直接写入迁移前的孤儿行：无租户归属，位置为零
	orphan := &db.Category{Name: "legacy"}
	orphan.CreatedByID = root.ID
	orphan.CompanyID = "acme"
	if err := repo.db.Create(orphan).Error; err != nil {
		t.Fatalf("failed to seed orphan: %v", err)
	}

	report, err := repo.HealTenantContent(ctx, model.HealParams{
		RootUserID: root.ID,
		UserID:     root.ID,
		CompanyID:  "acme",
	})
	if err != nil {
		t.Fatalf("unexpected heal error: %v", err)
	}
	if report["categories"].Adopted != 1 {
		t.Fatalf("expected 1 adopted category, got %d", report["categories"].Adopted)
	}
	if report["categories"].Backfilled != 1 {
		t.Fatalf("expected 1 backfilled position, got %d", report["categories"].Backfilled)
	}

	healed, err := repo.Categories().Get(ctx, orphan.ID, root.ID)
	if err != nil {
		t.Fatalf("expected orphan to be readable after adoption: %v", err)
	}
	if healed.Position == 0 {
		t.Fatal("expected position to be backfilled")
	}

	// 二次执行零变更
	report, err = repo.HealTenantContent(ctx, model.HealParams{
		RootUserID: root.ID,
		UserID:     root.ID,
		CompanyID:  "acme",
	})
	if err != nil {
		t.Fatalf("unexpected heal error: %v", err)
	}
	if report["categories"].Adopted != 0 || report["categories"].Backfilled != 0 {
		t.Fatalf("expected idempotent second run, got %+v", report["categories"])
	}
}

func TestBookingLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	root := createTestRoot(t, repo, "owner@example.com", "acme")
	other := createTestRoot(t, repo, "other@example.com", "other")

	booking := &db.Booking{
		RootUserID:   root.ID,
		Reference:    "BK-TEST0001",
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		Guests:       2,
	}
	if err := repo.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if booking.Status != db.BookingStatusPending {
		t.Fatalf("expected default pending status, got %s", booking.Status)
	}

	// 预订只对所属租户可见
	bookings, _, err := repo.ListBookings(ctx, &dto.BookingQuery{RootUserID: root.ID})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if _, err := repo.GetBooking(ctx, booking.ID, other.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-tenant booking read, got %v", err)
	}

	// 非法状态拒绝
	err = repo.UpdateBookingStatus(ctx, booking.ID, root.ID, "bogus")
	if _, ok := apperr.IsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := repo.UpdateBookingStatus(ctx, booking.ID, root.ID, db.BookingStatusConfirmed); err != nil {
		t.Fatalf("unexpected status update error: %v", err)
	}
	updated, err := repo.GetBooking(ctx, booking.ID, root.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if updated.Status != db.BookingStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", updated.Status)
	}

	if err := repo.DeleteBooking(ctx, booking.ID, root.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, err := repo.GetBooking(ctx, booking.ID, root.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSettingsUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	root := createTestRoot(t, repo, "owner@example.com", "acme")

	if _, err := repo.GetSettings(ctx, root.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}

	settings := &db.SiteSettings{
		RootUserID: root.ID,
		SiteName:   "Acme Tours",
	}
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	settings.SiteName = "Acme Travel"
	settings.ContactEmail = "hello@acme.example"
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("unexpected second save error: %v", err)
	}

	saved, err := repo.GetSettings(ctx, root.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if saved.SiteName != "Acme Travel" || saved.ContactEmail != "hello@acme.example" {
		t.Fatalf("expected upserted settings, got %+v", saved)
	}

	// 仍然只有一行
	var count int64
	if err := repo.db.Model(&db.SiteSettings{}).Where("root_user_id = ?", root.ID).Count(&count).Error; err != nil {
		t.Fatalf("unexpected count error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one settings row, got %d", count)
	}
}

func TestGetAccountByEmailOldestWins(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := createTestRoot(t, repo, "shared@example.com", "one")
	second := &db.Account{
		Email:        "SHARED@example.com",
		PasswordHash: "hash",
		Role:         db.RoleRootUser,
		IsRootUser:   true,
		CompanyID:    "two",
		TenantID:     "two",
		IsActive:     true,
	}
	if err := repo.CreateAccount(ctx, second); err != nil {
		t.Fatalf("failed to create second account: %v", err)
	}

	found, err := repo.GetAccountByEmail(ctx, "shared@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != first.ID {
		t.Fatalf("expected oldest account %d, got %d", first.ID, found.ID)
	}
}

func TestCreateAccountDuplicateEmailTranslated(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	createTestRoot(t, repo, "owner@example.com", "acme")

	// 同公司同邮箱触发唯一索引，驱动错误被翻译成 gorm.ErrDuplicatedKey
	dup := &db.Account{
		Name:         "Clone",
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Role:         db.RoleAdmin,
		CompanyID:    "acme",
		TenantID:     "acme",
		IsActive:     true,
	}
	if err := repo.CreateAccount(ctx, dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}
