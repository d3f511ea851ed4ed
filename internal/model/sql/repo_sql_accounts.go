package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/common"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"

	"gorm.io/gorm"
)

// usageColumns 是允许通过 AdjustUsage 修改的列，防止拼接任意列名。
var usageColumns = map[string]struct{}{
	"usage_packages":     {},
	"usage_destinations": {},
	"usage_activities":   {},
	"usage_blogs":        {},
	"usage_team_members": {},
	"usage_testimonials": {},
}

// CreateAccount persists a new account record.
func (r *GormRepository) CreateAccount(ctx context.Context, account *db.Account) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if account == nil {
		return fmt.Errorf("account is nil")
	}
	return r.db.WithContext(ctx).Create(account).Error
}

// UpdateAccount updates an existing account entry.
func (r *GormRepository) UpdateAccount(ctx context.Context, id uint, updates db.AccountUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid account id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&db.Account{}).Where("id = ?", id).Updates(values).Error
}

// GetAccountByID loads an account by ID.
func (r *GormRepository) GetAccountByID(ctx context.Context, id uint) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, apperr.ErrNotFound
	}
	var account db.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByEmail loads an account by email. Legacy rows may share an
// email across companies; the oldest row wins, matching historic logins.
func (r *GormRepository) GetAccountByEmail(ctx context.Context, email string) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, apperr.ErrNotFound
	}

	var account db.Account
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(trimmed)).
		Order("id ASC").
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindRootAccountByCompany returns the first root account registered for a
// company, used to attach later registrants to the existing tenant.
func (r *GormRepository) FindRootAccountByCompany(ctx context.Context, companyID string) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(companyID)
	if trimmed == "" {
		return nil, apperr.ErrNotFound
	}

	var account db.Account
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_root_user = ?", trimmed, true).
		Order("id ASC").
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns paginated accounts, scoped to a tenant when the
// query carries a RootUserID.
func (r *GormRepository) ListAccounts(ctx context.Context, params *dto.AccountQuery) ([]db.Account, *common.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&db.Account{})
	if params != nil {
		if params.RootUserID != 0 {
			query = query.Where("id = ? OR root_user_id = ?", params.RootUserID, params.RootUserID)
		}
		if trimmed := strings.TrimSpace(params.Role); trimmed != "" {
			query = query.Where("role = ?", trimmed)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	var accounts []db.Account
	if err := query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&accounts).Error; err != nil {
		return nil, nil, err
	}

	return accounts, calculatePagination(total, page, pageSize), nil
}

// DeleteAccount removes an account by ID.
func (r *GormRepository) DeleteAccount(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid account id")
	}
	result := r.db.WithContext(ctx).Delete(&db.Account{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountAccounts returns total account count.
func (r *GormRepository) CountAccounts(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Account{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AdjustUsage 调整根账户的某个用量计数，结果不会低于零。
func (r *GormRepository) AdjustUsage(ctx context.Context, rootUserID uint, usageColumn string, delta int) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if rootUserID == 0 {
		return fmt.Errorf("invalid root user id")
	}
	if _, ok := usageColumns[usageColumn]; !ok {
		return fmt.Errorf("unknown usage column: %s", usageColumn)
	}
	if delta == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account db.Account
		if err := tx.First(&account, rootUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrAccountNotFound
			}
			return err
		}

		current := map[string]int{
			"usage_packages":     account.UsagePackages,
			"usage_destinations": account.UsageDestinations,
			"usage_activities":   account.UsageActivities,
			"usage_blogs":        account.UsageBlogs,
			"usage_team_members": account.UsageTeamMembers,
			"usage_testimonials": account.UsageTestimonials,
		}[usageColumn]

		next := current + delta
		if next < 0 {
			next = 0
		}
		return tx.Model(&db.Account{}).Where("id = ?", rootUserID).
			Update(usageColumn, next).Error
	})
}
