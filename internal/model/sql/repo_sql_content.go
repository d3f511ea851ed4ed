package sql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/common"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"

	"gorm.io/gorm"
)

// contentPtr 约束内容模型：指针类型并能暴露公共元数据列。
type contentPtr[T any] interface {
	*T
	Meta() *db.ContentMeta
}

// uniqueNamed 由租户内名称唯一的模型实现（Category/BlogCategory/Testimonial）。
type uniqueNamed interface {
	UniqueName() string
}

// contentStore 是泛型的租户隔离内容仓库。每个实体共用同一套
// 过滤/排序/排重/重排序逻辑，只在列配置上有差异。
type contentStore[T any, PT contentPtr[T]] struct {
	db *gorm.DB

	// searchColumns 参与不区分大小写的子串搜索。
	searchColumns []string
	// uniqueNameColumn 非空时在租户范围内排重。
	uniqueNameColumn string
	// categoryColumn 非空时支持按分类过滤。
	categoryColumn string
}

// List returns tenant-scoped records ordered by position then recency.
func (s *contentStore[T, PT]) List(ctx context.Context, params *dto.ContentQuery) ([]T, *common.Meta, error) {
	if s == nil || s.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil || params.RootUserID == 0 {
		// 无租户即无数据：公共端点在默认租户缺失时优雅降级为空集。
		return []T{}, calculatePagination(0, 1, 20), nil
	}

	query := s.db.WithContext(ctx).Model(new(T)).Where("root_user_id = ?", params.RootUserID)

	if keyword := strings.TrimSpace(params.Search); keyword != "" && len(s.searchColumns) > 0 {
		kw := "%" + strings.ToLower(keyword) + "%"
		conds := make([]string, 0, len(s.searchColumns))
		args := make([]interface{}, 0, len(s.searchColumns))
		for _, col := range s.searchColumns {
			conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", col))
			args = append(args, kw)
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}
	if params.Published != nil {
		query = query.Where("published = ?", *params.Published)
	}
	if params.CategoryID != 0 && s.categoryColumn != "" {
		query = query.Where(fmt.Sprintf("%s = ?", s.categoryColumn), params.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params.Page > 0 {
		page = int(params.Page)
	}
	if params.PageSize > 0 {
		pageSize = int(params.PageSize)
	}

	var records []T
	err := query.
		Order("position ASC").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, nil, err
	}

	return records, calculatePagination(total, page, pageSize), nil
}

// Get loads a record only when both id and tenant match.
func (s *contentStore[T, PT]) Get(ctx context.Context, id, rootUserID uint) (*T, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 || rootUserID == 0 {
		return nil, apperr.ErrNotFound
	}
	var record T
	err := s.db.WithContext(ctx).
		Where("id = ? AND root_user_id = ?", id, rootUserID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetPublic looks up a published record by numeric id or slug.
func (s *contentStore[T, PT]) GetPublic(ctx context.Context, key string, rootUserID uint) (*T, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	key = strings.TrimSpace(key)
	if key == "" || rootUserID == 0 {
		return nil, apperr.ErrNotFound
	}

	query := s.db.WithContext(ctx).
		Where("root_user_id = ? AND published = ?", rootUserID, true)
	if id, err := strconv.ParseUint(key, 10, 64); err == nil && id > 0 {
		query = query.Where("id = ? OR slug = ?", uint(id), key)
	} else {
		query = query.Where("slug = ?", key)
	}

	var record T
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create persists a new record, assigning the next position in the tenant
// when none is supplied and rejecting duplicate names for name-unique types.
func (s *contentStore[T, PT]) Create(ctx context.Context, record *T) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	meta := PT(record).Meta()
	if meta.RootUserID == 0 {
		return fmt.Errorf("record has no tenant")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.uniqueNameColumn != "" {
			named, ok := any(record).(uniqueNamed)
			if !ok {
				return fmt.Errorf("store misconfigured: %T has no unique name", record)
			}
			conflict, err := s.nameTaken(tx, meta.RootUserID, named.UniqueName(), 0)
			if err != nil {
				return err
			}
			if conflict {
				return apperr.ErrConflict
			}
		}

		if meta.Position == 0 {
			next, err := s.nextPosition(tx, meta.RootUserID)
			if err != nil {
				return err
			}
			meta.Position = next
		}

		return tx.Create(record).Error
	})
}

// Update applies a tenant-scoped partial update and returns the fresh row.
func (s *contentStore[T, PT]) Update(ctx context.Context, id, rootUserID uint, updates map[string]interface{}) (*T, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 || rootUserID == 0 {
		return nil, apperr.ErrNotFound
	}

	var updated T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		err := tx.Where("id = ? AND root_user_id = ?", id, rootUserID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		if s.uniqueNameColumn != "" {
			if raw, ok := updates[s.uniqueNameColumn]; ok {
				if name, ok := raw.(string); ok {
					conflict, err := s.nameTaken(tx, rootUserID, name, id)
					if err != nil {
						return err
					}
					if conflict {
						return apperr.ErrConflict
					}
				}
			}
		}

		if len(updates) > 0 {
			result := tx.Model(new(T)).
				Where("id = ? AND root_user_id = ?", id, rootUserID).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
		}

		return tx.Where("id = ? AND root_user_id = ?", id, rootUserID).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a tenant-owned record and returns the deleted row so the
// caller can adjust quota and cascade media deletion.
func (s *contentStore[T, PT]) Delete(ctx context.Context, id, rootUserID uint) (*T, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 || rootUserID == 0 {
		return nil, apperr.ErrNotFound
	}

	var deleted T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND root_user_id = ?", id, rootUserID).First(&deleted).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		result := tx.Where("id = ? AND root_user_id = ?", id, rootUserID).Delete(new(T))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// Reorder assigns position by array order, starting at 1 so that zero
// stays reserved as the unset marker used by position backfill. Every id
// must belong to the tenant or the whole call is rejected before any
// write happens.
func (s *contentStore[T, PT]) Reorder(ctx context.Context, rootUserID uint, ids []uint) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if rootUserID == 0 {
		return apperr.ErrForbidden
	}

	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		err := tx.Model(new(T)).
			Where("root_user_id = ? AND id IN ?", rootUserID, unique).
			Count(&owned).Error
		if err != nil {
			return err
		}
		if owned != int64(len(unique)) {
			return apperr.ErrForbidden
		}

		for idx, id := range unique {
			err := tx.Model(new(T)).
				Where("id = ? AND root_user_id = ?", id, rootUserID).
				Update("position", idx+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *contentStore[T, PT]) nameTaken(tx *gorm.DB, rootUserID uint, name string, excludeID uint) (bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false, nil
	}
	query := tx.Model(new(T)).
		Where(fmt.Sprintf("root_user_id = ? AND LOWER(%s) = ?", s.uniqueNameColumn),
			rootUserID, strings.ToLower(trimmed))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *contentStore[T, PT]) nextPosition(tx *gorm.DB, rootUserID uint) (int, error) {
	var max *int
	err := tx.Model(new(T)).
		Where("root_user_id = ?", rootUserID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}
