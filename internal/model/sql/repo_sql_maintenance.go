package sql

import (
	"context"
	"fmt"
	"strings"

	"tourbase/internal/model"

	"gorm.io/gorm"
)

// contentTables 参与孤儿收养与排序回填的内容表。
var contentTables = []string{
	"categories",
	"packages",
	"destinations",
	"activities",
	"blogs",
	"blog_categories",
	"team_members",
	"testimonials",
	"gallery_images",
}

// HealTenantContent 在一个事务里完成两类修复，重复执行是幂等的：
//  1. 收养孤儿：root_user_id 为 0 但 created_by_id/company_id 指向
//     该租户的文档，补上 root_user_id；
//  2. 排序回填：position 为 0 的文档按创建时间接在当前最大位置之后。
func (r *GormRepository) HealTenantContent(ctx context.Context, params model.HealParams) (map[string]model.HealResult, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if params.RootUserID == 0 {
		return nil, fmt.Errorf("heal requires a root user id")
	}

	report := make(map[string]model.HealResult, len(contentTables))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range contentTables {
			result := model.HealResult{}

			adopted, err := adoptOrphans(tx, table, params)
			if err != nil {
				return fmt.Errorf("adopt orphans in %s: %w", table, err)
			}
			result.Adopted = adopted

			backfilled, err := backfillPositions(tx, table, params.RootUserID)
			if err != nil {
				return fmt.Errorf("backfill positions in %s: %w", table, err)
			}
			result.Backfilled = backfilled

			report[table] = result
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func adoptOrphans(tx *gorm.DB, table string, params model.HealParams) (int64, error) {
	conds := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if params.UserID != 0 {
		conds = append(conds, "created_by_id = ?")
		args = append(args, params.UserID)
	}
	if trimmed := strings.TrimSpace(params.CompanyID); trimmed != "" {
		conds = append(conds, "company_id = ?")
		args = append(args, trimmed)
	}
	if len(conds) == 0 {
		return 0, nil
	}

	result := tx.Table(table).
		Where("root_user_id = 0").
		Where(strings.Join(conds, " OR "), args...).
		Update("root_user_id", params.RootUserID)
	return result.RowsAffected, result.Error
}

func backfillPositions(tx *gorm.DB, table string, rootUserID uint) (int64, error) {
	var max *int
	err := tx.Table(table).
		Where("root_user_id = ?", rootUserID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	next := 1
	if max != nil {
		next = *max + 1
	}

	var ids []uint
	err = tx.Table(table).
		Where("root_user_id = ? AND position = 0", rootUserID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := tx.Table(table).Where("id = ?", id).Update("position", next).Error; err != nil {
			return 0, err
		}
		next++
	}
	return int64(len(ids)), nil
}
