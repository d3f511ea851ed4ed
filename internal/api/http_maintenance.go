package api

import (
	"context"
	"net/http"
	"time"

	"tourbase/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealTenantContent 一次性收养孤儿内容并回填排序位置。幂等，
// 重复调用报告零变更。
func (h *HTTPHandler) HealTenantContent(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	report, err := h.repo.HealTenantContent(ctx, model.HealParams{
		RootUserID: tc.RootUserID,
		UserID:     tc.UserID,
		CompanyID:  tc.CompanyID,
	})
	if err != nil {
		logrus.WithError(err).Error("tenant content healing failed")
		RespondError(c, err)
		return
	}

	logrus.WithField("root_user_id", tc.RootUserID).Info("tenant content healed")
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// HealOnStart 供启动流程使用：对默认公共租户执行一次治理。
func HealOnStart(ctx context.Context, repo model.Repository, rootUserID uint, companyID string) error {
	if repo == nil || rootUserID == 0 {
		return nil
	}
	report, err := repo.HealTenantContent(ctx, model.HealParams{
		RootUserID: rootUserID,
		UserID:     rootUserID,
		CompanyID:  companyID,
	})
	if err != nil {
		return err
	}
	for table, result := range report {
		if result.Adopted > 0 || result.Backfilled > 0 {
			logrus.WithFields(logrus.Fields{
				"table":      table,
				"adopted":    result.Adopted,
				"backfilled": result.Backfilled,
			}).Info("startup healing applied")
		}
	}
	return nil
}
