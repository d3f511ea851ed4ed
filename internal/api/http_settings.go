package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GetSettings 返回当前租户的站点设置。尚未保存过时返回空设置。
func (h *HTTPHandler) GetSettings(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	settings, err := h.repo.GetSettings(ctx, tc.RootUserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"settings": db.SiteSettings{RootUserID: tc.RootUserID}})
			return
		}
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// SaveSettings 保存当前租户的站点设置（整体 upsert）。
func (h *HTTPHandler) SaveSettings(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var settings db.SiteSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		InvalidPayload(c)
		return
	}

	// 归属列来自租户上下文，客户端提交的值不可信
	settings.ID = 0
	settings.RootUserID = tc.RootUserID

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.SaveSettings(ctx, &settings); err != nil {
		logrus.WithError(err).Error("failed to save site settings")
		RespondError(c, err)
		return
	}

	saved, err := h.repo.GetSettings(ctx, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": saved})
}
