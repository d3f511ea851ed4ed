package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"
	"tourbase/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// registerPublicRoutes 挂载无需认证的公共站点路由。
func (h *HTTPHandler) registerPublicRoutes(rg *gin.RouterGroup) {
	registerPublicResource(h, rg, "categories", h.repo.Categories())
	registerPublicResource(h, rg, "packages", h.repo.Packages())
	registerPublicResource(h, rg, "destinations", h.repo.Destinations())
	registerPublicResource(h, rg, "activities", h.repo.Activities())
	registerPublicResource(h, rg, "blogs", h.repo.Blogs())
	registerPublicResource(h, rg, "blog-categories", h.repo.BlogCategories())
	registerPublicResource(h, rg, "team-members", h.repo.TeamMembers())
	registerPublicResource(h, rg, "testimonials", h.repo.Testimonials())
	registerPublicResource(h, rg, "gallery", h.repo.Gallery())

	rg.GET("/settings", h.PublicSettings)
	rg.POST("/bookings", h.CreatePublicBooking)
}

func registerPublicResource[T any](h *HTTPHandler, rg *gin.RouterGroup, path string, store model.ContentStore[T]) {
	grp := rg.Group("/" + path)
	grp.GET("", func(c *gin.Context) { publicListContent(h, c, store) })
	grp.GET("/:key", func(c *gin.Context) { publicGetContent(h, c, store) })
}

// publicTenantID 解析公共请求的目标租户。未带参数时回退到默认租户，
// 显式参数必须命中允许列表，否则按不存在处理。
func (h *HTTPHandler) publicTenantID(c *gin.Context) (uint, error) {
	raw := strings.TrimSpace(c.Query("rootUserId"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("root_user_id"))
	}
	if raw == "" {
		return h.cfg.PublicDefaultRootUserID, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NewValidation("rootUserId", "must be a positive integer")
	}
	if !h.cfg.PublicTenantAllowed(uint(id)) {
		return 0, apperr.ErrInvalidTenant
	}
	return uint(id), nil
}

// publicListContent 列出某租户已发布的内容。未配置默认租户时返回空列表
// 而不是错误，公共站点可以优雅降级。
func publicListContent[T any](h *HTTPHandler, c *gin.Context, store model.ContentStore[T]) {
	rootUserID, err := h.publicTenantID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var query dto.ContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	normalisePaging(&query.BaseParams)
	query.RootUserID = rootUserID
	published := true
	query.Published = &published

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, meta, err := store.List(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list public content")
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContentListResponse{Items: items, Meta: meta})
}

// publicGetContent 按内部 ID 或 slug 返回单条已发布内容。
func publicGetContent[T any](h *HTTPHandler, c *gin.Context, store model.ContentStore[T]) {
	rootUserID, err := h.publicTenantID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		NotFound(c, "resource not found")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := store.GetPublic(ctx, key, rootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContentDetailResponse{Item: item})
}

// PublicSettings 返回租户的站点设置，未配置时返回空设置。
func (h *HTTPHandler) PublicSettings(c *gin.Context) {
	rootUserID, err := h.publicTenantID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	settings, err := h.repo.GetSettings(ctx, rootUserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"settings": db.SiteSettings{}})
			return
		}
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// CreatePublicBooking 接收公共站点的预订提交。
func (h *HTTPHandler) CreatePublicBooking(c *gin.Context) {
	rootUserID, err := h.publicTenantID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	if rootUserID == 0 {
		RespondError(c, apperr.ErrInvalidTenant)
		return
	}

	var req dto.BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// 预订引用的套餐必须属于目标租户
	if req.PackageID != nil && *req.PackageID != 0 {
		if _, err := h.repo.Packages().Get(ctx, *req.PackageID, rootUserID); err != nil {
			RespondError(c, err)
			return
		}
	}

	guests := req.Guests
	if guests <= 0 {
		guests = 1
	}

	booking := &db.Booking{
		RootUserID:   rootUserID,
		Reference:    newBookingReference(),
		PackageID:    req.PackageID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		TravelDate:   strings.TrimSpace(req.TravelDate),
		Guests:       guests,
		Message:      strings.TrimSpace(req.Message),
		Status:       db.BookingStatusPending,
	}

	if err := h.repo.CreateBooking(ctx, booking); err != nil {
		logrus.WithError(err).Error("failed to create booking")
		RespondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPublicBooking()
	}

	c.JSON(http.StatusCreated, gin.H{
		"reference": booking.Reference,
		"status":    booking.Status,
	})
}

// newBookingReference 生成对客户可读的预订编号。
func newBookingReference() string {
	id := uuid.NewString()
	return "BK-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:10])
}
