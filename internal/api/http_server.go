package api

import (
	"net/http"
	"strings"
	"time"

	"tourbase/internal/auth"
	"tourbase/internal/config"
	"tourbase/internal/metrics"
	"tourbase/internal/model"
	"tourbase/internal/storage"
	"tourbase/internal/tenant"

	"github.com/gin-gonic/gin"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager
	resolver          *tenant.Resolver
	metrics           *metrics.Metrics
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, collector *metrics.Metrics) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		resolver:          tenant.NewResolver(repo),
		metrics:           collector,
	}, nil
}

// RegisterRoutes 注册全部路由。
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	// 本地存储直接通过 HTTP 提供媒体文件
	if provider, ok := h.storage.(storage.LocalBaseDirProvider); ok {
		base := h.storagePublicBase
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			router.Static(base, provider.LocalBaseDir())
		}
	}

	// 认证
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/status", h.AuthStatus)
		authGroup.GET("/me", h.AuthMiddleware(), h.Me)
	}

	// 公共站点（无需认证）
	public := router.Group("/api/public")
	h.registerPublicRoutes(public)

	// 需要认证的管理接口
	api := router.Group("/api", h.AuthMiddleware())
	h.registerContentRoutes(api)

	api.GET("/quota", h.QuotaStatus)

	api.GET("/bookings", h.ListBookings)
	api.GET("/bookings/:id", h.GetBooking)
	api.PUT("/bookings/:id/status", h.UpdateBookingStatus)
	api.DELETE("/bookings/:id", h.DeleteBooking)

	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.SaveSettings)

	api.POST("/uploads", h.UploadFile)

	// 管理员专属
	admin := api.Group("/admin", h.RequireAdmin())
	{
		admin.GET("/accounts", h.ListAccounts)
		admin.POST("/accounts", h.CreateAccount)
		admin.PUT("/accounts/:id", h.UpdateAccount)
		admin.DELETE("/accounts/:id", h.DeleteAccount)

		admin.POST("/maintenance/heal", h.HealTenantContent)
	}
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/media"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

// publicURLFor 把存储标识符转换为可访问的 URL。
func (h *HTTPHandler) publicURLFor(storagePath string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(storagePath), "/")
	if trimmed == "" {
		return ""
	}
	return h.storagePublicBase + "/" + trimmed
}
