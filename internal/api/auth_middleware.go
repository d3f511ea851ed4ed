package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tourbase/internal/entity/db"
	"tourbase/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	tenantContextKey = "tenant-context"

	// rootOverrideHeader 允许超级管理员显式指定要操作的租户。
	// 普通账户带上这个头会被直接拒绝。
	rootOverrideHeader = "X-Root-User-Id"
)

// AuthMiddleware JWT 认证中间件。解析 Bearer Token，再把身份交给
// 租户解析器换取生效租户上下文。
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "缺少授权头",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "无效的授权头格式",
			})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "缺少 Bearer Token",
			})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Warn("failed to parse jwt token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeSessionExpired,
				Message: "Token 无效或已过期",
			})
			return
		}

		identity := tenant.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
		}
		if raw := strings.TrimSpace(c.GetHeader(rootOverrideHeader)); raw != "" {
			override, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || override == 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, APIError{
					Code:    ErrCodeInvalidRequest,
					Message: "invalid root user override",
				})
				return
			}
			identity.RootOverride = uint(override)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		tc, err := h.resolver.Resolve(ctx, identity)
		if err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(tenantContextKey, tc)
		c.Next()
	}
}

// RequireAdmin 管理权限守卫中间件。
func (h *HTTPHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := CurrentTenant(c)
		if tc == nil || !isAdminRole(tc.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "需要管理员权限",
			})
			return
		}
		c.Next()
	}
}

// CurrentTenant 从请求上下文取出解析后的租户上下文。
func CurrentTenant(c *gin.Context) *tenant.Context {
	value, exists := c.Get(tenantContextKey)
	if !exists {
		return nil
	}
	tc, ok := value.(*tenant.Context)
	if !ok {
		return nil
	}
	return tc
}

func isAdminRole(role string) bool {
	switch role {
	case db.RoleRootUser, db.RoleAdmin, db.RoleSuperAdmin:
		return true
	default:
		return false
	}
}
