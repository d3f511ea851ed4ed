package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/common"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"
	"tourbase/internal/model"
	"tourbase/internal/quota"
	"tourbase/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// contentPtr 约束内容实体指针必须暴露公共元数据列。
type contentPtr[T any] interface {
	*T
	Meta() *db.ContentMeta
}

// contentResource 描述一类内容的路由配置。quotaType 为空表示该类型
// 不计入订阅配额。
type contentResource[T any, PT contentPtr[T]] struct {
	path        string
	store       model.ContentStore[T]
	quotaType   quota.ContentType
	displayName func(*T) string
	mediaPaths  func(*T) []string
	bindUpdates func(c *gin.Context) (map[string]interface{}, error)
	required    []requiredField[T]
}

// requiredField 描述一个必填文本列：正常保存缺失时返回字段级校验
// 错误，草稿保存用占位值补齐后照常入库。占位值为空的列草稿可留空。
type requiredField[T any] struct {
	column      string
	placeholder string
	get         func(*T) string
	set         func(*T, string)
}

// registerResource 挂载一类内容的全部管理路由。
func registerResource[T any, PT contentPtr[T]](h *HTTPHandler, rg *gin.RouterGroup, res contentResource[T, PT]) {
	grp := rg.Group("/" + res.path)
	grp.GET("", func(c *gin.Context) { listContent(h, c, res) })
	grp.GET("/:id", func(c *gin.Context) { getContent(h, c, res) })
	grp.POST("", func(c *gin.Context) { createContent(h, c, res) })
	grp.PUT("/:id", func(c *gin.Context) { updateContent(h, c, res) })
	grp.DELETE("/:id", func(c *gin.Context) { deleteContent(h, c, res) })
	grp.POST("/reorder", func(c *gin.Context) { reorderContent(h, c, res) })
}

func listContent[T any, PT contentPtr[T]](h *HTTPHandler, c *gin.Context, res contentResource[T, PT]) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query dto.ContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	normalisePaging(&query.BaseParams)
	query.RootUserID = tc.RootUserID

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, meta, err := res.store.List(ctx, &query)
	if err != nil {
		logrus.WithError(err).WithField("resource", res.path).Error("failed to list content")
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContentListResponse{Items: items, Meta: meta})
}

func getContent[T any, PT contentPtr[T]](h *HTTPHandler, c *gin.Context, res contentResource[T, PT]) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := res.store.Get(ctx, id, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContentDetailResponse{Item: item})
}

func createContent[T any, PT contentPtr[T]](h *HTTPHandler, c *gin.Context, res contentResource[T, PT]) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	record := new(T)
	if err := c.ShouldBindJSON(record); err != nil {
		InvalidPayload(c)
		return
	}

	// 元数据列一律来自租户上下文，客户端提交的值不可信。
	meta := PT(record).Meta()
	meta.ID = 0
	meta.RootUserID = tc.RootUserID
	meta.CreatedByID = tc.UserID
	meta.CompanyID = tc.CompanyID

	// 草稿跳过必填校验，补占位值并强制下架；正常保存缺必填字段直接拒绝
	if isDraftRequest(c) {
		meta.Published = false
		fillDraftPlaceholders(record, res.required)
	} else if fields := missingRequiredFields(record, res.required); len(fields) > 0 {
		RespondError(c, &apperr.ValidationError{Fields: fields})
		return
	}

	if strings.TrimSpace(meta.Slug) == "" && res.displayName != nil {
		meta.Slug = slugify(res.displayName(record))
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if meta.Published && res.quotaType != "" {
		if err := h.checkQuota(ctx, tc, res.quotaType); err != nil {
			RespondError(c, err)
			return
		}
	}

	if err := res.store.Create(ctx, record); err != nil {
		RespondError(c, err)
		return
	}

	if meta.Published && res.quotaType != "" {
		if err := h.repo.AdjustUsage(ctx, tc.RootUserID, res.quotaType.Column(), 1); err != nil {
			logrus.WithError(err).WithField("resource", res.path).Error("failed to adjust usage counter")
		}
	}

	c.JSON(http.StatusCreated, dto.ContentDetailResponse{Item: record})
}

func updateContent[T any, PT contentPtr[T]](h *HTTPHandler, c *gin.Context, res contentResource[T, PT]) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	updates, err := res.bindUpdates(c)
	if err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := res.store.Get(ctx, id, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	wasPublished := PT(existing).Meta().Published

	if isDraftRequest(c) {
		applyDraftUpdates(existing, updates, res.required)
	} else if fields := blankedRequiredFields(updates, res.required); len(fields) > 0 {
		RespondError(c, &apperr.ValidationError{Fields: fields})
		return
	}

	willPublish := wasPublished
	if raw, ok := updates["published"]; ok {
		if published, ok := raw.(bool); ok {
			willPublish = published
		}
	}

	// 上架才消耗配额，下架释放
	if res.quotaType != "" && willPublish && !wasPublished {
		if err := h.checkQuota(ctx, tc, res.quotaType); err != nil {
			RespondError(c, err)
			return
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, dto.ContentDetailResponse{Item: existing})
		return
	}

	updated, err := res.store.Update(ctx, id, tc.RootUserID, updates)
	if err != nil {
		RespondError(c, err)
		return
	}

	if res.quotaType != "" && willPublish != wasPublished {
		delta := 1
		if !willPublish {
			delta = -1
		}
		if err := h.repo.AdjustUsage(ctx, tc.RootUserID, res.quotaType.Column(), delta); err != nil {
			logrus.WithError(err).WithField("resource", res.path).Error("failed to adjust usage counter")
		}
	}

	c.JSON(http.StatusOK, dto.ContentDetailResponse{Item: updated})
}

func deleteContent[T any, PT contentPtr[T]](h *HTTPHandler, c *gin.Context, res contentResource[T, PT]) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deleted, err := res.store.Delete(ctx, id, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	if PT(deleted).Meta().Published && res.quotaType != "" {
		if err := h.repo.AdjustUsage(ctx, tc.RootUserID, res.quotaType.Column(), -1); err != nil {
			logrus.WithError(err).WithField("resource", res.path).Error("failed to adjust usage counter")
		}
	}

	// 媒体清理尽力而为，失败只记日志，不影响删除结果
	if res.mediaPaths != nil && h.storage != nil {
		for _, mediaPath := range res.mediaPaths(deleted) {
			if strings.TrimSpace(mediaPath) == "" {
				continue
			}
			if err := h.storage.Delete(ctx, mediaPath); err != nil {
				logrus.WithError(err).WithField("path", mediaPath).Warn("failed to delete media file")
			}
		}
	}

	c.Status(http.StatusNoContent)
}

func reorderContent[T any, PT contentPtr[T]](h *HTTPHandler, c *gin.Context, res contentResource[T, PT]) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if len(req.IDs) == 0 {
		MissingField(c, "ids")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := res.store.Reorder(ctx, tc.RootUserID, req.IDs); err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reordered": len(req.IDs)})
}

// checkQuota 在上架/新建已发布内容前校验订阅配额。
func (h *HTTPHandler) checkQuota(ctx context.Context, tc *tenant.Context, contentType quota.ContentType) error {
	root, err := h.repo.GetAccountByID(ctx, tc.RootUserID)
	if err != nil {
		return err
	}
	decision := quota.CanCreate(root.SubscriptionPlan, contentType, quota.Usage(root, contentType))
	if !decision.CanCreate {
		if h.metrics != nil {
			h.metrics.RecordQuotaDenial(string(contentType))
		}
		return &apperr.QuotaError{
			ContentType: string(contentType),
			Limit:       decision.Limit,
			Remaining:   decision.Remaining,
		}
	}
	return nil
}

// QuotaStatus 返回当前租户各内容类型的配额使用情况。
func (h *HTTPHandler) QuotaStatus(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	root, err := h.repo.GetAccountByID(ctx, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	types := []quota.ContentType{
		quota.TypePackages,
		quota.TypeDestinations,
		quota.TypeActivities,
		quota.TypeBlogs,
		quota.TypeTeamMembers,
		quota.TypeTestimonials,
	}

	statuses := make([]dto.QuotaStatus, 0, len(types))
	for _, contentType := range types {
		usage := quota.Usage(root, contentType)
		decision := quota.CanCreate(root.SubscriptionPlan, contentType, usage)
		statuses = append(statuses, dto.QuotaStatus{
			ContentType: string(contentType),
			Used:        usage,
			Remaining:   decision.Remaining,
			Limit:       decision.Limit,
			CanCreate:   decision.CanCreate,
		})
	}

	c.JSON(http.StatusOK, gin.H{"plan": root.SubscriptionPlan, "quotas": statuses})
}

func parseIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func normalisePaging(params *common.BaseParams) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}
}

// isDraftRequest 判断本次保存是否为草稿（?draft=true）。
func isDraftRequest(c *gin.Context) bool {
	value := strings.ToLower(strings.TrimSpace(c.Query("draft")))
	return value == "true" || value == "1"
}

// missingRequiredFields 收集记录中缺失的必填字段。
func missingRequiredFields[T any](record *T, required []requiredField[T]) map[string]string {
	var fields map[string]string
	for _, rf := range required {
		if strings.TrimSpace(rf.get(record)) == "" {
			if fields == nil {
				fields = make(map[string]string)
			}
			fields[rf.column] = "is required"
		}
	}
	return fields
}

// fillDraftPlaceholders 为草稿中空置的必填列补占位值。
func fillDraftPlaceholders[T any](record *T, required []requiredField[T]) {
	for _, rf := range required {
		if rf.placeholder == "" || strings.TrimSpace(rf.get(record)) != "" {
			continue
		}
		rf.set(record, draftPlaceholder(rf.placeholder))
	}
}

// blankedRequiredFields 找出更新中被清空的必填列。
func blankedRequiredFields[T any](updates map[string]interface{}, required []requiredField[T]) map[string]string {
	var fields map[string]string
	for _, rf := range required {
		raw, ok := updates[rf.column]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok || strings.TrimSpace(value) != "" {
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[rf.column] = "is required"
	}
	return fields
}

// applyDraftUpdates 草稿更新：强制下架，并为更新后仍为空的必填列
// 补占位值，让不完整的文档也能落库。
func applyDraftUpdates[T any](existing *T, updates map[string]interface{}, required []requiredField[T]) {
	updates["published"] = false
	for _, rf := range required {
		merged := rf.get(existing)
		if raw, ok := updates[rf.column]; ok {
			if value, ok := raw.(string); ok {
				merged = value
			}
		}
		if strings.TrimSpace(merged) == "" && rf.placeholder != "" {
			updates[rf.column] = draftPlaceholder(rf.placeholder)
		}
	}
}

// draftPlaceholder 给占位名加短随机后缀，避开租户内名称唯一约束。
func draftPlaceholder(base string) string {
	return base + " " + uuid.NewString()[:8]
}

// slugify 从展示名称生成 URL slug。
func slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	builder := strings.Builder{}
	builder.Grow(len(value))
	lastDash := true
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
			lastDash = false
		default:
			if !lastDash {
				builder.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(builder.String(), "-")
}
