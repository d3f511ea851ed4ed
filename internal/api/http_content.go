package api

import (
	"context"
	"net/http"
	"time"

	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"
	"tourbase/internal/quota"

	"github.com/gin-gonic/gin"
)

// registerContentRoutes 挂载全部租户内容的管理路由。
func (h *HTTPHandler) registerContentRoutes(rg *gin.RouterGroup) {
	registerResource(h, rg, contentResource[db.Category, *db.Category]{
		path:        "categories",
		store:       h.repo.Categories(),
		displayName: func(r *db.Category) string { return r.Name },
		mediaPaths:  func(r *db.Category) []string { return []string{r.ImagePath} },
		required: []requiredField[db.Category]{{
			column:      "name",
			placeholder: "Untitled category",
			get:         func(r *db.Category) string { return r.Name },
			set:         func(r *db.Category, v string) { r.Name = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.CategoryUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	registerResource(h, rg, contentResource[db.Package, *db.Package]{
		path:        "packages",
		store:       h.repo.Packages(),
		quotaType:   quota.TypePackages,
		displayName: func(r *db.Package) string { return r.Title },
		mediaPaths:  func(r *db.Package) []string { return []string{r.ImagePath} },
		required: []requiredField[db.Package]{{
			column:      "title",
			placeholder: "Untitled package",
			get:         func(r *db.Package) string { return r.Title },
			set:         func(r *db.Package, v string) { r.Title = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.PackageUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	// 套餐支持在分类内重排序
	rg.POST("/packages/reorder-category", h.ReorderPackagesInCategory)

	registerResource(h, rg, contentResource[db.Destination, *db.Destination]{
		path:        "destinations",
		store:       h.repo.Destinations(),
		quotaType:   quota.TypeDestinations,
		displayName: func(r *db.Destination) string { return r.Title },
		mediaPaths:  func(r *db.Destination) []string { return []string{r.ImagePath} },
		required: []requiredField[db.Destination]{{
			column:      "title",
			placeholder: "Untitled destination",
			get:         func(r *db.Destination) string { return r.Title },
			set:         func(r *db.Destination, v string) { r.Title = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.DestinationUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	registerResource(h, rg, contentResource[db.Activity, *db.Activity]{
		path:        "activities",
		store:       h.repo.Activities(),
		quotaType:   quota.TypeActivities,
		displayName: func(r *db.Activity) string { return r.Name },
		mediaPaths:  func(r *db.Activity) []string { return []string{r.ImagePath} },
		required: []requiredField[db.Activity]{{
			column:      "name",
			placeholder: "Untitled activity",
			get:         func(r *db.Activity) string { return r.Name },
			set:         func(r *db.Activity, v string) { r.Name = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.ActivityUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	registerResource(h, rg, contentResource[db.Blog, *db.Blog]{
		path:        "blogs",
		store:       h.repo.Blogs(),
		quotaType:   quota.TypeBlogs,
		displayName: func(r *db.Blog) string { return r.Title },
		mediaPaths:  func(r *db.Blog) []string { return []string{r.CoverImagePath} },
		required: []requiredField[db.Blog]{{
			column:      "title",
			placeholder: "Untitled post",
			get:         func(r *db.Blog) string { return r.Title },
			set:         func(r *db.Blog, v string) { r.Title = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.BlogUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	registerResource(h, rg, contentResource[db.BlogCategory, *db.BlogCategory]{
		path:        "blog-categories",
		store:       h.repo.BlogCategories(),
		displayName: func(r *db.BlogCategory) string { return r.Name },
		required: []requiredField[db.BlogCategory]{{
			column:      "name",
			placeholder: "Untitled category",
			get:         func(r *db.BlogCategory) string { return r.Name },
			set:         func(r *db.BlogCategory, v string) { r.Name = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.BlogCategoryUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	registerResource(h, rg, contentResource[db.TeamMember, *db.TeamMember]{
		path:        "team-members",
		store:       h.repo.TeamMembers(),
		quotaType:   quota.TypeTeamMembers,
		displayName: func(r *db.TeamMember) string { return r.Name },
		mediaPaths:  func(r *db.TeamMember) []string { return []string{r.PhotoPath} },
		required: []requiredField[db.TeamMember]{{
			column:      "name",
			placeholder: "New team member",
			get:         func(r *db.TeamMember) string { return r.Name },
			set:         func(r *db.TeamMember, v string) { r.Name = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.TeamMemberUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	registerResource(h, rg, contentResource[db.Testimonial, *db.Testimonial]{
		path:        "testimonials",
		store:       h.repo.Testimonials(),
		quotaType:   quota.TypeTestimonials,
		displayName: func(r *db.Testimonial) string { return r.Name },
		mediaPaths:  func(r *db.Testimonial) []string { return []string{r.AvatarPath} },
		required: []requiredField[db.Testimonial]{{
			column:      "name",
			placeholder: "Anonymous traveller",
			get:         func(r *db.Testimonial) string { return r.Name },
			set:         func(r *db.Testimonial, v string) { r.Name = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.TestimonialUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})

	registerResource(h, rg, contentResource[db.GalleryImage, *db.GalleryImage]{
		path:        "gallery",
		store:       h.repo.Gallery(),
		displayName: func(r *db.GalleryImage) string { return r.Title },
		mediaPaths:  func(r *db.GalleryImage) []string { return []string{r.ImagePath} },
		// 图片地址是相册条目的根本，草稿也不补占位值，允许先留空
		required: []requiredField[db.GalleryImage]{{
			column: "image_url",
			get:    func(r *db.GalleryImage) string { return r.ImageURL },
			set:    func(r *db.GalleryImage, v string) { r.ImageURL = v },
		}},
		bindUpdates: func(c *gin.Context) (map[string]interface{}, error) {
			var u db.GalleryImageUpdates
			if err := c.ShouldBindJSON(&u); err != nil {
				return nil, err
			}
			return u.ToMap(), nil
		},
	})
}

// ReorderPackagesInCategory 重排某分类下的套餐。位置是租户全局的，
// 分类过滤的列表会保留子序列的相对顺序。
func (h *HTTPHandler) ReorderPackagesInCategory(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req dto.PackageReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if len(req.PackageIDs) == 0 {
		MissingField(c, "package_ids")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// 分类必须属于当前租户
	if req.CategoryID != 0 {
		if _, err := h.repo.Categories().Get(ctx, req.CategoryID, tc.RootUserID); err != nil {
			RespondError(c, err)
			return
		}
	}

	if err := h.repo.Packages().Reorder(ctx, tc.RootUserID, req.PackageIDs); err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reordered": len(req.PackageIDs)})
}
