package db

import "tourbase/internal/entity/common"

// ContentMetaUpdates 所有内容类型共有的可更新列。
type ContentMetaUpdates struct {
	Slug      *string `json:"slug,omitempty"`
	Position  *int    `json:"position,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

func (u ContentMetaUpdates) apply(updates map[string]interface{}) {
	if u.Slug != nil {
		updates["slug"] = *u.Slug
	}
	if u.Position != nil {
		updates["position"] = *u.Position
	}
	if u.Published != nil {
		updates["published"] = *u.Published
	}
}

// CategoryUpdates 分类更新字段。
type CategoryUpdates struct {
	ContentMetaUpdates
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	ImagePath   *string `json:"image_path,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u CategoryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.ImagePath != nil {
		updates["image_path"] = *u.ImagePath
	}
	return updates
}

// PackageUpdates 套餐更新字段。
type PackageUpdates struct {
	ContentMetaUpdates
	Title       *string             `json:"title,omitempty"`
	CategoryID  *uint               `json:"category_id,omitempty"`
	Summary     *string             `json:"summary,omitempty"`
	Description *string             `json:"description,omitempty"`
	Location    *string             `json:"location,omitempty"`
	Days        *int                `json:"days,omitempty"`
	Nights      *int                `json:"nights,omitempty"`
	Price       *string             `json:"price,omitempty"`
	ImageURL    *string             `json:"image_url,omitempty"`
	ImagePath   *string             `json:"image_path,omitempty"`
	Gallery     *common.StringArray `json:"gallery,omitempty"`
	Highlights  *common.StringArray `json:"highlights,omitempty"`
	Itinerary   *common.StringArray `json:"itinerary,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u PackageUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.CategoryID != nil {
		updates["category_id"] = *u.CategoryID
	}
	if u.Summary != nil {
		updates["summary"] = *u.Summary
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Location != nil {
		updates["location"] = *u.Location
	}
	if u.Days != nil {
		updates["days"] = *u.Days
	}
	if u.Nights != nil {
		updates["nights"] = *u.Nights
	}
	if u.Price != nil {
		updates["price"] = *u.Price
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.ImagePath != nil {
		updates["image_path"] = *u.ImagePath
	}
	if u.Gallery != nil {
		updates["gallery"] = *u.Gallery
	}
	if u.Highlights != nil {
		updates["highlights"] = *u.Highlights
	}
	if u.Itinerary != nil {
		updates["itinerary"] = *u.Itinerary
	}
	return updates
}

// DestinationUpdates 目的地更新字段。
type DestinationUpdates struct {
	ContentMetaUpdates
	Title       *string `json:"title,omitempty"`
	Country     *string `json:"country,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	ImagePath   *string `json:"image_path,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u DestinationUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Country != nil {
		updates["country"] = *u.Country
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.ImagePath != nil {
		updates["image_path"] = *u.ImagePath
	}
	if u.Featured != nil {
		updates["featured"] = *u.Featured
	}
	return updates
}

// ActivityUpdates 活动更新字段。
type ActivityUpdates struct {
	ContentMetaUpdates
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	ImagePath   *string `json:"image_path,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ActivityUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.ImagePath != nil {
		updates["image_path"] = *u.ImagePath
	}
	return updates
}

// BlogUpdates 文章更新字段。
type BlogUpdates struct {
	ContentMetaUpdates
	Title          *string `json:"title,omitempty"`
	BlogCategoryID *uint   `json:"blog_category_id,omitempty"`
	Author         *string `json:"author,omitempty"`
	Excerpt        *string `json:"excerpt,omitempty"`
	Content        *string `json:"content,omitempty"`
	CoverImageURL  *string `json:"cover_image_url,omitempty"`
	CoverImagePath *string `json:"cover_image_path,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u BlogUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.BlogCategoryID != nil {
		updates["blog_category_id"] = *u.BlogCategoryID
	}
	if u.Author != nil {
		updates["author"] = *u.Author
	}
	if u.Excerpt != nil {
		updates["excerpt"] = *u.Excerpt
	}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.CoverImageURL != nil {
		updates["cover_image_url"] = *u.CoverImageURL
	}
	if u.CoverImagePath != nil {
		updates["cover_image_path"] = *u.CoverImagePath
	}
	return updates
}

// BlogCategoryUpdates 文章分类更新字段。
type BlogCategoryUpdates struct {
	ContentMetaUpdates
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u BlogCategoryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	return updates
}

// TeamMemberUpdates 团队成员更新字段。
type TeamMemberUpdates struct {
	ContentMetaUpdates
	Name      *string `json:"name,omitempty"`
	JobTitle  *string `json:"job_title,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	PhotoPath *string `json:"photo_path,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u TeamMemberUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.JobTitle != nil {
		updates["job_title"] = *u.JobTitle
	}
	if u.Bio != nil {
		updates["bio"] = *u.Bio
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.PhotoURL != nil {
		updates["photo_url"] = *u.PhotoURL
	}
	if u.PhotoPath != nil {
		updates["photo_path"] = *u.PhotoPath
	}
	return updates
}

// TestimonialUpdates 客户评价更新字段。
type TestimonialUpdates struct {
	ContentMetaUpdates
	Name       *string `json:"name,omitempty"`
	Location   *string `json:"location,omitempty"`
	Quote      *string `json:"quote,omitempty"`
	Rating     *int    `json:"rating,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	AvatarPath *string `json:"avatar_path,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u TestimonialUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Location != nil {
		updates["location"] = *u.Location
	}
	if u.Quote != nil {
		updates["quote"] = *u.Quote
	}
	if u.Rating != nil {
		updates["rating"] = *u.Rating
	}
	if u.AvatarURL != nil {
		updates["avatar_url"] = *u.AvatarURL
	}
	if u.AvatarPath != nil {
		updates["avatar_path"] = *u.AvatarPath
	}
	return updates
}

// GalleryImageUpdates 相册图片更新字段。
type GalleryImageUpdates struct {
	ContentMetaUpdates
	Title     *string `json:"title,omitempty"`
	AltText   *string `json:"alt_text,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
	ImagePath *string `json:"image_path,omitempty"`
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u GalleryImageUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	u.ContentMetaUpdates.apply(updates)
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.AltText != nil {
		updates["alt_text"] = *u.AltText
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.ImagePath != nil {
		updates["image_path"] = *u.ImagePath
	}
	return updates
}
