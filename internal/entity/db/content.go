package db

import (
	"time"

	"tourbase/internal/entity/common"
)

// ContentMeta 是所有租户内容共有的列：租户归属、手工排序、发布状态
// 与用于公共路由的 slug。RootUserID 为 0 表示迁移前的孤儿文档。
type ContentMeta struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RootUserID  uint   `gorm:"column:root_user_id;index" json:"root_user_id"`
	CreatedByID uint   `gorm:"column:created_by_id" json:"created_by_id"`
	CompanyID   string `gorm:"column:company_id;type:varchar(64)" json:"company_id"`

	Slug      string `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	Position  int    `gorm:"column:position;not null;default:0" json:"position"`
	Published bool   `gorm:"column:published;not null;default:false" json:"published"`
}

// Meta 返回内容元数据，供泛型内容仓库读写公共列。
func (m *ContentMeta) Meta() *ContentMeta {
	return m
}

// Category 是套餐的分类（海岛游、徒步……）。名称在租户内唯一。
type Category struct {
	ContentMeta
	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	ImageURL    string `gorm:"column:image_url;type:text" json:"image_url"`
	ImagePath   string `gorm:"column:image_path;type:varchar(512)" json:"-"`
}

func (Category) TableName() string { return "categories" }

// UniqueName 返回租户内排重用的名称。
func (c *Category) UniqueName() string { return c.Name }

// Package 是可预订的旅游套餐。
type Package struct {
	ContentMeta
	Title       string             `gorm:"column:title;type:varchar(255);not null" json:"title"`
	CategoryID  uint               `gorm:"column:category_id;index" json:"category_id"`
	Summary     string             `gorm:"column:summary;type:text" json:"summary"`
	Description string             `gorm:"column:description;type:text" json:"description"`
	Location    string             `gorm:"column:location;type:varchar(255)" json:"location"`
	Days        int                `gorm:"column:days" json:"days"`
	Nights      int                `gorm:"column:nights" json:"nights"`
	Price       string             `gorm:"column:price;type:varchar(64)" json:"price"`
	ImageURL    string             `gorm:"column:image_url;type:text" json:"image_url"`
	ImagePath   string             `gorm:"column:image_path;type:varchar(512)" json:"-"`
	Gallery     common.StringArray `gorm:"column:gallery;type:json" json:"gallery"`
	Highlights  common.StringArray `gorm:"column:highlights;type:json" json:"highlights"`
	Itinerary   common.StringArray `gorm:"column:itinerary;type:json" json:"itinerary"`
}

func (Package) TableName() string { return "packages" }

// Destination 是展示用的目的地页面条目。
type Destination struct {
	ContentMeta
	Title       string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Country     string `gorm:"column:country;type:varchar(128)" json:"country"`
	Description string `gorm:"column:description;type:text" json:"description"`
	ImageURL    string `gorm:"column:image_url;type:text" json:"image_url"`
	ImagePath   string `gorm:"column:image_path;type:varchar(512)" json:"-"`
	Featured    bool   `gorm:"column:featured;not null;default:false" json:"featured"`
}

func (Destination) TableName() string { return "destinations" }

// Activity 是目的地下的活动条目。
type Activity struct {
	ContentMeta
	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	ImageURL    string `gorm:"column:image_url;type:text" json:"image_url"`
	ImagePath   string `gorm:"column:image_path;type:varchar(512)" json:"-"`
}

func (Activity) TableName() string { return "activities" }

// Blog 是站点文章。
type Blog struct {
	ContentMeta
	Title          string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	BlogCategoryID uint   `gorm:"column:blog_category_id;index" json:"blog_category_id"`
	Author         string `gorm:"column:author;type:varchar(255)" json:"author"`
	Excerpt        string `gorm:"column:excerpt;type:text" json:"excerpt"`
	Content        string `gorm:"column:content;type:text" json:"content"`
	CoverImageURL  string `gorm:"column:cover_image_url;type:text" json:"cover_image_url"`
	CoverImagePath string `gorm:"column:cover_image_path;type:varchar(512)" json:"-"`
}

func (Blog) TableName() string { return "blogs" }

// BlogCategory 是文章分类。名称在租户内唯一。
type BlogCategory struct {
	ContentMeta
	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (BlogCategory) TableName() string { return "blog_categories" }

// UniqueName 返回租户内排重用的名称。
func (c *BlogCategory) UniqueName() string { return c.Name }

// TeamMember 是团队成员条目。
type TeamMember struct {
	ContentMeta
	Name      string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	JobTitle  string `gorm:"column:job_title;type:varchar(255)" json:"job_title"`
	Bio       string `gorm:"column:bio;type:text" json:"bio"`
	Email     string `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone     string `gorm:"column:phone;type:varchar(64)" json:"phone"`
	PhotoURL  string `gorm:"column:photo_url;type:text" json:"photo_url"`
	PhotoPath string `gorm:"column:photo_path;type:varchar(512)" json:"-"`
}

func (TeamMember) TableName() string { return "team_members" }

// Testimonial 是客户评价。名称在租户内唯一。
type Testimonial struct {
	ContentMeta
	Name       string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Location   string `gorm:"column:location;type:varchar(255)" json:"location"`
	Quote      string `gorm:"column:quote;type:text" json:"quote"`
	Rating     int    `gorm:"column:rating;not null;default:5" json:"rating"`
	AvatarURL  string `gorm:"column:avatar_url;type:text" json:"avatar_url"`
	AvatarPath string `gorm:"column:avatar_path;type:varchar(512)" json:"-"`
}

func (Testimonial) TableName() string { return "testimonials" }

// UniqueName 返回租户内排重用的名称。
func (t *Testimonial) UniqueName() string { return t.Name }

// GalleryImage 是相册图片。
type GalleryImage struct {
	ContentMeta
	Title     string `gorm:"column:title;type:varchar(255)" json:"title"`
	AltText   string `gorm:"column:alt_text;type:varchar(255)" json:"alt_text"`
	ImageURL  string `gorm:"column:image_url;type:text" json:"image_url"`
	ImagePath string `gorm:"column:image_path;type:varchar(512)" json:"-"`
}

func (GalleryImage) TableName() string { return "gallery_images" }
