package db

import (
	"time"

	"tourbase/internal/entity/common"
)

// SiteSettings 是每个租户一份的站点配置。
type SiteSettings struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RootUserID uint `gorm:"column:root_user_id;uniqueIndex" json:"root_user_id"`

	SiteName       string `gorm:"column:site_name;type:varchar(255)" json:"site_name"`
	Tagline        string `gorm:"column:tagline;type:varchar(255)" json:"tagline"`
	LogoURL        string `gorm:"column:logo_url;type:text" json:"logo_url"`
	LogoPath       string `gorm:"column:logo_path;type:varchar(512)" json:"-"`
	ContactEmail   string `gorm:"column:contact_email;type:varchar(255)" json:"contact_email"`
	ContactPhone   string `gorm:"column:contact_phone;type:varchar(64)" json:"contact_phone"`
	WhatsAppNumber string `gorm:"column:whatsapp_number;type:varchar(64)" json:"whatsapp_number"`
	Address        string `gorm:"column:address;type:text" json:"address"`

	SocialLinks common.JSONMap `gorm:"column:social_links;type:json" json:"social_links"`

	MetaTitle       string `gorm:"column:meta_title;type:varchar(255)" json:"meta_title"`
	MetaDescription string `gorm:"column:meta_description;type:text" json:"meta_description"`
}

// TableName 指定表名。
func (SiteSettings) TableName() string {
	return "site_settings"
}
