package model

import (
	"tourbase/internal/entity/db"

	"gorm.io/gorm"
)

// MigrateSchema 迁移数据库表结构
func MigrateSchema(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&db.Account{},
		&db.Category{},
		&db.Package{},
		&db.Destination{},
		&db.Activity{},
		&db.Blog{},
		&db.BlogCategory{},
		&db.TeamMember{},
		&db.Testimonial{},
		&db.GalleryImage{},
		&db.Booking{},
		&db.SiteSettings{},
	)
}
