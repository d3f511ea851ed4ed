package sql

import (
	"tourbase/internal/entity/common"
	"tourbase/internal/entity/db"
	"tourbase/internal/model"

	"gorm.io/gorm"
)

// GormRepository implements model.Repository using GORM.
type GormRepository struct {
	db *gorm.DB

	categories     *contentStore[db.Category, *db.Category]
	packages       *contentStore[db.Package, *db.Package]
	destinations   *contentStore[db.Destination, *db.Destination]
	activities     *contentStore[db.Activity, *db.Activity]
	blogs          *contentStore[db.Blog, *db.Blog]
	blogCategories *contentStore[db.BlogCategory, *db.BlogCategory]
	teamMembers    *contentStore[db.TeamMember, *db.TeamMember]
	testimonials   *contentStore[db.Testimonial, *db.Testimonial]
	gallery        *contentStore[db.GalleryImage, *db.GalleryImage]
}

// NewGormRepository creates a new repository instance.
func NewGormRepository(gdb *gorm.DB) *GormRepository {
	return &GormRepository{
		db: gdb,
		categories: &contentStore[db.Category, *db.Category]{
			db: gdb, searchColumns: []string{"name"}, uniqueNameColumn: "name",
		},
		packages: &contentStore[db.Package, *db.Package]{
			db: gdb, searchColumns: []string{"title", "location"}, categoryColumn: "category_id",
		},
		destinations: &contentStore[db.Destination, *db.Destination]{
			db: gdb, searchColumns: []string{"title", "country"},
		},
		activities: &contentStore[db.Activity, *db.Activity]{
			db: gdb, searchColumns: []string{"name"},
		},
		blogs: &contentStore[db.Blog, *db.Blog]{
			db: gdb, searchColumns: []string{"title", "author"}, categoryColumn: "blog_category_id",
		},
		blogCategories: &contentStore[db.BlogCategory, *db.BlogCategory]{
			db: gdb, searchColumns: []string{"name"}, uniqueNameColumn: "name",
		},
		teamMembers: &contentStore[db.TeamMember, *db.TeamMember]{
			db: gdb, searchColumns: []string{"name", "job_title"},
		},
		testimonials: &contentStore[db.Testimonial, *db.Testimonial]{
			db: gdb, searchColumns: []string{"name", "location"}, uniqueNameColumn: "name",
		},
		gallery: &contentStore[db.GalleryImage, *db.GalleryImage]{
			db: gdb, searchColumns: []string{"title", "alt_text"},
		},
	}
}

func (r *GormRepository) Categories() model.ContentStore[db.Category] { return r.categories }
func (r *GormRepository) Packages() model.ContentStore[db.Package]    { return r.packages }
func (r *GormRepository) Destinations() model.ContentStore[db.Destination] {
	return r.destinations
}
func (r *GormRepository) Activities() model.ContentStore[db.Activity] { return r.activities }
func (r *GormRepository) Blogs() model.ContentStore[db.Blog]          { return r.blogs }
func (r *GormRepository) BlogCategories() model.ContentStore[db.BlogCategory] {
	return r.blogCategories
}
func (r *GormRepository) TeamMembers() model.ContentStore[db.TeamMember] { return r.teamMembers }
func (r *GormRepository) Testimonials() model.ContentStore[db.Testimonial] {
	return r.testimonials
}
func (r *GormRepository) Gallery() model.ContentStore[db.GalleryImage] { return r.gallery }

// calculatePagination calculates pagination metrics.
func calculatePagination(totalCount int64, page, pageSize int) *common.Meta {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	return &common.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

var _ model.Repository = (*GormRepository)(nil)
