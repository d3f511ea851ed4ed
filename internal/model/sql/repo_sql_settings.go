package sql

import (
	"context"
	"errors"
	"fmt"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/db"

	"gorm.io/gorm"
)

// GetSettings loads the per-tenant site settings.
func (r *GormRepository) GetSettings(ctx context.Context, rootUserID uint) (*db.SiteSettings, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if rootUserID == 0 {
		return nil, apperr.ErrNotFound
	}
	var settings db.SiteSettings
	err := r.db.WithContext(ctx).
		Where("root_user_id = ?", rootUserID).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// SaveSettings upserts the single settings row of a tenant.
func (r *GormRepository) SaveSettings(ctx context.Context, settings *db.SiteSettings) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if settings == nil {
		return fmt.Errorf("settings is nil")
	}
	if settings.RootUserID == 0 {
		return fmt.Errorf("settings has no tenant")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.SiteSettings
		err := tx.Where("root_user_id = ?", settings.RootUserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(settings).Error
		}
		if err != nil {
			return err
		}
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Updates(map[string]interface{}{
			"site_name":        settings.SiteName,
			"tagline":          settings.Tagline,
			"logo_url":         settings.LogoURL,
			"logo_path":        settings.LogoPath,
			"contact_email":    settings.ContactEmail,
			"contact_phone":    settings.ContactPhone,
			"whatsapp_number":  settings.WhatsAppNumber,
			"address":          settings.Address,
			"social_links":     settings.SocialLinks,
			"meta_title":       settings.MetaTitle,
			"meta_description": settings.MetaDescription,
		}).Error
	})
}
