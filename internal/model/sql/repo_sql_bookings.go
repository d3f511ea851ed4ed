package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourbase/internal/apperr"
	"tourbase/internal/entity/common"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"

	"gorm.io/gorm"
)

// CreateBooking persists a new booking request.
func (r *GormRepository) CreateBooking(ctx context.Context, booking *db.Booking) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if booking == nil {
		return fmt.Errorf("booking is nil")
	}
	if booking.RootUserID == 0 {
		return fmt.Errorf("booking has no tenant")
	}
	if booking.Status == "" {
		booking.Status = db.BookingStatusPending
	}
	return r.db.WithContext(ctx).Create(booking).Error
}

// ListBookings returns tenant-scoped bookings, newest first.
func (r *GormRepository) ListBookings(ctx context.Context, params *dto.BookingQuery) ([]db.Booking, *common.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil || params.RootUserID == 0 {
		return []db.Booking{}, calculatePagination(0, 1, 20), nil
	}

	query := r.db.WithContext(ctx).Model(&db.Booking{}).
		Where("root_user_id = ?", params.RootUserID)
	if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		kw := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(reference) LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params.Page > 0 {
		page = int(params.Page)
	}
	if params.PageSize > 0 {
		pageSize = int(params.PageSize)
	}

	var bookings []db.Booking
	if err := query.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&bookings).Error; err != nil {
		return nil, nil, err
	}

	return bookings, calculatePagination(total, page, pageSize), nil
}

// GetBooking loads a booking only when both id and tenant match.
func (r *GormRepository) GetBooking(ctx context.Context, id, rootUserID uint) (*db.Booking, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 || rootUserID == 0 {
		return nil, apperr.ErrNotFound
	}
	var booking db.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND root_user_id = ?", id, rootUserID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingStatus performs a tenant-scoped status transition.
func (r *GormRepository) UpdateBookingStatus(ctx context.Context, id, rootUserID uint, status string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 || rootUserID == 0 {
		return apperr.ErrNotFound
	}
	if !db.ValidBookingStatus(status) {
		return apperr.NewValidation("status", "invalid booking status")
	}

	result := r.db.WithContext(ctx).Model(&db.Booking{}).
		Where("id = ? AND root_user_id = ?", id, rootUserID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteBooking removes a tenant-owned booking.
func (r *GormRepository) DeleteBooking(ctx context.Context, id, rootUserID uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 || rootUserID == 0 {
		return apperr.ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND root_user_id = ?", id, rootUserID).
		Delete(&db.Booking{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
