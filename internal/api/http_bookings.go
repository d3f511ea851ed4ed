package api

import (
	"context"
	"net/http"
	"time"

	"tourbase/internal/entity/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListBookings 列出当前租户的预订。
func (h *HTTPHandler) ListBookings(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query dto.BookingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	normalisePaging(&query.BaseParams)
	query.RootUserID = tc.RootUserID

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	bookings, meta, err := h.repo.ListBookings(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list bookings")
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "meta": meta})
}

// GetBooking 返回单条预订详情。
func (h *HTTPHandler) GetBooking(c *gin.Context) {
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

	booking, err := h.repo.GetBooking(ctx, id, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// UpdateBookingStatus 变更预订状态。
func (h *HTTPHandler) UpdateBookingStatus(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateBookingStatus(ctx, id, tc.RootUserID, req.Status); err != nil {
		RespondError(c, err)
		return
	}

	booking, err := h.repo.GetBooking(ctx, id, tc.RootUserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// DeleteBooking 删除预订。
func (h *HTTPHandler) DeleteBooking(c *gin.Context) {
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

	if err := h.repo.DeleteBooking(ctx, id, tc.RootUserID); err != nil {
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
