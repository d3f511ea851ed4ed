package dto

import (
	"tourbase/internal/entity/common"
)

// BookingQuery 预订列表查询参数。
type BookingQuery struct {
	common.BaseParams
	RootUserID uint   `json:"-" form:"-"`
	Status     string `json:"status" form:"status"`
	Keyword    string `json:"keyword" form:"keyword"`
}

// BookingCreateRequest 公共站点的预订提交。
type BookingCreateRequest struct {
	PackageID    *uint  `json:"package_id"`
	CustomerName string `json:"customer_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	TravelDate   string `json:"travel_date"`
	Guests       int    `json:"guests"`
	Message      string `json:"message"`
}

// BookingStatusRequest 预订状态变更。
type BookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
