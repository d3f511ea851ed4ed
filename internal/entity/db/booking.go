package db

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking 是客户提交的预订请求。与内容文档一样按 RootUserID 归属租户。
type Booking struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RootUserID uint   `gorm:"column:root_user_id;index" json:"root_user_id"`
	Reference  string `gorm:"column:reference;type:varchar(64);uniqueIndex" json:"reference"`

	PackageID *uint `gorm:"column:package_id;index" json:"package_id"`

	CustomerName string `gorm:"column:customer_name;type:varchar(255);not null" json:"customer_name"`
	Email        string `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Phone        string `gorm:"column:phone;type:varchar(64)" json:"phone"`
	TravelDate   string `gorm:"column:travel_date;type:varchar(32)" json:"travel_date"`
	Guests       int    `gorm:"column:guests;not null;default:1" json:"guests"`
	Message      string `gorm:"column:message;type:text" json:"message"`

	Status string `gorm:"column:status;type:varchar(32);index;not null;default:pending" json:"status"`
}

// TableName 指定表名。
func (Booking) TableName() string {
	return "bookings"
}

// ValidBookingStatus 检查状态值是否合法。
func ValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	default:
		return false
	}
}
