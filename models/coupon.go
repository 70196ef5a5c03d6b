package models

import (
	"time"
)

// Coupon is a single-use percentage discount minted from loyalty points
type Coupon struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Code      string     `gorm:"uniqueIndex;not null" json:"code"`
	Discount  int        `gorm:"not null" json:"discount"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	IsUsed    bool       `gorm:"default:false" json:"is_used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	OrderID   *uint      `json:"order_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
