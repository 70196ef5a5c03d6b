package models

import (
	"time"
)

// Brand is a product manufacturer. Brands are never hard-deleted.
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BrandName string    `gorm:"uniqueIndex;not null" json:"brand_name"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
