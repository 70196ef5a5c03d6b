package models

import (
	"time"
)

type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Description string     `json:"description"`
	BrandID     uint       `gorm:"index;not null" json:"brand_id"`
	Brand       *Brand     `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Category    Category   `gorm:"type:varchar(32);index" json:"category"`
	Price       int64      `gorm:"not null" json:"price"`
	Stock       int        `gorm:"not null;default:0" json:"stock"`
	SkinTypes   []SkinType `gorm:"serializer:json" json:"skin_types"`
	Ingredients []string   `gorm:"serializer:json" json:"ingredients"`
	Images      []string   `gorm:"serializer:json" json:"images"`
	Rating      float64    `gorm:"default:0" json:"rating"`
	Reviews     int        `gorm:"default:0" json:"reviews"`
	IsFeatured  bool       `gorm:"default:false" json:"is_featured"`
	IsDeleted   bool       `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
