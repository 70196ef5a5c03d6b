package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a shopper or a back-office account
type User struct {
	gorm.Model
	Name       string     `gorm:"not null" json:"name"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `json:"-"`
	Role       Role       `gorm:"type:varchar(16);default:user" json:"role"`
	IsVerified bool       `json:"is_verified" gorm:"default:false"`
	IsBanned   bool       `json:"is_banned" gorm:"default:false"`
	SkinType   SkinType   `gorm:"type:varchar(16)" json:"skin_type,omitempty"`
	Address    Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Points     int64      `gorm:"not null;default:0" json:"points"`
	LastLogin  *time.Time `json:"last_login,omitempty"`

	Coupons []Coupon `json:"coupons,omitempty" gorm:"foreignKey:UserID"`
}

// SkinType is the shopper's declared skin profile
type SkinType string

const (
	SkinTypeOily        SkinType = "Oily"
	SkinTypeDry         SkinType = "Dry"
	SkinTypeCombination SkinType = "Combination"
	SkinTypeSensitive   SkinType = "Sensitive"
	SkinTypeNormal      SkinType = "Normal"
)

// Valid reports whether s is one of the known skin types. Empty is allowed.
func (s SkinType) Valid() bool {
	switch s {
	case "", SkinTypeOily, SkinTypeDry, SkinTypeCombination, SkinTypeSensitive, SkinTypeNormal:
		return true
	}
	return false
}
