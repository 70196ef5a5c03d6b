package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistedToken is an access or refresh token revoked by logout before it expired
type BlacklistedToken struct {
	gorm.Model
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
