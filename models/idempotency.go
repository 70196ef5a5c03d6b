package models

import (
	"time"
)

// IdempotencyRecord stores the reservation and replayable response of an Idempotency-Key
type IdempotencyRecord struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Key             string    `json:"key"`
	Fingerprint     string    `gorm:"size:64" json:"fingerprint"`
	Status          string    `gorm:"size:16" json:"status"`
	ResponseStatus  int       `json:"response_status"`
	ResponseHeaders string    `json:"-"`
	ResponseBody    []byte    `json:"-"`
	ExpiresAt       time.Time `gorm:"index" json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
