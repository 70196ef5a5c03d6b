package models

import (
	"time"
)

// PointTransaction is one movement in a user's loyalty balance
type PointTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"` // credit, debit
	Description string    `json:"description"`
	OrderID     *uint     `json:"order_id,omitempty"`
	CouponID    *uint     `json:"coupon_id,omitempty"`
	Reference   string    `gorm:"uniqueIndex" json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionType constants
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)
