package models

import (
	"time"
)

// PaymentMethod is the gateway chosen at checkout. It never changes afterwards.
type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "Stripe"
	PaymentMethodVNPay  PaymentMethod = "VNPay"
)

// Valid reports whether m is a supported gateway
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodStripe || m == PaymentMethodVNPay
}

// PaymentStatus tracks the money side of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// PaymentResult is the gateway's receipt, written once when a payment is confirmed
type PaymentResult struct {
	ID           string     `json:"id,omitempty"`
	Status       string     `json:"status,omitempty"`
	UpdateTime   *time.Time `json:"update_time,omitempty"`
	EmailAddress string     `json:"email_address,omitempty"`
}
