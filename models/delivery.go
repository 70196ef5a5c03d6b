package models

import (
	"time"
)

// DeliveryStatus is the shipment state of a delivery record
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "Pending"
	DeliveryStatusShipping  DeliveryStatus = "Shipping"
	DeliveryStatusShipped   DeliveryStatus = "Shipped"
	DeliveryStatusDelivered DeliveryStatus = "Delivered"
	DeliveryStatusCancelled DeliveryStatus = "Cancelled"
)

// Valid reports whether s is a member of the delivery status enum
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusShipping, DeliveryStatusShipped, DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}

// Delivery is the shipment record of an order. There is at most one per order.
type Delivery struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	OrderID               uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	ShippingFee           int64          `gorm:"not null" json:"shipping_fee"`
	DeliveryStatus        DeliveryStatus `gorm:"type:varchar(16);default:Pending" json:"delivery_status"`
	EstimatedDeliveryTime time.Time      `json:"estimated_delivery_time"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}
