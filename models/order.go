package models

import (
	"time"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

// Order status constants
const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every order status
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is a member of the order status enum
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// orderTransitions lists the targets that are only reachable from a restricted set
// of sources, or never reachable from a given source. Pairs not listed are allowed.
var orderTransitions = map[OrderStatus]struct {
	onlyFrom []OrderStatus
	notFrom  []OrderStatus
}{
	OrderStatusDelivered: {onlyFrom: []OrderStatus{OrderStatusShipped}},
	OrderStatusCancelled: {notFrom: []OrderStatus{OrderStatusShipped}},
}

// CanTransitionTo reports whether an administrator may move an order from s to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	rule, ok := orderTransitions[next]
	if !ok {
		return true
	}
	if len(rule.onlyFrom) > 0 && !containsStatus(rule.onlyFrom, s) {
		return false
	}
	return !containsStatus(rule.notFrom, s)
}

// DeliveryStatus returns the delivery status an existing delivery record follows when
// the order enters s. The boolean is false when the delivery record is left untouched.
func (s OrderStatus) DeliveryStatus() (DeliveryStatus, bool) {
	switch s {
	case OrderStatusPending:
		return DeliveryStatusPending, true
	case OrderStatusShipped:
		return DeliveryStatusShipped, true
	case OrderStatusDelivered:
		return DeliveryStatusDelivered, true
	case OrderStatusCancelled:
		return DeliveryStatusCancelled, true
	}
	return "", false
}

func containsStatus(list []OrderStatus, s OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"index;not null" json:"user_id"`
	User            *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	OrderItems      []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	Subtotal        int64         `json:"subtotal"`
	CouponCode      string        `json:"coupon_code,omitempty"`
	CouponDiscount  int64         `json:"coupon_discount"`
	TotalAmount     int64         `gorm:"not null" json:"total_amount"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(16);not null" json:"payment_method"`
	IsPaid          bool          `gorm:"default:false" json:"is_paid"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(16);default:Pending" json:"payment_status"`
	PaymentIntentID string        `gorm:"index" json:"payment_intent_id,omitempty"`
	PaymentResult   PaymentResult `gorm:"embedded;embeddedPrefix:payment_result_" json:"payment_result"`
	OrderStatus     OrderStatus   `gorm:"type:varchar(16);default:Pending;index" json:"order_status"`
	IsRefunded      bool          `gorm:"default:false" json:"is_refunded"`
	RefundedAt      *time.Time    `json:"refunded_at,omitempty"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	DeliveredAt     *time.Time    `json:"delivered_at,omitempty"`
	PointsAwarded   bool          `gorm:"default:false" json:"points_awarded"`
	Version         int           `gorm:"not null;default:1" json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"index" json:"order_id"`
	ProductID uint     `json:"product_id"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Price     int64    `json:"price"`
	Total     int64    `json:"total"`
}

// IsOwnedBy reports whether userID placed the order
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
