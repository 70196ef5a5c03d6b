package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"gorm.io/gorm"
)

// ShippingFee looks the district up in the configured fee table
func ShippingFee(district string) int64 {
	return config.App.DeliveryFees.Fee(district)
}

// EstimatedDeliveryTime is the promised arrival for a parcel handed over at now
func EstimatedDeliveryTime(now time.Time) time.Time {
	return now.Add(DeliveryLeadTime)
}

// FindDelivery returns the delivery record of an order
func FindDelivery(tx *gorm.DB, orderID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := tx.Where("order_id = ?", orderID).First(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to load delivery: %w", err)
	}
	return &delivery, nil
}

// SetDeliveryStatus moves the order's delivery to status. Any status may follow any other.
func SetDeliveryStatus(tx *gorm.DB, orderID uint, status models.DeliveryStatus) (*models.Delivery, error) {
	if !status.Valid() {
		return nil, BadRequestError(fmt.Sprintf("Invalid delivery status %q", status), nil)
	}
	delivery, err := FindDelivery(tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(delivery).Update("delivery_status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update delivery status: %w", err)
	}
	delivery.DeliveryStatus = status
	LogDebug("Delivery for order %d moved to %s", orderID, status)
	return delivery, nil
}

// SyncDeliveryWithOrder moves an existing delivery record along with the order's new status.
// Orders without a delivery record are left alone.
func SyncDeliveryWithOrder(tx *gorm.DB, orderID uint, status models.OrderStatus) (*models.Delivery, error) {
	target, ok := status.DeliveryStatus()
	if !ok {
		return nil, nil
	}
	delivery, err := SetDeliveryStatus(tx, orderID, target)
	if errors.Is(err, ErrDeliveryNotFound) {
		return nil, nil
	}
	return delivery, err
}
