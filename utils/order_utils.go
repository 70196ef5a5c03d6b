package utils

import (
	"errors"
	"fmt"

	"github.com/Govind-619/SkinSphere/models"
	"gorm.io/gorm"
)

// FindOrder loads an order with its line items
func FindOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// UpdateOrder writes fields to the order if nobody else changed it since it was read.
// On success the in-memory version is bumped so the order can be updated again.
func UpdateOrder(tx *gorm.DB, order *models.Order, fields map[string]interface{}) error {
	next := order.Version + 1
	fields["version"] = next

	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	order.Version = next
	return nil
}
