package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateDelivery opens the delivery record of an order, pricing it by district
func CreateDelivery(c *gin.Context) {
	utils.LogInfo("CreateDelivery called")
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}

	var delivery models.Delivery
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		order, err := utils.FindOrder(tx, orderID)
		if err != nil {
			return err
		}
		district := strings.TrimSpace(order.ShippingAddress.District)
		if district == "" {
			return utils.ErrMissingDestination
		}
		if _, err := utils.FindDelivery(tx, orderID); err == nil {
			return utils.ErrDeliveryExists
		} else if !errors.Is(err, utils.ErrDeliveryNotFound) {
			return err
		}

		delivery = models.Delivery{
			OrderID:               order.ID,
			ShippingFee:           utils.ShippingFee(district),
			DeliveryStatus:        models.DeliveryStatusPending,
			EstimatedDeliveryTime: utils.EstimatedDeliveryTime(now()),
		}
		if err := tx.Create(&delivery).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrDeliveryExists
			}
			return utils.InternalError("Failed to create delivery", err)
		}
		utils.LogDebug("Delivery fee for %q is %d", district, delivery.ShippingFee)
		return nil
	})
	if err != nil {
		utils.LogError("Failed to create delivery for order %d: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Delivery %d created for order %d", delivery.ID, orderID)
	utils.Created(c, "Delivery created successfully", gin.H{"delivery": delivery})
}

// GetDelivery returns the delivery of an order to its owner or to staff
func GetDelivery(c *gin.Context) {
	utils.LogInfo("GetDelivery called")
	_, principal, ok := authUser(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}

	order, err := utils.FindOrder(config.DB, orderID)
	if err != nil {
		utils.LogError("Order %d not found: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}
	if !principal.Owns(order.UserID) && !principal.Role.Can(models.PermViewAnyOrder) {
		utils.LogError("User %d is not allowed to view delivery of order %d", principal.ID, orderID)
		utils.RespondError(c, utils.ErrForbidden)
		return
	}

	delivery, err := utils.FindDelivery(config.DB, orderID)
	if err != nil {
		utils.LogError("Delivery for order %d not found: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Delivery retrieved successfully", gin.H{"delivery": delivery})
}

// UpdateDeliveryToShipping hands the parcel to the courier
func UpdateDeliveryToShipping(c *gin.Context) {
	utils.LogInfo("UpdateDeliveryToShipping called")
	order, delivery, ok := advanceShipment(c, models.DeliveryStatusShipping)
	if !ok {
		return
	}
	utils.LogInfo("Order %d is being shipped", order.ID)
	utils.Success(c, "Order is being shipped", gin.H{"order": order, "delivery": delivery})
}

// UpdateDeliveryToShipped marks the parcel shipped and notifies the customer
func UpdateDeliveryToShipped(c *gin.Context) {
	utils.LogInfo("UpdateDeliveryToShipped called")
	order, delivery, ok := advanceShipment(c, models.DeliveryStatusShipped)
	if !ok {
		return
	}

	owner, err := utils.GetUserByID(order.UserID)
	if err != nil {
		utils.LogError("Owner of order %d not found, skipping email: %v", order.ID, err)
	} else if err := utils.SendOrderShippedEmail(owner.Email, owner.Name, order.ID, delivery.ShippingFee); err != nil {
		utils.LogError("Failed to send shipped email for order %d: %v", order.ID, err)
	}

	utils.LogInfo("Order %d marked as shipped", order.ID)
	utils.Success(c, "Order marked as shipped", gin.H{"order": order, "delivery": delivery})
}

// advanceShipment moves the delivery to status and the order to Shipped in one transaction
func advanceShipment(c *gin.Context, status models.DeliveryStatus) (*models.Order, *models.Delivery, bool) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return nil, nil, false
	}

	var (
		order    *models.Order
		delivery *models.Delivery
	)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = utils.FindOrder(tx, orderID); err != nil {
			return err
		}
		if delivery, err = utils.SetDeliveryStatus(tx, orderID, status); err != nil {
			return err
		}
		if err := utils.UpdateOrder(tx, order, map[string]interface{}{"order_status": models.OrderStatusShipped}); err != nil {
			return err
		}
		order.OrderStatus = models.OrderStatusShipped
		return nil
	})
	if err != nil {
		utils.LogError("Failed to move delivery of order %d to %s: %v", orderID, status, err)
		utils.RespondError(c, err)
		return nil, nil, false
	}
	return order, delivery, true
}

// ConfirmOrderReceived lets the owner confirm arrival and collect loyalty points once
func ConfirmOrderReceived(c *gin.Context) {
	utils.LogInfo("ConfirmOrderReceived called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}

	var (
		delivery    *models.Delivery
		pointsAdded int64
		balance     int64
	)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		order, err := utils.FindOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !order.IsOwnedBy(user.ID) {
			return utils.ErrForbidden.Withf("You can only confirm your own orders")
		}
		if order.PointsAwarded {
			return utils.ErrAlreadyConfirmed
		}
		if order.OrderStatus == models.OrderStatusCancelled {
			return utils.ErrIllegalTransition.Withf("A cancelled order cannot be confirmed")
		}

		if delivery, err = utils.SetDeliveryStatus(tx, orderID, models.DeliveryStatusDelivered); err != nil {
			return err
		}

		fields := map[string]interface{}{
			"order_status":   models.OrderStatusDelivered,
			"points_awarded": true,
		}
		if order.DeliveredAt == nil {
			fields["delivered_at"] = now()
		}
		if err := utils.UpdateOrder(tx, order, fields); err != nil {
			return err
		}

		pointsAdded = utils.PointsForAmount(order.TotalAmount)
		balance, err = utils.CreditPoints(tx, user.ID, pointsAdded,
			fmt.Sprintf("Points for delivered order #%d", order.ID),
			&order.ID, fmt.Sprintf("order-%d-delivered", order.ID))
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrAlreadyConfirmed
		}
		return err
	})
	if err != nil {
		utils.LogError("Failed to confirm receipt of order %d by user %d: %v", orderID, user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %d confirmed by user %d, %d points added", orderID, user.ID, pointsAdded)
	utils.Success(c, "Order received successfully", gin.H{
		"points_added": pointsAdded,
		"total_points": balance,
		"delivery":     delivery,
	})
}
