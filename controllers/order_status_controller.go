package controllers

import (
	"errors"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateOrderStatusRequest is the target status of an administrative transition
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order to a new status and keeps its delivery in step
func UpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("UpdateOrderStatus called")
	_, principal, ok := authUser(c)
	if !ok {
		return
	}

	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid status update request: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}
	if !req.Status.Valid() {
		utils.LogError("Unknown order status %q", req.Status)
		utils.RespondError(c, utils.ErrInvalidInput.Withf("Invalid order status %q", req.Status))
		return
	}

	var (
		order    *models.Order
		delivery *models.Delivery
	)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = utils.FindOrder(tx, orderID)
		if err != nil {
			return err
		}
		from := order.OrderStatus
		if !from.CanTransitionTo(req.Status) {
			return utils.ErrIllegalTransition.Withf("Cannot move order from %s to %s", from, req.Status)
		}

		fields := map[string]interface{}{"order_status": req.Status}
		if req.Status == models.OrderStatusDelivered {
			// a delivered order always has a delivered shipment
			if delivery, err = utils.SetDeliveryStatus(tx, order.ID, models.DeliveryStatusDelivered); err != nil {
				return err
			}
			deliveredAt := now()
			fields["delivered_at"] = deliveredAt
			order.DeliveredAt = &deliveredAt
		} else if delivery, err = utils.SyncDeliveryWithOrder(tx, order.ID, req.Status); err != nil {
			return err
		}

		if err := utils.UpdateOrder(tx, order, fields); err != nil {
			return err
		}
		order.OrderStatus = req.Status
		utils.LogDebug("Order %d moved from %s to %s by user %d", order.ID, from, req.Status, principal.ID)
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrIllegalTransition) || errors.Is(err, utils.ErrDeliveryNotFound) {
			utils.LogError("Rejected status change of order %d to %s: %v", orderID, req.Status, err)
		} else {
			utils.LogError("Failed to update status of order %d: %v", orderID, err)
		}
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %d status updated to %s", order.ID, order.OrderStatus)
	utils.Success(c, "Order status updated successfully", gin.H{
		"order":    order,
		"delivery": delivery,
	})
}
