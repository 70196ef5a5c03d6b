package controllers

import (
	"fmt"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CancelOrder cancels a pending order, refunding a paid Stripe order first
func CancelOrder(c *gin.Context) {
	utils.LogInfo("CancelOrder called")
	_, principal, ok := authUser(c)
	if !ok {
		return
	}

	order, ok := loadOrderForCaller(c, principal, models.PermManageOrders)
	if !ok {
		return
	}
	if order.OrderStatus != models.OrderStatusPending {
		utils.LogError("Order %d cannot be cancelled in status %s", order.ID, order.OrderStatus)
		utils.RespondError(c, utils.ErrOrderNotCancellable.Withf("Order cannot be cancelled in status %s", order.OrderStatus))
		return
	}

	fields := map[string]interface{}{"order_status": models.OrderStatusCancelled}
	if order.IsPaid {
		switch order.PaymentMethod {
		case models.PaymentMethodStripe:
			// the refund goes first; a failure leaves the order as it was
			refund, err := stripeGateway.Refund(c.Request.Context(), paidIntentID(order), fmt.Sprintf("order-%d-refund", order.ID))
			if err != nil {
				utils.LogError("Refund failed for order %d: %v", order.ID, err)
				utils.RespondError(c, utils.ErrRefundFailed.With(err))
				return
			}
			refundedAt := now()
			fields["is_refunded"] = true
			fields["refunded_at"] = refundedAt
			fields["is_paid"] = false
			fields["payment_status"] = models.PaymentStatusFailed
			order.IsRefunded = true
			order.RefundedAt = &refundedAt
			utils.LogInfo("Refund %s issued for order %d", refund.ID, order.ID)
		case models.PaymentMethodVNPay:
			fields["is_paid"] = false
			fields["payment_status"] = models.PaymentStatusFailed
			utils.LogInfo("Order %d was paid via VNPay, refund must be reconciled manually", order.ID)
		}
	}

	var delivery *models.Delivery
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := utils.UpdateOrder(tx, order, fields); err != nil {
			return err
		}
		var err error
		delivery, err = utils.SyncDeliveryWithOrder(tx, order.ID, models.OrderStatusCancelled)
		return err
	})
	if err != nil {
		utils.LogError("Failed to cancel order %d: %v", order.ID, err)
		utils.RespondError(c, err)
		return
	}

	order.OrderStatus = models.OrderStatusCancelled
	if order.IsPaid {
		order.IsPaid = false
		order.PaymentStatus = models.PaymentStatusFailed
	}

	utils.LogInfo("Order %d cancelled by user %d", order.ID, principal.ID)
	utils.Success(c, "Order cancelled successfully", gin.H{
		"order":    order,
		"delivery": delivery,
	})
}

// paidIntentID is the intent recorded when payment was confirmed
func paidIntentID(order *models.Order) string {
	if order.PaymentResult.ID != "" {
		return order.PaymentResult.ID
	}
	return order.PaymentIntentID
}
