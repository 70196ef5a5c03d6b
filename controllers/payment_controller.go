package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/payments"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
)

// ConfirmPaymentRequest carries the gateway reference of a completed payment.
// Stripe orders send the payment intent id, VNPay orders the transaction id.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"omitempty,max=255"`
	TransactionID   string `json:"transaction_id" binding:"omitempty,max=255"`
	EmailAddress    string `json:"email_address" binding:"omitempty,max=255"`
}

// InitiatePayment creates a Stripe payment intent for an unpaid Stripe order
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")
	user, principal, ok := authUser(c)
	if !ok {
		return
	}

	order, ok := loadOrderForCaller(c, principal, models.PermManageOrders)
	if !ok {
		return
	}
	if order.IsPaid {
		utils.LogError("Order %d is already paid", order.ID)
		utils.RespondError(c, utils.ErrAlreadyPaid)
		return
	}
	if order.PaymentMethod != models.PaymentMethodStripe {
		utils.LogError("Order %d uses %s, not Stripe", order.ID, order.PaymentMethod)
		utils.RespondError(c, utils.ErrWrongGateway.Withf("Order %d is paid with %s", order.ID, order.PaymentMethod))
		return
	}

	intent, err := stripeGateway.CreatePaymentIntent(c.Request.Context(), payments.IntentRequest{
		OrderID:        order.ID,
		Amount:         order.TotalAmount,
		Currency:       config.App.StripeCurrency,
		ReceiptEmail:   user.Email,
		IdempotencyKey: fmt.Sprintf("order-%d-intent-v%d", order.ID, order.Version),
	})
	if err != nil {
		utils.LogError("Failed to create payment intent for order %d: %v", order.ID, err)
		utils.RespondError(c, utils.ErrGateway.With(err))
		return
	}

	if err := utils.UpdateOrder(config.DB, order, map[string]interface{}{"payment_intent_id": intent.ID}); err != nil {
		utils.LogError("Failed to store payment intent on order %d: %v", order.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Payment intent %s created for order %d", intent.ID, order.ID)
	utils.Success(c, "Payment intent created", gin.H{
		"client_secret":     intent.ClientSecret,
		"payment_intent_id": intent.ID,
		"amount":            intent.Amount,
		"currency":          intent.Currency,
	})
}

// ConfirmPayment marks an order paid after checking the gateway's receipt
func ConfirmPayment(c *gin.Context) {
	utils.LogInfo("ConfirmPayment called")
	_, principal, ok := authUser(c)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid confirm payment request: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}

	order, ok := loadOrderForCaller(c, principal, models.PermManageOrders)
	if !ok {
		return
	}
	if order.IsPaid {
		utils.LogError("Order %d is already paid", order.ID)
		utils.RespondError(c, utils.ErrAlreadyPaid)
		return
	}

	receipt, err := verifyPayment(c, order, req)
	if err != nil {
		utils.LogError("Payment for order %d not confirmed: %v", order.ID, err)
		utils.RespondError(c, err)
		return
	}

	paidAt := now()
	updateTime := receipt.UpdatedAt
	if updateTime.IsZero() {
		updateTime = paidAt
	}
	fields := map[string]interface{}{
		"is_paid":                      true,
		"paid_at":                      paidAt,
		"payment_status":               models.PaymentStatusPaid,
		"payment_result_id":            receipt.ID,
		"payment_result_status":        receipt.Status,
		"payment_result_update_time":   updateTime,
		"payment_result_email_address": receipt.EmailAddress,
	}
	if order.PaymentMethod == models.PaymentMethodStripe {
		// the settled intent, which may predate the latest initiate call
		fields["payment_intent_id"] = receipt.ID
		order.PaymentIntentID = receipt.ID
	}
	if err := utils.UpdateOrder(config.DB, order, fields); err != nil {
		utils.LogError("Failed to mark order %d paid: %v", order.ID, err)
		utils.RespondError(c, err)
		return
	}

	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentResult = models.PaymentResult{
		ID:           receipt.ID,
		Status:       receipt.Status,
		UpdateTime:   &updateTime,
		EmailAddress: receipt.EmailAddress,
	}

	utils.LogInfo("Order %d paid via %s (%s)", order.ID, order.PaymentMethod, receipt.ID)
	utils.Success(c, "Order paid successfully", gin.H{"order": order})
}

// verifyPayment asks the order's gateway for the receipt of the referenced payment
func verifyPayment(c *gin.Context, order *models.Order, req ConfirmPaymentRequest) (payments.Payment, error) {
	switch order.PaymentMethod {
	case models.PaymentMethodStripe:
		intentID := strings.TrimSpace(req.PaymentIntentID)
		if intentID == "" {
			intentID = order.PaymentIntentID
		}
		if intentID == "" {
			return payments.Payment{}, utils.ErrInvalidInput.Withf("payment_intent_id is required")
		}
		payment, err := stripeGateway.RetrievePaymentIntent(c.Request.Context(), intentID)
		if err != nil {
			return payments.Payment{}, utils.ErrGateway.With(err)
		}
		if !payment.Succeeded {
			return payments.Payment{}, utils.ErrPaymentNotConfirmed.Withf("Payment intent %s is %s", intentID, payment.Status)
		}
		if payment.OrderID != "" && payment.OrderID != strconv.FormatUint(uint64(order.ID), 10) {
			return payments.Payment{}, utils.ErrPaymentNotConfirmed.Withf("Payment intent %s belongs to another order", intentID)
		}
		if payment.EmailAddress == "" {
			payment.EmailAddress = req.EmailAddress
		}
		return payment, nil
	case models.PaymentMethodVNPay:
		receipt, err := payments.VNPayReceipt(req.TransactionID, req.EmailAddress, now())
		if err != nil {
			return payments.Payment{}, utils.ErrInvalidInput.Withf("transaction_id is required").With(err)
		}
		return receipt, nil
	}
	return payments.Payment{}, utils.ErrWrongGateway
}
