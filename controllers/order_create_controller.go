package controllers

import (
	"math"
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderItemRequest is one requested line. Price is only read when catalog pricing is off.
type OrderItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1,max=10000"`
	Price     int64 `json:"price" binding:"min=0,max=1000000000000"`
}

// CreateOrderRequest is the checkout payload. Without a shipping address the
// profile address is used.
type CreateOrderRequest struct {
	Items           []OrderItemRequest   `json:"items" binding:"dive"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	ShippingAddress *models.Address      `json:"shipping_address"`
	CouponCode      string               `json:"coupon_code" binding:"omitempty,max=64"`
}

// ApplyCouponRequest asks what a coupon would take off a given total
type ApplyCouponRequest struct {
	CouponCode  string `json:"coupon_code" binding:"required,max=64"`
	TotalAmount int64  `json:"total_amount" binding:"min=0"`
}

// CreateOrder places an order, applying and consuming an optional coupon
func CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order request from user %d: %v", user.ID, err)
		utils.RespondError(c, bindError(err))
		return
	}
	if len(req.Items) == 0 {
		utils.LogError("Empty order from user %d", user.ID)
		utils.RespondError(c, utils.ErrInvalidInput.Withf("No item in the order"))
		return
	}
	if !req.PaymentMethod.Valid() {
		utils.LogError("Unsupported payment method %q from user %d", req.PaymentMethod, user.ID)
		utils.RespondError(c, utils.ErrInvalidInput.Withf("Unsupported payment method %q", req.PaymentMethod))
		return
	}

	address := user.Address
	if req.ShippingAddress != nil {
		address = *req.ShippingAddress
	} else if !address.IsComplete() {
		utils.LogError("User %d has no saved shipping address", user.ID)
		utils.RespondError(c, utils.ErrInvalidInput.Withf("Please add a shipping address to your profile or send one with the order"))
		return
	}
	if errs := utils.ValidateShippingAddress(address); len(errs) > 0 {
		utils.LogError("Incomplete shipping address for user %d: %v", user.ID, errs)
		utils.RespondError(c, utils.ErrInvalidInput.Withf("Invalid shipping address: %s", errs.Error()))
		return
	}
	utils.LogDebug("Creating %s order with %d items for user %d", req.PaymentMethod, len(req.Items), user.ID)

	order := models.Order{
		UserID:          user.ID,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusPending,
		ShippingAddress: address,
		Version:         1,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		items, subtotal, err := priceOrderItems(tx, req.Items)
		if err != nil {
			return err
		}
		order.OrderItems = items
		order.Subtotal = subtotal
		order.TotalAmount = subtotal

		var coupon *models.Coupon
		if code := strings.TrimSpace(req.CouponCode); code != "" {
			coupon, err = utils.FindRedeemableCoupon(tx, code, user.ID, now())
			if err != nil {
				return err
			}
			order.CouponCode = coupon.Code
			order.CouponDiscount, order.TotalAmount = utils.ApplyCouponDiscount(subtotal, coupon.Discount)
		}

		if err := tx.Create(&order).Error; err != nil {
			return utils.InternalError("Failed to create order", err)
		}
		if coupon != nil {
			if err := utils.ConsumeCoupon(tx, coupon.ID, order.ID, now()); err != nil {
				return err
			}
			utils.LogDebug("Coupon %s consumed by order %d", coupon.Code, order.ID)
		}
		return nil
	})
	if err != nil {
		utils.LogError("Failed to create order for user %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %d created for user %d, total %d", order.ID, user.ID, order.TotalAmount)
	utils.Created(c, "Order created successfully", gin.H{"order": order})
}

// priceOrderItems snapshots a unit price onto every line and returns the raw total
func priceOrderItems(tx *gorm.DB, reqItems []OrderItemRequest) ([]models.OrderItem, int64, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	var subtotal int64
	for _, ri := range reqItems {
		if ri.Quantity < 1 || ri.Quantity > utils.MaxItemQuantity {
			return nil, 0, utils.ErrInvalidInput.Withf("Quantity for product %d must be between 1 and %d", ri.ProductID, utils.MaxItemQuantity)
		}

		item := models.OrderItem{
			ProductID: ri.ProductID,
			Quantity:  ri.Quantity,
		}
		if config.App.CatalogPricing {
			product, err := utils.GetActiveProduct(tx, ri.ProductID)
			if err != nil {
				return nil, 0, err
			}
			item.Name = product.Name
			item.Price = product.Price
		} else {
			if ri.Price < 0 || ri.Price > utils.MaxUnitPrice {
				return nil, 0, utils.ErrInvalidInput.Withf("Price for product %d must be between 0 and %d", ri.ProductID, utils.MaxUnitPrice)
			}
			item.Price = ri.Price
			if product, err := utils.GetActiveProduct(tx, ri.ProductID); err == nil {
				item.Name = product.Name
			}
		}
		qty := int64(item.Quantity)
		if item.Price > math.MaxInt64/qty {
			return nil, 0, utils.ErrInvalidInput.Withf("Line total for product %d is too large", ri.ProductID)
		}
		item.Total = item.Price * qty
		if subtotal > math.MaxInt64-item.Total {
			return nil, 0, utils.ErrInvalidInput.Withf("Order total is too large")
		}
		subtotal += item.Total
		items = append(items, item)
	}
	return items, subtotal, nil
}

// ApplyCoupon reports the discount a coupon would give without consuming it
func ApplyCoupon(c *gin.Context) {
	utils.LogInfo("ApplyCoupon called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid apply coupon request: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}

	coupon, err := utils.FindRedeemableCoupon(config.DB, req.CouponCode, user.ID, now())
	if err != nil {
		utils.LogError("Coupon %s rejected for user %d: %v", req.CouponCode, user.ID, err)
		utils.RespondError(c, err)
		return
	}

	discountAmount, discountedTotal := utils.ApplyCouponDiscount(req.TotalAmount, coupon.Discount)
	utils.LogInfo("Coupon %s valid for user %d: -%d", coupon.Code, user.ID, discountAmount)
	utils.Success(c, "Coupon applied successfully", gin.H{
		"coupon_code":      coupon.Code,
		"discount":         coupon.Discount,
		"discount_amount":  discountAmount,
		"discounted_total": discountedTotal,
	})
}
