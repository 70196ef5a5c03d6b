package controllers

import (
	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
)

// loadOrderForCaller fetches the order in path parameter "id" and checks that the caller
// owns it or holds perm. It writes the error response itself.
func loadOrderForCaller(c *gin.Context, principal models.Principal, perm models.Permission) (*models.Order, bool) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	order, err := utils.FindOrder(config.DB, orderID)
	if err != nil {
		utils.LogError("Order %d not found: %v", orderID, err)
		utils.RespondError(c, err)
		return nil, false
	}
	if !principal.Owns(order.UserID) && !principal.Role.Can(perm) {
		utils.LogError("User %d is not allowed to access order %d", principal.ID, orderID)
		utils.RespondError(c, utils.ErrForbidden.Withf("You are not authorized to access this order"))
		return nil, false
	}
	return order, true
}

// GetOrder returns one order to its owner or to staff
func GetOrder(c *gin.Context) {
	utils.LogInfo("GetOrder called")
	_, principal, ok := authUser(c)
	if !ok {
		return
	}

	order, ok := loadOrderForCaller(c, principal, models.PermViewAnyOrder)
	if !ok {
		return
	}

	utils.LogInfo("Order %d retrieved by user %d", order.ID, principal.ID)
	utils.Success(c, "Order retrieved successfully", gin.H{"order": order})
}

// ListMyOrders lists the caller's orders, newest first
func ListMyOrders(c *gin.Context) {
	utils.LogInfo("ListMyOrders called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID)
	if status := models.OrderStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			utils.RespondError(c, utils.ErrInvalidInput.Withf("Invalid order status %q", status))
			return
		}
		query = query.Where("order_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user %d: %v", user.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to count orders", err))
		return
	}

	orders := []models.Order{}
	if err := query.Preload("OrderItems").
		Order("created_at DESC, id DESC").
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user %d: %v", user.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to fetch orders", err))
		return
	}

	utils.LogInfo("Retrieved %d of %d orders for user %d", len(orders), total, user.ID)
	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": orders}, total, pagination.Page, pagination.Limit)
}
