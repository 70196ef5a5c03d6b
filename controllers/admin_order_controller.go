package controllers

import (
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListOrders lists every order with optional status filter and owner email search
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	pagination := utils.NewPagination(c)
	status := models.OrderStatus(strings.TrimSpace(c.Query("status")))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	utils.LogDebug("Admin order filters - Page: %d, Limit: %d, Status: %s, Search: %s", pagination.Page, pagination.Limit, status, search)

	query := config.DB.Model(&models.Order{})
	if status != "" {
		if !status.Valid() {
			utils.LogError("Invalid status filter %q", status)
			utils.RespondError(c, utils.ErrInvalidInput.Withf("Invalid order status %q", status))
			return
		}
		query = query.Where("order_status = ?", status)
	}
	if search != "" {
		owners := config.DB.Model(&models.User{}).Select("id").Where(`LOWER(email) LIKE ? ESCAPE '\'`, utils.ContainsPattern(search))
		query = query.Where("user_id IN (?)", owners)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to count orders", err))
		return
	}

	orders := []models.Order{}
	err := query.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	}).Preload("OrderItems").
		Order("created_at DESC, id DESC").
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&orders).Error
	if err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to fetch orders", err))
		return
	}

	utils.LogInfo("Admin retrieved %d of %d orders", len(orders), total)
	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": orders}, total, pagination.Page, pagination.Limit)
}
