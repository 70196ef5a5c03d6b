package controllers

import (
	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest holds the editable profile fields. Omitted fields are left as they are.
type UpdateProfileRequest struct {
	Name     *string          `json:"name"`
	SkinType *models.SkinType `json:"skin_type"`
	Address  *models.Address  `json:"address"`
}

// GetProfile returns the caller's profile
func GetProfile(c *gin.Context) {
	utils.LogInfo("GetProfile called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}
	utils.LogInfo("Profile retrieved for user %d", user.ID)
	utils.Success(c, "Profile retrieved successfully", gin.H{"user": user})
}

// UpdateProfile changes the caller's name, skin type or saved address
func UpdateProfile(c *gin.Context) {
	utils.LogInfo("UpdateProfile called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid profile update from user %d: %v", user.ID, err)
		utils.RespondError(c, bindError(err))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if valid, msg := utils.ValidateName(*req.Name); !valid {
			utils.RespondError(c, utils.BadRequestError(msg, nil))
			return
		}
		user.Name = utils.SanitizeString(*req.Name)
		updates["name"] = user.Name
	}
	if req.SkinType != nil {
		if !req.SkinType.Valid() {
			utils.RespondError(c, utils.BadRequestError("Invalid skin type", nil))
			return
		}
		user.SkinType = *req.SkinType
		updates["skin_type"] = user.SkinType
	}
	if req.Address != nil {
		if errs := utils.ValidateShippingAddress(*req.Address); len(errs) > 0 {
			utils.LogError("Invalid address from user %d: %v", user.ID, errs)
			utils.RespondError(c, utils.BadRequestError("Invalid address: "+errs.Error(), errs))
			return
		}
		user.Address = *req.Address
		updates["address_full_name"] = user.Address.FullName
		updates["address_street"] = user.Address.Street
		updates["address_city"] = user.Address.City
		updates["address_district"] = user.Address.District
		updates["address_phone"] = user.Address.Phone
	}
	if len(updates) == 0 {
		utils.RespondError(c, utils.BadRequestError("Nothing to update", nil))
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update profile of user %d: %v", user.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to update profile", err))
		return
	}

	utils.LogInfo("Profile updated for user %d", user.ID)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"user": user})
}

// GetPointsHistory returns the caller's point balance and journal, newest first
func GetPointsHistory(c *gin.Context) {
	utils.LogInfo("GetPointsHistory called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.PointTransaction{}).Where("user_id = ?", user.ID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, utils.InternalError("Failed to count point transactions", err))
		return
	}
	transactions := []models.PointTransaction{}
	if err := query.Order("created_at DESC, id DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch point transactions for user %d: %v", user.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to fetch point transactions", err))
		return
	}
	balance, err := utils.PointsBalance(config.DB, user.ID)
	if err != nil {
		utils.RespondError(c, utils.InternalError("Failed to read points balance", err))
		return
	}

	utils.SuccessWithPagination(c, "Points retrieved successfully", gin.H{
		"points":       balance,
		"transactions": transactions,
	}, total, pagination.Page, pagination.Limit)
}
