package controllers

import (
	"fmt"
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
)

// UpdateUserRoleRequest assigns a new role to an account
type UpdateUserRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// AdminListUsers handles user listing with search and pagination
func AdminListUsers(c *gin.Context) {
	utils.LogInfo("AdminListUsers called")
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.User{})
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		term := utils.ContainsPattern(search)
		utils.LogDebug("Applying user search with term: %s", search)
		query = query.Where(`LOWER(email) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\'`, term, term)
	}
	if role := models.Role(c.Query("role")); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to count users", err))
		return
	}

	users := []models.User{}
	if err := query.Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to fetch users", err))
		return
	}

	utils.LogInfo("Found %d of %d users", len(users), total)
	utils.SuccessWithPagination(c, "Users retrieved successfully", gin.H{"users": users}, total, pagination.Page, pagination.Limit)
}

// ToggleUserBan bans or unbans a user
func ToggleUserBan(c *gin.Context) {
	utils.LogInfo("ToggleUserBan called")
	_, principal, ok := authUser(c)
	if !ok {
		return
	}
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if userID == principal.ID {
		utils.RespondError(c, utils.BadRequestError("You cannot ban yourself", nil))
		return
	}

	user, err := utils.GetUserByID(userID)
	if err != nil {
		utils.LogError("User %d not found: %v", userID, err)
		utils.RespondError(c, err)
		return
	}

	banned := !user.IsBanned
	action := "banned"
	if !banned {
		action = "unbanned"
	}
	if err := config.DB.Model(user).Update("is_banned", banned).Error; err != nil {
		utils.LogError("Failed to update ban status of user %d: %v", userID, err)
		utils.RespondError(c, utils.InternalError("Failed to update user ban status", err))
		return
	}
	user.IsBanned = banned

	utils.LogInfo("User %s successfully: %s", action, user.Email)
	utils.Success(c, fmt.Sprintf("User %s successfully", action), gin.H{"user": user})
}

// UpdateUserRole changes the role of an account
func UpdateUserRole(c *gin.Context) {
	utils.LogInfo("UpdateUserRole called")
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	if !req.Role.Valid() {
		utils.RespondError(c, utils.BadRequestError("Invalid role "+string(req.Role), nil))
		return
	}

	user, err := utils.GetUserByID(userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := config.DB.Model(user).Update("role", req.Role).Error; err != nil {
		utils.LogError("Failed to update role of user %d: %v", userID, err)
		utils.RespondError(c, utils.InternalError("Failed to update user role", err))
		return
	}
	user.Role = req.Role

	utils.LogInfo("User %d is now %s", user.ID, user.Role)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"user": user})
}

// CreateSampleAdmin creates the bootstrap administrator if it does not exist yet
func CreateSampleAdmin(cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		utils.LogInfo("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}
	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:       cfg.AdminName,
		Email:      cfg.AdminEmail,
		Password:   hash,
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	return config.DB.Where(models.User{Email: admin.Email}).FirstOrCreate(&admin).Error
}
