package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name            string          `json:"name" binding:"required"`
	Email           string          `json:"email" binding:"required,email"`
	Password        string          `json:"password" binding:"required"`
	ConfirmPassword string          `json:"confirm_password" binding:"required"`
	SkinType        models.SkinType `json:"skin_type"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates an unverified account and emails the verification link
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	utils.LogInfo("Registration attempt for email: %s", email)

	if valid, msg := utils.ValidateName(req.Name); !valid {
		utils.LogError("Registration attempt failed - Invalid name: %s", msg)
		utils.RespondError(c, utils.BadRequestError(msg, nil))
		return
	}
	if valid, msg := utils.ValidateEmail(email); !valid {
		utils.LogError("Registration attempt failed - Invalid email: %s", email)
		utils.RespondError(c, utils.BadRequestError(msg, nil))
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.LogError("Registration attempt failed - Weak password for %s", email)
		utils.RespondError(c, utils.BadRequestError(msg, nil))
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.LogError("Registration attempt failed - Password mismatch for %s", email)
		utils.RespondError(c, utils.BadRequestError("Passwords do not match", nil))
		return
	}
	if !req.SkinType.Valid() {
		utils.RespondError(c, utils.BadRequestError("Invalid skin type", nil))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to process registration", err))
		return
	}

	user := models.User{
		Name:     utils.SanitizeString(req.Name),
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
		SkinType: req.SkinType,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.LogError("Registration attempt failed - Email already registered: %s", email)
			utils.RespondError(c, utils.ConflictError("Email already registered", err))
			return
		}
		utils.LogError("Failed to create user %s: %v", email, err)
		utils.RespondError(c, utils.InternalError("Failed to create user", err))
		return
	}

	token, err := utils.GenerateVerificationToken(&user)
	if err != nil {
		utils.LogError("Failed to generate verification token for %s: %v", email, err)
	} else if err := utils.SendVerificationEmail(user.Email, user.Name, token); err != nil {
		utils.LogError("Failed to send verification email to %s: %v", email, err)
	}

	utils.LogInfo("User registered successfully: %s", email)
	utils.Created(c, utils.MsgRegisterSuccess, gin.H{"user": user})
}

// VerifyEmail activates the account named by the emailed token
func VerifyEmail(c *gin.Context) {
	utils.LogInfo("VerifyEmail called")
	claims, err := utils.ValidateVerificationToken(c.Query("token"))
	if err != nil {
		utils.LogError("Invalid verification token: %v", err)
		utils.RespondError(c, utils.BadRequestError("Invalid or expired verification link", err))
		return
	}

	res := config.DB.Model(&models.User{}).Where("id = ?", claims.UserID).Update("is_verified", true)
	if res.Error != nil {
		utils.LogError("Failed to verify user %d: %v", claims.UserID, res.Error)
		utils.RespondError(c, utils.InternalError("Failed to verify email", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, utils.NotFoundError("User not found", nil))
		return
	}

	utils.LogInfo("Email verified for user %d", claims.UserID)
	utils.Success(c, "Email verified successfully", nil)
}

// LoginUser checks credentials, returns an access token and sets the refresh cookie
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}
	utils.LogInfo("Login attempt for email: %s", req.Email)

	user, err := utils.GetUserByEmail(req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login attempt failed - Invalid credentials for %s", req.Email)
		utils.RespondError(c, utils.UnauthorizedError("Invalid email or password", nil))
		return
	}
	if user.IsBanned {
		utils.LogError("Login attempt failed - Banned account: %s", req.Email)
		utils.RespondError(c, utils.ForbiddenError("Your account has been banned", nil))
		return
	}
	if !user.IsVerified {
		utils.LogError("Login attempt failed - Unverified account: %s", req.Email)
		utils.RespondError(c, utils.ForbiddenError("Please verify your email before logging in", nil))
		return
	}

	accessToken, err := utils.GenerateAccessToken(user)
	if err != nil {
		utils.LogError("Failed to generate access token for %s: %v", req.Email, err)
		utils.RespondError(c, utils.InternalError("Failed to generate token", err))
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user)
	if err != nil {
		utils.LogError("Failed to generate refresh token for %s: %v", req.Email, err)
		utils.RespondError(c, utils.InternalError("Failed to generate token", err))
		return
	}

	loginAt := now()
	if err := config.DB.Model(user).Update("last_login", loginAt).Error; err != nil {
		utils.LogError("Failed to update last login for %s: %v", req.Email, err)
	}
	user.LastLogin = &loginAt

	setRefreshCookie(c, refreshToken, int(utils.RefreshTokenTTL.Seconds()))
	utils.LogInfo("User logged in successfully: %s", user.Email)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": accessToken,
		"user":  user,
	})
}

// RefreshToken issues a new access token from the refresh cookie
func RefreshToken(c *gin.Context) {
	utils.LogInfo("RefreshToken called")
	raw, err := c.Cookie(utils.RefreshCookieName)
	if err != nil || raw == "" {
		utils.LogError("Refresh attempted without cookie")
		utils.RespondError(c, utils.ErrUnauthenticated)
		return
	}

	claims, err := utils.ValidateRefreshToken(raw)
	if err != nil {
		utils.LogError("Invalid refresh token: %v", err)
		utils.RespondError(c, utils.ErrUnauthenticated)
		return
	}
	var revoked int64
	if err := config.DB.Model(&models.BlacklistedToken{}).Where("token = ?", raw).Count(&revoked).Error; err != nil {
		utils.RespondError(c, utils.InternalError("Failed to check token", err))
		return
	}
	if revoked > 0 {
		utils.LogError("Revoked refresh token presented for user %d", claims.UserID)
		utils.RespondError(c, utils.ErrUnauthenticated)
		return
	}

	user, err := utils.GetUserByID(claims.UserID)
	if err != nil {
		utils.RespondError(c, utils.ErrUnauthenticated)
		return
	}
	if user.IsBanned {
		utils.RespondError(c, utils.ForbiddenError("Your account has been banned", nil))
		return
	}

	accessToken, err := utils.GenerateAccessToken(user)
	if err != nil {
		utils.LogError("Failed to generate access token for user %d: %v", user.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to generate token", err))
		return
	}
	utils.LogInfo("Access token refreshed for user %d", user.ID)
	utils.Success(c, "Token refreshed successfully", gin.H{"token": accessToken})
}

// LogoutUser revokes the access token and the refresh cookie
func LogoutUser(c *gin.Context) {
	utils.LogInfo("LogoutUser called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}

	var revoked []models.BlacklistedToken
	if access := c.GetString("token"); access != "" {
		if claims, err := utils.ValidateAccessToken(access); err == nil {
			revoked = append(revoked, models.BlacklistedToken{Token: access, ExpiresAt: claims.ExpiresAt})
		}
	}
	if refresh, err := c.Cookie(utils.RefreshCookieName); err == nil && refresh != "" {
		if claims, err := utils.ValidateRefreshToken(refresh); err == nil {
			revoked = append(revoked, models.BlacklistedToken{Token: refresh, ExpiresAt: claims.ExpiresAt})
		}
	}
	if len(revoked) > 0 {
		if err := config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&revoked).Error; err != nil {
			utils.LogError("Failed to revoke tokens for user %d: %v", user.ID, err)
			utils.RespondError(c, utils.InternalError("Failed to logout", err))
			return
		}
	}

	setRefreshCookie(c, "", -1)
	utils.LogInfo("User %d logged out", user.ID)
	utils.Success(c, utils.MsgLogoutSuccess, nil)
}

// PurgeExpiredTokens drops revoked tokens that would fail validation anyway
func PurgeExpiredTokens(at time.Time) (int64, error) {
	res := config.DB.Unscoped().Where("expires_at < ?", at).Delete(&models.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

func setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(utils.RefreshCookieName, value, maxAge, "/api/auth", "", config.App.Env == "production", true)
}
