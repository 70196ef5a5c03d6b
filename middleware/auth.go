package middleware

import (
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware authenticates the bearer token and attaches the user and principal
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AuthMiddleware called")

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.LogError("Missing Authorization header")
			utils.RespondError(c, utils.ErrUnauthenticated)
			return
		}

		// Extract token from Bearer header
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			utils.LogError("Invalid Bearer token format")
			utils.RespondError(c, utils.ErrUnauthenticated)
			return
		}

		claims, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			utils.RespondError(c, utils.ErrUnauthenticated)
			return
		}

		var revoked int64
		if err := config.DB.Model(&models.BlacklistedToken{}).Where("token = ?", tokenString).Count(&revoked).Error; err != nil {
			utils.RespondError(c, utils.InternalError("Failed to check token", err))
			return
		}
		if revoked > 0 {
			utils.LogError("Revoked token presented for user %d", claims.UserID)
			utils.RespondError(c, utils.ErrUnauthenticated)
			return
		}

		utils.LogDebug("Authenticating user ID: %d", claims.UserID)
		var user models.User
		if err := config.DB.First(&user, claims.UserID).Error; err != nil {
			utils.LogError("User not found: %v", err)
			utils.RespondError(c, utils.UnauthorizedError("User not found", nil))
			return
		}

		if user.IsBanned {
			utils.LogError("Banned user attempted access: %d", user.ID)
			utils.RespondError(c, utils.ForbiddenError("Account is banned", nil))
			return
		}

		// the stored role wins over the one in the token
		role := user.Role
		if !role.Valid() {
			role = models.RoleUser
		}

		c.Set(utils.ContextUserKey, user)
		c.Set(utils.ContextPrincipalKey, models.Principal{ID: user.ID, Role: role})
		c.Set("token", tokenString)
		utils.LogInfo("User %d authenticated successfully", user.ID)
		c.Next()
	}
}

// RequirePermission lets the request through only if the principal's role holds p
func RequirePermission(p models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			utils.LogError("Principal not found in context")
			utils.RespondError(c, utils.ErrUnauthenticated)
			return
		}
		if !principal.Role.Can(p) {
			utils.LogError("User %d with role %s lacks permission %s", principal.ID, principal.Role, p)
			utils.RespondError(c, utils.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated caller set by AuthMiddleware
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, exists := c.Get(utils.ContextPrincipalKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// CurrentUser returns the authenticated user set by AuthMiddleware
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(utils.ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
