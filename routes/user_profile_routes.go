package routes

import (
	"github.com/Govind-619/SkinSphere/controllers"
	"github.com/Govind-619/SkinSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initProfileRoutes initializes the signed-in user's own account routes
func initProfileRoutes(router *gin.RouterGroup, replay gin.HandlerFunc) {
	profile := router.Group("/users")
	profile.Use(middleware.AuthMiddleware(), replay)
	{
		profile.GET("/profile", controllers.GetProfile)
		profile.PUT("/profile", controllers.UpdateProfile)
		profile.GET("/points", controllers.GetPointsHistory)
	}
}
