package routes

import (
	"github.com/Govind-619/SkinSphere/controllers"
	"github.com/Govind-619/SkinSphere/middleware"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes back-office catalog and account management
func initAdminRoutes(router *gin.RouterGroup, replay gin.HandlerFunc) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), replay)

	catalog := admin.Group("")
	catalog.Use(middleware.RequirePermission(models.PermManageCatalog))
	{
		catalog.GET("/brands", controllers.AdminListBrands)
		catalog.POST("/brands", controllers.CreateBrand)
		catalog.PUT("/brands/:id", controllers.UpdateBrand)
		catalog.DELETE("/brands/:id", controllers.DeleteBrand)
		catalog.PUT("/brands/:id/reactivate", controllers.ReactivateBrand)

		catalog.GET("/products", controllers.AdminListProducts)
		catalog.POST("/products", controllers.CreateProduct)
		catalog.PUT("/products/:id", controllers.UpdateProduct)
		catalog.DELETE("/products/:id", controllers.DeleteProduct)
		catalog.PUT("/products/:id/reactivate", controllers.ReactivateProduct)
	}

	users := admin.Group("/users")
	users.Use(middleware.RequirePermission(models.PermManageUsers))
	{
		users.GET("", controllers.AdminListUsers)
		users.PUT("/:id/ban", controllers.ToggleUserBan)
		users.PUT("/:id/role", controllers.UpdateUserRole)
	}
}
