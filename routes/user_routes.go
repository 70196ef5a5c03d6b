package routes

import (
	"github.com/Govind-619/SkinSphere/controllers"
	"github.com/Govind-619/SkinSphere/middleware"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/gin-gonic/gin"
)

// initAuthRoutes initializes registration, login and token routes
func initAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", controllers.RegisterUser)
		auth.GET("/verify-email", controllers.VerifyEmail)
		auth.POST("/login", controllers.LoginUser)
		auth.POST("/refresh", controllers.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), controllers.LogoutUser)
	}
}

// initCatalogRoutes initializes the public catalog
func initCatalogRoutes(router *gin.RouterGroup) {
	router.GET("/products", controllers.ListProducts)
	router.GET("/products/:id", controllers.GetProduct)
	router.GET("/brands", controllers.ListBrands)
	router.GET("/categories", controllers.ListCategories)
}

// initUserRoutes initializes order, delivery and coupon routes. Privileged routes
// sit next to their customer counterparts and are gated per route.
func initUserRoutes(router *gin.RouterGroup, replay gin.HandlerFunc) {
	orders := router.Group("/orders")
	orders.Use(middleware.AuthMiddleware(), replay)
	{
		orders.POST("", controllers.CreateOrder)
		orders.GET("", controllers.ListMyOrders)
		orders.POST("/apply-coupon", controllers.ApplyCoupon)
		orders.GET("/:id", controllers.GetOrder)
		orders.POST("/:id/pay", controllers.InitiatePayment)
		orders.PUT("/:id/pay", controllers.ConfirmPayment)
		orders.PUT("/:id/cancel", controllers.CancelOrder)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)

		orders.PUT("/:id/status", middleware.RequirePermission(models.PermManageOrders), controllers.UpdateOrderStatus)
		orders.GET("/admin/getAll", middleware.RequirePermission(models.PermManageOrders), controllers.AdminListOrders)
		orders.GET("/admin/analytics", middleware.RequirePermission(models.PermViewAnalytics), controllers.OrderAnalytics)
		orders.GET("/admin/analytics/export", middleware.RequirePermission(models.PermViewAnalytics), controllers.ExportOrderAnalytics)
	}

	deliveries := router.Group("/deliveries")
	deliveries.Use(middleware.AuthMiddleware(), replay)
	{
		deliveries.GET("/:orderId", controllers.GetDelivery)
		deliveries.PUT("/:orderId/confirm", controllers.ConfirmOrderReceived)

		manage := middleware.RequirePermission(models.PermManageDeliveries)
		deliveries.POST("/:orderId", manage, controllers.CreateDelivery)
		deliveries.PUT("/:orderId/shipping", manage, controllers.UpdateDeliveryToShipping)
		deliveries.PUT("/:orderId/mark-shipped", manage, controllers.UpdateDeliveryToShipped)
	}

	coupons := router.Group("/coupons")
	coupons.Use(middleware.AuthMiddleware(), replay)
	{
		coupons.POST("/redeem", controllers.RedeemCoupon)
		coupons.GET("", controllers.ListMyCoupons)
		coupons.GET("/user/:userId", middleware.RequirePermission(models.PermViewAnyCoupons), controllers.ListUserCoupons)
	}
}
