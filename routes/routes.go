package routes

import (
	"github.com/Govind-619/SkinSphere/idempotency"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
)

// Options carries the collaborators the router needs beyond the global config
type Options struct {
	// IdempotencyStore backs Idempotency-Key replay. Nil disables it.
	IdempotencyStore idempotency.Store
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	var replay gin.HandlerFunc
	if opts.IdempotencyStore != nil {
		replay = idempotency.Middleware(opts.IdempotencyStore, idempotency.WithLogger(utils.PrintfLogger{}))
	} else {
		replay = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api")
	{
		initAuthRoutes(api)
		initCatalogRoutes(api)
		initProfileRoutes(api, replay)
		initUserRoutes(api, replay)
		initAdminRoutes(api, replay)
	}

	return router
}
