package api

import (
	"movieshop/api/cart"
	"movieshop/api/health"
	"movieshop/api/middleware"
	"movieshop/api/order"
	"movieshop/api/payment"
	"movieshop/config"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	healthController  *health.Controller
	cartController    *cart.Controller
	orderController   *order.Controller
	paymentController *payment.Controller
}

// NewRouter Create route configuration
func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	cartController *cart.Controller,
	orderController *order.Controller,
	paymentController *payment.Controller,
) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. Rate limiting

	return &Router{
		engine:            engine,
		config:            cfg,
		healthController:  healthController,
		cartController:    cartController,
		orderController:   orderController,
		paymentController: paymentController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)

		// Everything commerce requires a caller identity.
		userGroup := apiGroup.Group("")
		userGroup.Use(middleware.UserIDMiddleware())
		{
			r.cartController.RegisterRoutes(userGroup)
			r.orderController.RegisterRoutes(userGroup)
			r.paymentController.RegisterRoutes(userGroup)
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.UserIDMiddleware())
		{
			r.orderController.RegisterAdminRoutes(adminGroup)
		}
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
