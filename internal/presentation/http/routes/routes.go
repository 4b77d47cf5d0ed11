package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartbill/smartbill-api/internal/config"
	"github.com/smartbill/smartbill-api/internal/presentation/http/handler"
	"github.com/smartbill/smartbill-api/internal/presentation/http/middleware"
	"github.com/smartbill/smartbill-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Billing   *handler.BillingHandler
	Customer  *handler.CustomerHandler
	Reports   *handler.ReportsHandler
	Dashboard *handler.DashboardHandler
	Assistant *handler.AssistantHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.Me)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Stats)

	// Products
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	// Bills
	bills := protected.Group("/bills")
	{
		bills.GET("", h.Billing.List)
		bills.POST("", h.Billing.Create)
		bills.GET("/:id", h.Billing.Get)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/metrics", h.Customer.Metrics)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/bills", h.Customer.Bills)
		customers.POST("/:id/reconcile", h.Customer.Reconcile)
	}

	// Admin maintenance operations
	admin := protected.Group("/admin/customers")
	{
		admin.POST("/bootstrap", h.Customer.Bootstrap)
		admin.POST("/rebuild", h.Customer.Rebuild)
	}

	// Reports
	reports := protected.Group("/reports")
	{
		reports.GET("/sales", h.Reports.Sales)
		reports.GET("/daily", h.Reports.Daily)
		reports.GET("/monthly", h.Reports.Monthly)
		reports.GET("/top-products", h.Reports.TopProducts)
	}

	// Assistant
	assistant := protected.Group("/assistant")
	{
		assistant.POST("/chat", h.Assistant.Chat)
		assistant.GET("/tips", h.Assistant.Tip)
		assistant.GET("/predict", h.Assistant.Predict)
	}
}
