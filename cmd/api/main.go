package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/smartbill/smartbill-api/internal/application/service"
	"github.com/smartbill/smartbill-api/internal/config"
	"github.com/smartbill/smartbill-api/internal/infrastructure/cache"
	"github.com/smartbill/smartbill-api/internal/infrastructure/database"
	"github.com/smartbill/smartbill-api/internal/infrastructure/repository"
	"github.com/smartbill/smartbill-api/internal/presentation/http/handler"
	"github.com/smartbill/smartbill-api/internal/presentation/http/routes"
	"github.com/smartbill/smartbill-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize report cache. Redis is optional, reports fall back to
	// recomputing on every request.
	var reportCache cache.Cache = cache.NoopCache{}
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Printf("Warning: Redis unreachable, report caching disabled: %v", err)
		} else {
			reportCache = redisCache
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	billRepo := repository.NewBillRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo, cfg.Billing.DefaultTaxRate, cfg.Billing.LowStockThreshold)
	billingService := service.NewBillingService(billRepo, productRepo, customerRepo)
	customerService := service.NewCustomerService(customerRepo, billRepo)
	reportsService := service.NewReportsService(analyticsRepo, reportCache, cfg.Redis.CacheTTL)
	dashboardService := service.NewDashboardService(analyticsRepo, productRepo, customerRepo, cfg.Billing.LowStockThreshold)
	assistantService := service.NewAssistantService(analyticsRepo, productRepo, cfg.Billing.LowStockThreshold)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Billing:   handler.NewBillingHandler(billingService),
		Customer:  handler.NewCustomerHandler(customerService),
		Reports:   handler.NewReportsHandler(reportsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Assistant: handler.NewAssistantHandler(assistantService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
