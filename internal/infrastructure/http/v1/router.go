// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fowlpos/internal/domain/catalogs/customer"
	"fowlpos/internal/domain/catalogs/product"
	"fowlpos/internal/domain/reports"
	"fowlpos/internal/domain/sales/order"
	"fowlpos/internal/domain/sales/receipt"
	"fowlpos/internal/domain/sales/settlement"
	"fowlpos/internal/infrastructure/http/v1/handlers"
	"fowlpos/internal/infrastructure/http/v1/middleware"
	"fowlpos/internal/infrastructure/storage/postgres"
	"fowlpos/pkg/logger"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	Logger *logger.Logger

	// Pool for health checks
	Pool *postgres.Pool

	// JWTValidator for token validation; nil disables auth (dev mode)
	JWTValidator middleware.JWTValidator

	// IdempotencyStore enables replay protection when non-nil
	IdempotencyStore *postgres.IdempotencyStore

	// AllowedOrigins for the terminal SPA
	AllowedOrigins []string

	Products   *product.Service
	Customers  *customer.Service
	Settlement *settlement.Service
	Orders     *order.Service
	Receipts   *receipt.Service
	Reports    *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(corsMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		if cfg.JWTValidator != nil {
			api.Use(middleware.Auth(cfg.JWTValidator))
		}
		if cfg.IdempotencyStore != nil {
			api.Use(middleware.Idempotency(cfg.IdempotencyStore))
		}

		// Catalog maintenance is manager-only once auth is on; in dev
		// mode (no validator) everything is open.
		manage := func(c *gin.Context) { c.Next() }
		if cfg.JWTValidator != nil {
			manage = middleware.RequireRole("manager")
		}

		handlers.NewProductHandler(cfg.Products).RegisterRoutes(api, manage)
		handlers.NewCustomerHandler(cfg.Customers).RegisterRoutes(api, manage)
		handlers.NewSalesHandler(cfg.Settlement, cfg.Orders, cfg.Receipts).RegisterRoutes(api)
		handlers.NewReportsHandler(cfg.Reports).RegisterRoutes(api)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderIdempotencyKey, middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, middleware.HeaderTraceID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}
