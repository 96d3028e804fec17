// Package main is the entry point for the fowlpos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fowlpos/internal/config"
	"fowlpos/internal/domain/catalogs/customer"
	"fowlpos/internal/domain/catalogs/product"
	"fowlpos/internal/domain/reports"
	"fowlpos/internal/domain/sales/order"
	"fowlpos/internal/domain/sales/receipt"
	"fowlpos/internal/domain/sales/settlement"
	"fowlpos/internal/domain/sales/summary"
	v1 "fowlpos/internal/infrastructure/http/v1"
	"fowlpos/internal/infrastructure/http/v1/middleware"
	"fowlpos/internal/infrastructure/storage/postgres"
	"fowlpos/internal/infrastructure/storage/postgres/catalog_repo"
	"fowlpos/internal/infrastructure/storage/postgres/migrations"
	"fowlpos/internal/infrastructure/storage/postgres/report_repo"
	"fowlpos/internal/infrastructure/storage/postgres/sales_repo"
	"fowlpos/pkg/logger"
	"fowlpos/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	ctx = logger.WithLogger(ctx, log)
	log.Info("starting fowlpos server")

	// --- Migrations ---
	if err := migrations.Run(ctx, cfg.Database.DSN()); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	// --- Database pool ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN())
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	orderRepo := sales_repo.NewOrderRepo(txManager)
	receiptRepo := sales_repo.NewReceiptRepo(txManager)
	summaryRepo := sales_repo.NewSummaryRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Numerator: receipt numbers join the settlement transaction ---
	numeratorSvc := numerator.NewWithProvider(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	// --- Domain services ---
	productSvc := product.NewService(productRepo)
	customerSvc := customer.NewService(customerRepo)
	orderSvc := order.NewService(orderRepo)
	receiptSvc := receipt.NewService(receiptRepo)
	summarySvc := summary.NewService(summaryRepo)
	settlementSvc := settlement.NewService(
		txManager,
		customerRepo,
		productRepo,
		orderRepo,
		receiptRepo,
		summarySvc,
		settlement.NewNumeratorAllocator(numeratorSvc),
		settlement.StoreInfo{
			Name:    cfg.Store.Name,
			Address: cfg.Store.Address,
			Phone:   cfg.Store.Phone,
		},
	)
	reportsSvc := reports.NewService(reportRepo, summarySvc, txManager)

	// --- Optional middleware dependencies ---
	var jwtValidator middleware.JWTValidator
	if cfg.JWT.Secret != "" {
		jwtValidator = middleware.NewHMACValidator(cfg.JWT.Secret)
	} else {
		log.Warn("JWT_SECRET not set, authentication disabled")
	}

	var idempotencyStore *postgres.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore = postgres.NewIdempotencyStore(txManager, cfg.Idempotency.TTL)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:           log,
		Pool:             pool,
		JWTValidator:     jwtValidator,
		IdempotencyStore: idempotencyStore,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		Products:         productSvc,
		Customers:        customerSvc,
		Settlement:       settlementSvc,
		Orders:           orderSvc,
		Receipts:         receiptSvc,
		Reports:          reportsSvc,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
