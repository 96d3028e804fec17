// Package main seeds a development database with sample catalog data.
package main

import (
	"context"
	"fmt"
	"os"

	"fowlpos/internal/config"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/catalogs/customer"
	"fowlpos/internal/domain/catalogs/product"
	"fowlpos/internal/infrastructure/storage/postgres"
	"fowlpos/internal/infrastructure/storage/postgres/catalog_repo"
	"fowlpos/internal/infrastructure/storage/postgres/migrations"
	"fowlpos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	if err := migrations.Run(ctx, cfg.Database.DSN()); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	productSvc := product.NewService(catalog_repo.NewProductRepo(txManager))
	customerSvc := customer.NewService(catalog_repo.NewCustomerRepo(txManager))

	products := []struct {
		name  string
		unit  string
		price string
	}{
		{"Live Chicken", "kg", "320.00"},
		{"Dressed Chicken", "kg", "380.00"},
		{"Chicken Eggs", "dozen", "140.00"},
		{"Duck", "kg", "420.00"},
		{"Duck Eggs", "dozen", "180.00"},
		{"Quail", "pc", "90.00"},
	}

	for _, p := range products {
		if _, err := productSvc.Create(ctx, p.name, p.unit, types.MustMoney(p.price)); err != nil {
			log.Fatalw("failed to seed product", "name", p.name, "error", err)
		}
	}

	customers := []struct {
		name    string
		phone   string
		balance string
	}{
		{"Walk-in Customer", "", "0.00"},
		{"Ahmed", "0171000001", "0.00"},
		{"Karim Traders", "0171000002", "500.00"},
	}

	for _, c := range customers {
		if _, err := customerSvc.Create(ctx, c.name, c.phone, types.MustMoney(c.balance)); err != nil {
			log.Fatalw("failed to seed customer", "name", c.name, "error", err)
		}
	}

	log.Infow("seed complete", "products", len(products), "customers", len(customers))
}
