package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/stockroomlabs/stockroom-backend/internal/inventory"
	"github.com/stockroomlabs/stockroom-backend/internal/orders"
	"github.com/stockroomlabs/stockroom-backend/internal/products"
	"github.com/stockroomlabs/stockroom-backend/internal/seed"
	"github.com/stockroomlabs/stockroom-backend/pkg/config"
	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	orderCount := flag.Int("orders", 100, "number of demo orders to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, inventoryService)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	seeder, err := seed.New(productService, orderService, logg, seed.Options{OrderCount: *orderCount})
	if err != nil {
		logg.Error(context.Background(), "failed to create seeder", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"orders": *orderCount,
	})
	if err := seeder.Run(ctx); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seeding complete")
}
