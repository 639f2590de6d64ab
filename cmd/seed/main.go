// Command seed fills the back office database with synthetic data:
// the product catalog with its category detail rows, customers, and a
// realistic spread of orders, line items, sales, payments, discounts
// and loyalty balances. Safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"backoffice/config"
	"backoffice/internal/seeder"
	"backoffice/internal/store"
	"backoffice/internal/util"
)

func main() {
	cfg := config.Load()

	customers := flag.Int("customers", cfg.Seed.Customers, "target number of customers")
	orders := flag.Int("orders", cfg.Seed.Orders, "target number of orders")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	st, err := store.NewPostgres(cfg.Store.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Ping(ctx); err != nil {
		log.Fatalf("Database not reachable: %v", err)
	}

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	s := seeder.New(st, *seed)
	if err := s.Run(ctx, *customers, *orders); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
