package main

import (
	"context"
	"log"
	"time"

	"github.com/devplan-ai/devplan-backend/config"
	"github.com/devplan-ai/devplan-backend/internal/bootstrap"
	"github.com/devplan-ai/devplan-backend/internal/pricing"
	"github.com/devplan-ai/devplan-backend/internal/pricing/fetch"
)

// RunPrices refreshes cloud compute prices for the selected providers and
// writes them into the pricing tables.
func RunPrices(args []string) {
	provider := "all"
	if len(args) > 0 {
		provider = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	store := pricing.NewStore(db)
	fetchCfg := fetch.DefaultConfig()

	fetchers := map[string]func(context.Context, fetch.Config) ([]pricing.PriceRow, error){
		"aws": fetch.AWS,
		"gcp": fetch.GCP,
	}

	if provider != "all" {
		fetcher, ok := fetchers[provider]
		if !ok {
			log.Fatalf("unknown provider: %s", provider)
		}
		fetchers = map[string]func(context.Context, fetch.Config) ([]pricing.PriceRow, error){provider: fetcher}
	}

	for name, fetcher := range fetchers {
		started := time.Now()
		rows, err := fetcher(ctx, fetchCfg)
		if err != nil {
			log.Fatalf("fetch %s prices: %v", name, err)
		}
		if err := store.UpsertBatch(ctx, name, rows); err != nil {
			log.Fatalf("store %s prices: %v", name, err)
		}
		log.Printf("[info] operation=price_refresh provider=%s rows=%d took=%v",
			name, len(rows), time.Since(started).Round(time.Second))
	}
}
