// Package cronjob schedules the recurring maintenance work: the nightly
// cloud price refresh and the hourly export directory sweep.
package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devplan-ai/devplan-backend/internal/export"
	"github.com/devplan-ai/devplan-backend/internal/pricing"
	"github.com/devplan-ai/devplan-backend/internal/pricing/fetch"
)

type Scheduler struct {
	prices       *pricing.Store
	exporter     *export.Exporter
	exportMaxAge time.Duration

	c *cron.Cron
}

func NewScheduler(prices *pricing.Store, exporter *export.Exporter, exportMaxAge time.Duration) *Scheduler {
	return &Scheduler{
		prices:       prices,
		exporter:     exporter,
		exportMaxAge: exportMaxAge,
	}
}

// Start registers the cron entries and begins scheduling. Jobs run in
// their own goroutines managed by the cron runner.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// Nightly price refresh (12:00 AM).
	if _, err := c.AddFunc("0 0 0 * * *", s.refreshPrices); err != nil {
		log.Printf("[error] operation=cron_setup error=%v", err)
		return
	}

	// Hourly export sweep.
	if _, err := c.AddFunc("0 0 * * * *", s.sweepExports); err != nil {
		log.Printf("[error] operation=cron_setup error=%v", err)
		return
	}

	log.Println("[info] operation=cron_setup message=scheduler started (nightly price refresh, hourly export sweep)")
	c.Start()
	s.c = c
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	if s.c != nil {
		<-s.c.Stop().Done()
	}
}

func (s *Scheduler) refreshPrices() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	started := time.Now()
	cfg := fetch.DefaultConfig()

	for provider, fetcher := range map[string]func(context.Context, fetch.Config) ([]pricing.PriceRow, error){
		"aws": fetch.AWS,
		"gcp": fetch.GCP,
	} {
		rows, err := fetcher(ctx, cfg)
		if err != nil {
			log.Printf("[error] operation=price_refresh provider=%s error=%v", provider, err)
			continue
		}
		if err := s.prices.UpsertBatch(ctx, provider, rows); err != nil {
			log.Printf("[error] operation=price_refresh provider=%s error=%v", provider, err)
			continue
		}
		log.Printf("[info] operation=price_refresh provider=%s rows=%d", provider, len(rows))
	}

	log.Printf("[info] operation=price_refresh message=completed in %v", time.Since(started).Round(time.Second))
}

func (s *Scheduler) sweepExports() {
	removed, err := s.exporter.Sweep(s.exportMaxAge)
	if err != nil {
		log.Printf("[error] operation=export_sweep error=%v", err)
		return
	}
	if removed > 0 {
		log.Printf("[info] operation=export_sweep removed=%d", removed)
	}
}
