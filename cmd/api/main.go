package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devplan-ai/devplan-backend/config"
	"github.com/devplan-ai/devplan-backend/internal/bootstrap"
	cronjob "github.com/devplan-ai/devplan-backend/internal/cron"
	"github.com/devplan-ai/devplan-backend/internal/export"
	"github.com/devplan-ai/devplan-backend/internal/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the service runs with caching off.
	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Printf("[warn] operation=startup message=redis unavailable, plan cache disabled: %v", err)
		rdb = nil
	}

	exporter, err := export.NewExporter(cfg.Export.Dir)
	if err != nil {
		log.Fatalf("export dir: %v", err)
	}

	prices := pricing.NewStore(db)

	r, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Cfg:      cfg,
		DB:       db,
		Redis:    rdb,
		Exporter: exporter,
		Prices:   prices,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	scheduler := cronjob.NewScheduler(prices, exporter, cfg.Export.MaxAge)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("[info] operation=startup message=%s v%s listening on %s (env=%s)",
			cfg.App.Name, cfg.App.Version, srv.Addr, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[info] operation=shutdown message=draining connections")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[error] operation=shutdown error=%v", err)
	}
}
