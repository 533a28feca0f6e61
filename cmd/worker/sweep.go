package main

import (
	"log"

	"github.com/devplan-ai/devplan-backend/config"
	"github.com/devplan-ai/devplan-backend/internal/export"
)

// RunSweep removes expired files from the export directory.
func RunSweep() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	exporter, err := export.NewExporter(cfg.Export.Dir)
	if err != nil {
		log.Fatalf("export dir: %v", err)
	}

	removed, err := exporter.Sweep(cfg.Export.MaxAge)
	if err != nil {
		log.Fatalf("sweep: %v", err)
	}
	log.Printf("[info] operation=export_sweep removed=%d", removed)
}
