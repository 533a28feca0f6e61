package main

import (
	"log"

	"github.com/devplan-ai/devplan-backend/config"
	"github.com/devplan-ai/devplan-backend/internal/storage/postgres"
)

// RunMigrate applies the database schema.
func RunMigrate() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("[info] operation=migrate message=schema applied")
}
