package main

// Run database migrations:
//   go run ./cmd/migrate        # apply all pending migrations
//   go run ./cmd/migrate down   # roll back the most recent migration

import (
	"context"
	"log"
	"os"

	"cvbuilder-backend/internal/shared/config"
	"cvbuilder-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if len(os.Args) > 1 && os.Args[1] == "down" {
		if err := db.RollbackLastMigration(ctx, sqlDB); err != nil {
			log.Printf("failed to roll back migration: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
}
