package main

import (
	"log"

	"cvbuilder-backend/internal/bootstrap"
	"cvbuilder-backend/internal/shared/config"
	"cvbuilder-backend/internal/shared/server"
	"cvbuilder-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer telemetry.Sync()
	if app.DB != nil {
		defer app.DB.Close()
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
