package main

import (
	"fmt"
	"log"

	"taxmitra/internal/config"
	"taxmitra/internal/handler"
	"taxmitra/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reportH := handler.NewReportHandler(cfg.Engine.FilingOptions())
	healthH := handler.NewHealthHandler()

	r := router.Setup(reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
