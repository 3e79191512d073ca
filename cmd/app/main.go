package main

import (
	"context"
	"log"

	"ride-admin/internal/board"
	"ride-admin/internal/config"
	"ride-admin/internal/mylogger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger.Action("board_started").Info("Admin live board starting up")

	if err := board.Execute(context.Background(), appLogger, cfg); err != nil {
		appLogger.Error("board exited with error", err)
	}
}
