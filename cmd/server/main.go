// Package main implements the entry point for the logspool server,
// which buffers log entries from producers and synchronizes them to
// remote sinks through a priority-ordered serial scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/logspool/logspool/internal/config"
	"github.com/logspool/logspool/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"Run database migrations (up, down, status, version) and exit",
	)
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd); err != nil {
			appLogger.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		appLogger.Info("Migration completed", "command", *migrateCmd)
		return
	}

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to build application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		appLogger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"flush_threshold", cfg.Spool.FlushThreshold,
		"queue_capacity", cfg.Scheduler.QueueCapacity)

	if cfg.Database.URL != "" {
		slog.Debug("Database sink configured", "url_present", true)
	}
	if cfg.Collector.URL != "" {
		slog.Debug("Collector sink configured", "url_present", true)
	}

	return cfg, appLogger, nil
}
