package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/logspool/logspool/internal/config"
	"github.com/logspool/logspool/internal/platform/postgres"
	"github.com/logspool/logspool/internal/sched"
	"github.com/logspool/logspool/internal/service/auth"
	"github.com/logspool/logspool/internal/sink"
	"github.com/logspool/logspool/internal/spool"
	"github.com/logspool/logspool/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Scheduling and buffering
	worker *sched.Worker
	spool  *spool.Spool

	// Stores (using interfaces for proper abstraction)
	entryStore store.EntryStore

	// Service interfaces
	jwtService auth.JWTService
	apiKeys    auth.APIKeyVerifier
}

// newApplication creates a new application instance with all dependencies
// initialized. The database connection is optional; without one, entries are
// shipped to the collector sink only.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize API key verifier
	app.apiKeys, err = auth.NewBcryptVerifier(cfg.Auth.APIKeyHash)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API key verifier: %w", err)
	}

	// Initialize the serial worker that orders all spool operations
	app.worker = sched.New(sched.Config{
		QueueCapacity:   cfg.Scheduler.QueueCapacity,
		EscalationAfter: cfg.Scheduler.EscalationAfter(),
	}, logger.With("component", "scheduler"))

	// Assemble sinks. Each configured destination receives every flushed batch.
	var sinks []spool.Sink

	if cfg.Collector.URL != "" {
		collector, err := sink.NewCollector(cfg.Collector)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize collector sink: %w", err)
		}
		sinks = append(sinks, collector)
		logger.Info("Collector sink initialized")
	}

	if cfg.Database.URL != "" {
		app.db, err = setupAppDatabase(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to set up database: %w", err)
		}
		app.entryStore = postgres.NewPostgresEntryStore(app.db)
		sinks = append(sinks, sink.NewTransactionalStore(app.entryStore, app.db))
		logger.Info("Postgres sink initialized")
	}

	if len(sinks) == 0 {
		return nil, fmt.Errorf("no sinks configured: set collector.url or database.url")
	}

	// Initialize the spool with a local console dump target
	app.spool = spool.New(app.worker, sinks, sink.NewConsole(os.Stderr), spool.Config{
		FlushThreshold: cfg.Spool.FlushThreshold,
		FlushInterval:  cfg.Spool.FlushInterval(),
		MaxBuffered:    cfg.Spool.MaxBuffered,
	}, logger.With("component", "spool"))
	app.spool.Start()

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The spool is
// closed first so buffered entries get a final flush before the worker stops.
func (app *application) cleanup() {
	shutdownTimeout := time.Duration(app.config.Server.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.spool != nil {
		if err := app.spool.Close(ctx); err != nil {
			app.logger.Error("Error closing spool", "error", err)
		}
	}

	if app.worker != nil {
		if err := app.worker.Stop(ctx); err != nil {
			app.logger.Error("Error stopping worker", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
