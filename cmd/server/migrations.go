package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/logspool/logspool/internal/config"
	"github.com/logspool/logspool/internal/redact"
)

// migrationsDir is the repo-relative location of the goose SQL migrations.
const migrationsDir = "internal/platform/postgres/migrations"

// migrationTableName is the goose version table.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts goose's logger to structured logging.
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages
// to slog.Error. It does NOT call os.Exit; the error is returned to main which
// handles the exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes the given goose command against the configured
// database.
func runMigrations(cfg *config.Config, command string) error {
	correlationID := uuid.New().String()
	migrationLogger := slog.Default().With(
		"correlation_id", correlationID,
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()
	migrationLogger.Info("Starting migration operation",
		"operation", fmt.Sprintf("goose %s", command))

	goose.SetLogger(&slogGooseLogger{})

	if cfg.Database.URL == "" {
		migrationLogger.Error("Database URL is empty",
			"resolution", "check LOGSPOOL_DATABASE_URL or config file")
		return fmt.Errorf("database URL is empty: check your configuration")
	}

	dirPath, err := findMigrationsDir()
	if err != nil {
		return fmt.Errorf("failed to locate migrations: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %s", redact.Error(err))
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			migrationLogger.Error("Failed to close database", "error", cerr)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetTableName(migrationTableName)

	switch command {
	case "up":
		err = goose.Up(db, dirPath)
	case "down":
		err = goose.Down(db, dirPath)
	case "status":
		err = goose.Status(db, dirPath)
	case "version":
		err = goose.Version(db, dirPath)
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}

	if err != nil {
		migrationLogger.Error("Migration operation failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(startTime).Milliseconds())
		return fmt.Errorf("goose %s failed: %s", command, redact.Error(err))
	}

	migrationLogger.Info("Migration operation finished",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}

// findMigrationsDir walks up from the working directory until it finds the
// migrations directory, so migrations run from the repo root or any
// subdirectory.
func findMigrationsDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, migrationsDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("migrations directory %q not found from %s", migrationsDir, cwd)
		}
		dir = parent
	}
}
