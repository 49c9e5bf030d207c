// Package store provides abstractions for data persistence.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/logspool/logspool/internal/domain"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sql.DB and *sql.Tx, allowing our code
// to work with either a database connection or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EntryStore persists flushed log entries.
type EntryStore interface {
	// SaveEntries persists a flushed batch atomically.
	SaveEntries(ctx context.Context, entries []domain.Entry) error

	// GetRecentEntries returns the newest persisted entries, newest first,
	// up to limit.
	GetRecentEntries(ctx context.Context, limit int) ([]domain.Entry, error)

	// CountEntriesSince returns how many entries were persisted at or after
	// the given time.
	CountEntriesSince(ctx context.Context, since time.Time) (int64, error)

	// WithTx returns an EntryStore bound to the provided transaction.
	WithTx(tx *sql.Tx) EntryStore
}
