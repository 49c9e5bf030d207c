package sink

import (
	"context"
	"database/sql"

	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/store"
)

// Store adapts a store.EntryStore to the spool's sink interface, so flushed
// batches are persisted to the database alongside (or instead of) the remote
// collector. When a *sql.DB is provided, each batch is saved inside a single
// transaction.
type Store struct {
	entries store.EntryStore
	db      *sql.DB
}

// NewStore creates a sink persisting batches through the given store.
func NewStore(entries store.EntryStore) *Store {
	return &Store{entries: entries}
}

// NewTransactionalStore creates a sink that saves each batch within a
// transaction, so a partially written batch is never left behind on failure.
func NewTransactionalStore(entries store.EntryStore, db *sql.DB) *Store {
	return &Store{entries: entries, db: db}
}

// Name implements spool.Sink.
func (s *Store) Name() string { return "postgres" }

// Ship persists the batch.
func (s *Store) Ship(ctx context.Context, entries []domain.Entry) error {
	if s.db == nil {
		return s.entries.SaveEntries(ctx, entries)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.entries.WithTx(tx).SaveEntries(ctx, entries)
	})
}
