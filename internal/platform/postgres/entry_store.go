package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/platform/logger"
	"github.com/logspool/logspool/internal/store"
)

// entryColumns is the number of bound parameters per entry in the batch
// insert.
const entryColumns = 6

// PostgresEntryStore implements store.EntryStore using PostgreSQL.
type PostgresEntryStore struct {
	db store.DBTX
}

// NewPostgresEntryStore creates a new PostgresEntryStore.
func NewPostgresEntryStore(db store.DBTX) *PostgresEntryStore {
	return &PostgresEntryStore{
		db: db,
	}
}

// Ensure PostgresEntryStore implements store.EntryStore.
var _ store.EntryStore = (*PostgresEntryStore)(nil)

// SaveEntries persists a flushed batch in a single multi-row insert.
// Re-delivered entries (same ID) are skipped, so retried flushes after a
// partial failure do not error out.
func (s *PostgresEntryStore) SaveEntries(ctx context.Context, entries []domain.Entry) error {
	log := logger.FromContext(ctx)

	if len(entries) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO log_entries (id, ts, level, message, source, attrs)
		VALUES `)

	args := make([]any, 0, len(entries)*entryColumns)
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * entryColumns
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)

		var attrs []byte
		if len(entry.Attrs) > 0 {
			encoded, err := json.Marshal(entry.Attrs)
			if err != nil {
				return fmt.Errorf("%w: failed to encode attrs: %v", store.ErrInvalidEntity, err)
			}
			attrs = encoded
		}

		args = append(args,
			entry.ID,
			entry.Timestamp,
			string(entry.Level),
			entry.Message,
			entry.Source,
			attrs,
		)
	}

	sb.WriteString(" ON CONFLICT (id) DO NOTHING")

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		log.Error("failed to save entries",
			"count", len(entries),
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetRecentEntries returns the newest persisted entries, newest first.
func (s *PostgresEntryStore) GetRecentEntries(ctx context.Context, limit int) ([]domain.Entry, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, ts, level, message, source, attrs
		FROM log_entries
		ORDER BY ts DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to query recent entries", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.Entry
	for rows.Next() {
		var entry domain.Entry
		var source sql.NullString
		var attrs []byte

		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Level, &entry.Message, &source, &attrs); err != nil {
			return nil, MapError(err)
		}

		entry.Source = source.String
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &entry.Attrs); err != nil {
				return nil, fmt.Errorf("failed to decode attrs for entry %s: %w", entry.ID, err)
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

// CountEntriesSince returns how many entries were persisted at or after the
// given time.
func (s *PostgresEntryStore) CountEntriesSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM log_entries WHERE ts >= $1`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// WithTx returns an EntryStore bound to the provided transaction.
func (s *PostgresEntryStore) WithTx(tx *sql.Tx) store.EntryStore {
	return &PostgresEntryStore{
		db: tx,
	}
}
