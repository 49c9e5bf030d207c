package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/store"
)

// MockEntryStore implements store.EntryStore for testing with an in-memory
// slice of entries.
type MockEntryStore struct {
	mu      sync.Mutex
	Entries []domain.Entry

	// SaveErr, when set, is returned from SaveEntries
	SaveErr error

	// QueryErr, when set, is returned from the read methods
	QueryErr error
}

// NewMockEntryStore creates an empty in-memory entry store.
func NewMockEntryStore() *MockEntryStore {
	return &MockEntryStore{}
}

// SaveEntries implements the store.EntryStore interface
func (m *MockEntryStore) SaveEntries(ctx context.Context, entries []domain.Entry) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entries...)
	return nil
}

// GetRecentEntries implements the store.EntryStore interface
func (m *MockEntryStore) GetRecentEntries(ctx context.Context, limit int) ([]domain.Entry, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Entry, len(m.Entries))
	copy(out, m.Entries)

	// Newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountEntriesSince implements the store.EntryStore interface
func (m *MockEntryStore) CountEntriesSince(ctx context.Context, since time.Time) (int64, error) {
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, e := range m.Entries {
		if !e.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

// WithTx implements the store.EntryStore interface
func (m *MockEntryStore) WithTx(tx *sql.Tx) store.EntryStore {
	return m
}
