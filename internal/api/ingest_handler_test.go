package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logspool/logspool/internal/api/shared"
	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/sched"
	"github.com/logspool/logspool/internal/spool"
)

// capturingSink records every batch it receives.
type capturingSink struct {
	mu      sync.Mutex
	entries []domain.Entry
}

func (s *capturingSink) Name() string { return "capturing" }

func (s *capturingSink) Ship(ctx context.Context, entries []domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *capturingSink) all() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func newTestSpool(t *testing.T) (*spool.Spool, *sched.Worker, *capturingSink) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	worker := sched.New(sched.Config{QueueCapacity: 64}, logger)
	sink := &capturingSink{}
	sp := spool.New(worker, []spool.Sink{sink}, nil, spool.Config{
		FlushThreshold: 100,
		MaxBuffered:    200,
	}, logger)

	t.Cleanup(func() {
		_ = worker.Stop(context.Background())
	})

	return sp, worker, sink
}

// testWriter routes log output through the test log.
type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func TestIngest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		payload      string
		wantStatus   int
		wantAccepted int
	}{
		{
			name: "single valid entry",
			payload: `{"entries": [
				{"level": "info", "message": "service started", "source": "api"}
			]}`,
			wantStatus:   http.StatusAccepted,
			wantAccepted: 1,
		},
		{
			name: "batch of entries",
			payload: `{"entries": [
				{"level": "info", "message": "one"},
				{"level": "warn", "message": "two", "attrs": {"region": "us-east-1"}},
				{"level": "error", "message": "three"}
			]}`,
			wantStatus:   http.StatusAccepted,
			wantAccepted: 3,
		},
		{
			name:       "empty batch rejected",
			payload:    `{"entries": []}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing entries field",
			payload:    `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown level rejected",
			payload: `{"entries": [
				{"level": "fatal", "message": "boom"}
			]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "empty message rejected",
			payload: `{"entries": [
				{"level": "info", "message": ""}
			]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed JSON",
			payload:    `{"entries": [`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, worker, sink := newTestSpool(t)
			handler := NewIngestHandler(sp)

			req := httptest.NewRequest("POST", "/api/logs", bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")

			recorder := httptest.NewRecorder()
			handler.Ingest(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus != http.StatusAccepted {
				return
			}

			var resp IngestResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
			assert.Equal(t, tt.wantAccepted, resp.Accepted)

			// Drain the append tasks, then flush; a flush outranks appends
			// and would otherwise ship before they land in the buffer.
			require.NoError(t, worker.WaitIdle(context.Background()))
			require.NoError(t, sp.RequestFlush())
			require.NoError(t, worker.WaitIdle(context.Background()))
			assert.Len(t, sink.all(), tt.wantAccepted)
		})
	}
}

func TestIngestStampsClientAsSource(t *testing.T) {
	t.Parallel()

	sp, worker, sink := newTestSpool(t)
	handler := NewIngestHandler(sp)

	clientID := uuid.New()
	payload := `{"entries": [{"level": "info", "message": "no source given"}]}`

	req := httptest.NewRequest("POST", "/api/logs", bytes.NewBufferString(payload))
	ctx := context.WithValue(req.Context(), shared.ClientIDContextKey, clientID)
	req = req.WithContext(ctx)

	recorder := httptest.NewRecorder()
	handler.Ingest(recorder, req)

	require.Equal(t, http.StatusAccepted, recorder.Code)

	require.NoError(t, worker.WaitIdle(context.Background()))
	require.NoError(t, sp.RequestFlush())
	require.NoError(t, worker.WaitIdle(context.Background()))

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, clientID.String(), entries[0].Source)
}

func TestIngestAfterClose(t *testing.T) {
	t.Parallel()

	sp, _, _ := newTestSpool(t)
	handler := NewIngestHandler(sp)

	require.NoError(t, sp.Close(context.Background()))

	payload := `{"entries": [{"level": "info", "message": "too late"}]}`
	req := httptest.NewRequest("POST", "/api/logs", bytes.NewBufferString(payload))
	recorder := httptest.NewRecorder()
	handler.Ingest(recorder, req)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
