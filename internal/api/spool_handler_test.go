package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolFlush(t *testing.T) {
	t.Parallel()

	sp, worker, sink := newTestSpool(t)
	handler := NewSpoolHandler(sp, worker)

	// Seed the buffer with one entry.
	ingest := NewIngestHandler(sp)
	payload := `{"entries": [{"level": "info", "message": "buffered"}]}`
	req := httptest.NewRequest("POST", "/api/logs", bytes.NewBufferString(payload))
	recorder := httptest.NewRecorder()
	ingest.Ingest(recorder, req)
	require.Equal(t, http.StatusAccepted, recorder.Code)
	require.NoError(t, worker.WaitIdle(context.Background()))

	req = httptest.NewRequest("POST", "/api/spool/flush", nil)
	recorder = httptest.NewRecorder()
	handler.Flush(recorder, req)

	assert.Equal(t, http.StatusAccepted, recorder.Code)

	require.NoError(t, worker.WaitIdle(context.Background()))
	assert.Len(t, sink.all(), 1)
}

func TestSpoolFlushAfterClose(t *testing.T) {
	t.Parallel()

	sp, worker, _ := newTestSpool(t)
	handler := NewSpoolHandler(sp, worker)

	require.NoError(t, sp.Close(context.Background()))

	req := httptest.NewRequest("POST", "/api/spool/flush", nil)
	recorder := httptest.NewRecorder()
	handler.Flush(recorder, req)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestSpoolDumpWithoutTarget(t *testing.T) {
	t.Parallel()

	sp, worker, _ := newTestSpool(t)
	handler := NewSpoolHandler(sp, worker)

	req := httptest.NewRequest("POST", "/api/spool/dump", nil)
	recorder := httptest.NewRecorder()
	handler.Dump(recorder, req)

	// The test spool has no dump target configured.
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestSpoolStats(t *testing.T) {
	t.Parallel()

	sp, worker, _ := newTestSpool(t)
	handler := NewSpoolHandler(sp, worker)

	ingest := NewIngestHandler(sp)
	payload := `{"entries": [
		{"level": "info", "message": "one"},
		{"level": "info", "message": "two"}
	]}`
	req := httptest.NewRequest("POST", "/api/logs", bytes.NewBufferString(payload))
	recorder := httptest.NewRecorder()
	ingest.Ingest(recorder, req)
	require.Equal(t, http.StatusAccepted, recorder.Code)
	require.NoError(t, worker.WaitIdle(context.Background()))

	req = httptest.NewRequest("GET", "/api/spool/stats", nil)
	recorder = httptest.NewRecorder()
	handler.Stats(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp StatsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, uint64(2), resp.Spool.Appended)
	assert.Equal(t, 2, resp.Spool.Buffered)
	assert.GreaterOrEqual(t, resp.Scheduler.Executed, uint64(2))
}
