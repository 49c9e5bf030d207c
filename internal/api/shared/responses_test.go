package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	RespondWithJSON(recorder, req, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req = req.WithContext(SetTraceID(req.Context()))

	RespondWithError(recorder, req, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "bad input", resp.Error)
	assert.Len(t, resp.TraceID, TraceIDLength*2)
}

func TestRespondWithErrorAndLogHidesRawError(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	rawErr := errors.New("connection to postgres://user:hunter2@db:5432 failed")
	RespondWithErrorAndLog(recorder, req, http.StatusInternalServerError, "Internal error", rawErr)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "Internal error", resp.Error)
	assert.NotContains(t, recorder.Body.String(), "hunter2")
}

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	assert.Len(t, traceID, TraceIDLength*2)

	// A second context gets a different ID.
	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other)
}

func TestGetTraceIDMissing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", GetTraceID(context.Background()))
}
