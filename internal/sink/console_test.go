package sink

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logspool/logspool/internal/domain"
)

func TestConsoleDump(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	entries := []domain.Entry{
		{
			ID:        uuid.New(),
			Timestamp: ts,
			Level:     domain.LevelWarn,
			Message:   "disk nearly full",
			Source:    "agent",
			Attrs:     map[string]string{"mount": "/var", "free": "2%"},
		},
		{
			ID:        uuid.New(),
			Timestamp: ts.Add(time.Second),
			Level:     domain.LevelInfo,
			Message:   "rotation complete",
		},
	}

	require.NoError(t, c.Dump(context.Background(), entries))

	out := buf.String()
	assert.Contains(t, out, "--- spool dump: 2 buffered entries ---")
	assert.Contains(t, out, "[WARN] agent: disk nearly full")
	// Attrs are sorted by key.
	assert.Contains(t, out, "free=2% mount=/var")
	assert.Contains(t, out, "[INFO] rotation complete")
}

func TestConsoleDumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	require.NoError(t, c.Dump(context.Background(), nil))
	assert.Contains(t, buf.String(), "0 buffered entries")
}
