package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "info", want: LevelInfo},
		{input: "warn", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "fatal", wantErr: true},
		{input: "INFO", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEntry(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		entry, err := NewEntry(LevelInfo, "spool started", "api", map[string]string{"request_id": "abc"})
		require.NoError(t, err)
		require.NotNil(t, entry)

		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.False(t, entry.Timestamp.IsZero())
		assert.Equal(t, time.UTC, entry.Timestamp.Location())
		assert.Equal(t, LevelInfo, entry.Level)
		assert.Equal(t, "spool started", entry.Message)
		assert.Equal(t, "api", entry.Source)
	})

	t.Run("invalid level", func(t *testing.T) {
		entry, err := NewEntry(Level("trace"), "msg", "", nil)
		assert.ErrorIs(t, err, ErrInvalidLevel)
		assert.Nil(t, entry)
	})

	t.Run("empty message", func(t *testing.T) {
		entry, err := NewEntry(LevelInfo, "", "", nil)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, entry)
	})

	t.Run("oversized message", func(t *testing.T) {
		entry, err := NewEntry(LevelInfo, strings.Repeat("x", MaxMessageLen+1), "", nil)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, entry)
	})
}

func TestEntryValidate(t *testing.T) {
	valid := func() *Entry {
		return &Entry{
			ID:        uuid.New(),
			Timestamp: time.Now().UTC(),
			Level:     LevelWarn,
			Message:   "disk nearly full",
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("nil ID", func(t *testing.T) {
		e := valid()
		e.ID = uuid.Nil
		assert.ErrorIs(t, e.Validate(), ErrInvalidID)
	})

	t.Run("zero timestamp", func(t *testing.T) {
		e := valid()
		e.Timestamp = time.Time{}
		assert.ErrorIs(t, e.Validate(), ErrValidation)
	})
}
