package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a log entry.
type Level string

// Recognized log levels, in ascending severity.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel converts a string into a Level, rejecting unknown values.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Valid reports whether the level is one of the recognized values.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// MaxMessageLen bounds the size of a single log message accepted for
// spooling. Oversized messages are rejected at ingest rather than truncated.
const MaxMessageLen = 64 * 1024

// Entry represents a single log record accepted into the spool.
// Attrs carries arbitrary structured context supplied by the producer and is
// shipped to sinks as-is.
type Entry struct {
	ID        uuid.UUID         `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Level     Level             `json:"level"`
	Message   string            `json:"message"`
	Source    string            `json:"source,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// NewEntry creates a new Entry with a generated ID and UTC timestamp.
// Returns an error if validation fails.
func NewEntry(level Level, message, source string, attrs map[string]string) (*Entry, error) {
	entry := &Entry{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Source:    source,
		Attrs:     attrs,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks that the Entry holds acceptable data.
func (e *Entry) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("%w: entry ID cannot be empty", ErrInvalidID)
	}

	if !e.Level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, e.Level)
	}

	if e.Message == "" {
		return ErrEmptyMessage
	}

	if len(e.Message) > MaxMessageLen {
		return fmt.Errorf("%w: message exceeds %d bytes", ErrValidation, MaxMessageLen)
	}

	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp cannot be zero", ErrValidation)
	}

	return nil
}
