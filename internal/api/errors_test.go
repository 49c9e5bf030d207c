package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/sched"
	"github.com/logspool/logspool/internal/service/auth"
	"github.com/logspool/logspool/internal/spool"
	"github.com/logspool/logspool/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid api key", auth.ErrInvalidAPIKey, http.StatusUnauthorized},
		{"queue full", sched.ErrQueueFull, http.StatusTooManyRequests},
		{"worker stopped", sched.ErrStopped, http.StatusServiceUnavailable},
		{"spool closed", spool.ErrClosed, http.StatusServiceUnavailable},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"entry not found", store.ErrEntryNotFound, http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid level", domain.ErrInvalidLevel, http.StatusBadRequest},
		{"empty message", domain.ErrEmptyMessage, http.StatusBadRequest},
		{"wrapped queue full", fmt.Errorf("submit: %w", sched.ErrQueueFull), http.StatusTooManyRequests},
		{"unknown error", errors.New("surprise"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"invalid token", auth.ErrInvalidToken, "Invalid token"},
		{"invalid api key", auth.ErrInvalidAPIKey, "Invalid credentials"},
		{"queue full", sched.ErrQueueFull, "Service is busy, retry later"},
		{"spool closed", spool.ErrClosed, "Service is shutting down"},
		{"invalid level", domain.ErrInvalidLevel, "Invalid log level"},
		{"empty message", domain.ErrEmptyMessage, "Message cannot be empty"},
		{"unknown error with secrets", errors.New("password=hunter2 leaked"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'IngestRequest.Entries' Error:Field validation for 'Entries' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Entries: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
