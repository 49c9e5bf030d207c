package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/sched"
	"github.com/logspool/logspool/internal/service/auth"
	"github.com/logspool/logspool/internal/spool"
	"github.com/logspool/logspool/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidAPIKey):
		return http.StatusUnauthorized

	// Backpressure: the worker queue is at capacity
	case errors.Is(err, sched.ErrQueueFull):
		return http.StatusTooManyRequests

	// Shutting down or already shut down
	case errors.Is(err, sched.ErrStopped),
		errors.Is(err, spool.ErrClosed):
		return http.StatusServiceUnavailable

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrEntryNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization required"

	case errors.Is(err, auth.ErrInvalidAPIKey):
		return "Invalid credentials"

	// Backpressure
	case errors.Is(err, sched.ErrQueueFull):
		return "Service is busy, retry later"

	case errors.Is(err, sched.ErrStopped),
		errors.Is(err, spool.ErrClosed):
		return "Service is shutting down"

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrEntryNotFound):
		return "Entry not found"

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return "Entry already exists"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidLevel):
		return "Invalid log level"

	case errors.Is(err, domain.ErrEmptyMessage):
		return "Message cannot be empty"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid entry data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'IngestRequest.Entries[0].Level' Error:Field validation for 'Level' failed on the 'oneof' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid UUID format"
	case "oneof":
		return "invalid value"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
