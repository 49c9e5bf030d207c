// Package domain defines the core entities of the log spool and their
// validation rules.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidLevel is returned when a log level is not one of the
	// recognized values.
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrEmptyMessage is returned when a log entry carries no message.
	ErrEmptyMessage = errors.New("message cannot be empty")
)
