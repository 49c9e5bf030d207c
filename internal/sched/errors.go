package sched

import "errors"

// Common errors returned by the worker.
var (
	// ErrStopped is returned when a task is submitted after Stop.
	ErrStopped = errors.New("scheduler is stopped")

	// ErrQueueFull is returned when the pending set is at capacity.
	ErrQueueFull = errors.New("scheduler queue is full")

	// ErrNilFunc is returned when a task carries no operation.
	ErrNilFunc = errors.New("task function cannot be nil")

	// ErrInvalidPriority is returned when a task carries an undefined
	// priority level.
	ErrInvalidPriority = errors.New("invalid task priority")
)
