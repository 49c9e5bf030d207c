// Package sched implements a priority-ordered serial scheduler: a single
// dedicated worker goroutine that executes submitted tasks one at a time,
// choosing the most urgent pending task between executions instead of the
// oldest one. At most one task runs at any moment, so state owned by the
// worker needs no further synchronization; a task submitted later with a
// higher priority still runs before an earlier, less urgent task as long as
// the earlier one has not already started.
package sched

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Priority is the urgency of a task. Higher values are executed first.
type Priority int

// Priorities in ascending urgency.
const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Valid reports whether the priority is one of the defined levels.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// Fn is the operation a task performs. It runs on the worker goroutine and
// must not block indefinitely without honoring ctx.
type Fn func(ctx context.Context) error

// Task is a unit of work submitted to the worker: an operation plus the
// urgency used to order it against other pending work.
type Task struct {
	// ID identifies the task in logs and stats.
	ID uuid.UUID

	// Kind labels the operation (e.g. "append", "flush", "dump").
	Kind string

	// Priority orders the task against other pending tasks.
	Priority Priority

	// Run is the operation itself.
	Run Fn
}

// NewTask creates a task with a generated ID.
func NewTask(kind string, priority Priority, fn Fn) Task {
	return Task{
		ID:       uuid.New(),
		Kind:     kind,
		Priority: priority,
		Run:      fn,
	}
}
