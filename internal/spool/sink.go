package spool

import (
	"context"

	"github.com/logspool/logspool/internal/domain"
)

// Sink receives batches of entries when the spool flushes. Implementations
// ship to a remote collector, persist to a database, or similar. Ship is
// called from the scheduler's worker goroutine, never concurrently.
type Sink interface {
	// Name identifies the sink in logs and error messages.
	Name() string

	// Ship delivers a batch. Returning an error leaves the batch buffered
	// for the next flush attempt.
	Ship(ctx context.Context, entries []domain.Entry) error
}

// DumpTarget receives the buffer contents on a dump request. Unlike a flush,
// a dump externalizes the buffer locally for inspection and does not clear it.
type DumpTarget interface {
	Dump(ctx context.Context, entries []domain.Entry) error
}
