// Package spool implements the buffering log spool: entries accumulate in an
// in-memory buffer and are flushed to the configured sinks when a size
// threshold is reached, when the flush deadline expires, or on demand.
//
// The buffer is owned exclusively by the scheduler's single worker. Every
// operation that touches it — append, flush, dump — is submitted as a task,
// so no mutex guards the buffer itself and operations can never corrupt it
// by racing. Priorities keep the operations honest under load: flushes
// (shipping data out) outrank appends, and appends outrank dumps, so a flush
// requested after a slow dump still reaches the wire first.
package spool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/sched"
)

// Task kinds submitted by the spool.
const (
	kindAppend = "append"
	kindFlush  = "flush"
	kindDump   = "dump"
)

// ErrClosed is returned when an operation is requested after Close.
var ErrClosed = errors.New("spool is closed")

// Config controls the buffer and its flush policy.
type Config struct {
	// FlushThreshold is the buffered entry count that triggers a flush.
	FlushThreshold int

	// FlushInterval is the deadline-based flush period. Zero disables the
	// periodic flush.
	FlushInterval time.Duration

	// MaxBuffered caps the buffer. When an append would exceed it, the
	// oldest entry is dropped and counted.
	MaxBuffered int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		FlushThreshold: 64,
		FlushInterval:  30 * time.Second,
		MaxBuffered:    4096,
	}
}

// Stats is a snapshot of spool counters.
type Stats struct {
	Buffered      int       `json:"buffered"`
	Appended      uint64    `json:"appended"`
	Shipped       uint64    `json:"shipped"`
	Flushes       uint64    `json:"flushes"`
	FailedFlushes uint64    `json:"failed_flushes"`
	Dumps         uint64    `json:"dumps"`
	Dropped       uint64    `json:"dropped"`
	LastFlush     time.Time `json:"last_flush"`
}

// Spool buffers log entries and synchronizes them to sinks through a
// priority-ordered serial worker.
type Spool struct {
	worker *sched.Worker
	sinks  []Sink
	dump   DumpTarget
	cfg    Config
	logger *slog.Logger

	// buf is touched only from task functions running on the worker
	// goroutine. Callers never access it directly.
	buf []domain.Entry

	// mu guards the counters and flags below, which are read from other
	// goroutines via Stats().
	mu            sync.Mutex
	closed        bool
	flushQueued   bool
	buffered      int
	appended      uint64
	shipped       uint64
	flushes       uint64
	flushFailures uint64
	dumps         uint64
	dropped       uint64
	lastFlush     time.Time

	tickerStop chan struct{}
	tickerDone chan struct{}
}

// New creates a Spool on top of the given worker. Entries flushed go to all
// sinks; dump requests go to the dump target. Call Start to enable the
// periodic flush.
func New(worker *sched.Worker, sinks []Sink, dump DumpTarget, cfg Config, logger *slog.Logger) *Spool {
	if cfg.FlushThreshold <= 0 {
		cfg.FlushThreshold = DefaultConfig().FlushThreshold
	}
	if cfg.MaxBuffered <= 0 {
		cfg.MaxBuffered = DefaultConfig().MaxBuffered
	}
	if cfg.MaxBuffered < cfg.FlushThreshold {
		cfg.MaxBuffered = cfg.FlushThreshold
	}

	return &Spool{
		worker: worker,
		sinks:  sinks,
		dump:   dump,
		cfg:    cfg,
		logger: logger,
	}
}

// Start launches the periodic flush ticker. It is a no-op when the flush
// interval is zero.
func (s *Spool) Start() {
	if s.cfg.FlushInterval <= 0 {
		return
	}

	s.tickerStop = make(chan struct{})
	s.tickerDone = make(chan struct{})

	go func() {
		defer close(s.tickerDone)
		ticker := time.NewTicker(s.cfg.FlushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.RequestFlush(); err != nil && !errors.Is(err, ErrClosed) {
					s.logger.Warn("periodic flush submission failed", "error", err)
				}
			case <-s.tickerStop:
				return
			}
		}
	}()
}

// Append submits an entry for buffering. The entry is validated before the
// task is queued; buffering itself happens on the worker goroutine at normal
// priority. Reaching the flush threshold schedules a high-priority flush.
func (s *Spool) Append(entry domain.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	return s.worker.Go(kindAppend, sched.PriorityNormal, func(ctx context.Context) error {
		s.append(entry)
		return nil
	})
}

// RequestFlush schedules a high-priority flush of the buffer to all sinks.
// It returns once the task is queued, not once the flush completes. Repeated
// requests while a flush is already pending collapse into one task.
func (s *Spool) RequestFlush() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.flushQueued {
		s.mu.Unlock()
		return nil
	}
	s.flushQueued = true
	s.mu.Unlock()

	err := s.worker.Go(kindFlush, sched.PriorityHigh, s.flush)
	if err != nil {
		s.mu.Lock()
		s.flushQueued = false
		s.mu.Unlock()
	}
	return err
}

// RequestDump schedules a low-priority dump of the buffer to the dump
// target. The buffer is not cleared. Returns an error if no dump target is
// configured or the task cannot be queued.
func (s *Spool) RequestDump() error {
	if s.dump == nil {
		return errors.New("no dump target configured")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	return s.worker.Go(kindDump, sched.PriorityLow, func(ctx context.Context) error {
		return s.dumpBuffer(ctx)
	})
}

// Stats returns a snapshot of the spool's counters.
func (s *Spool) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Buffered:      s.buffered,
		Appended:      s.appended,
		Shipped:       s.shipped,
		Flushes:       s.flushes,
		FailedFlushes: s.flushFailures,
		Dumps:         s.dumps,
		Dropped:       s.dropped,
		LastFlush:     s.lastFlush,
	}
}

// Close stops the periodic flush, schedules a final flush, and waits for all
// pending spool work to finish. The spool accepts no operations afterwards;
// stopping the worker is the caller's responsibility.
func (s *Spool) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	if s.tickerStop != nil {
		close(s.tickerStop)
		<-s.tickerDone
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	// Drain pending appends first, then flush what they buffered. A
	// high-priority flush here would jump ahead of the very appends it is
	// supposed to ship.
	if err := s.worker.WaitIdle(ctx); err != nil {
		return err
	}

	if err := s.worker.Go(kindFlush, sched.PriorityLow, s.flush); err != nil {
		return fmt.Errorf("final flush submission failed: %w", err)
	}

	return s.worker.WaitIdle(ctx)
}

// append adds an entry to the buffer, dropping the oldest entry on overflow.
// Runs on the worker goroutine.
func (s *Spool) append(entry domain.Entry) {
	overflowed := false
	if len(s.buf) >= s.cfg.MaxBuffered {
		s.buf = s.buf[1:]
		overflowed = true
	}
	s.buf = append(s.buf, entry)
	size := len(s.buf)

	s.mu.Lock()
	s.appended++
	s.buffered = size
	if overflowed {
		s.dropped++
	}
	s.mu.Unlock()

	if overflowed {
		s.logger.Warn("buffer full, dropped oldest entry",
			"max_buffered", s.cfg.MaxBuffered)
	}

	if size >= s.cfg.FlushThreshold {
		if err := s.RequestFlush(); err != nil && !errors.Is(err, ErrClosed) {
			s.logger.Warn("threshold flush submission failed",
				"buffered", size,
				"error", err)
		}
	}
}

// flush ships the buffered entries to every sink and clears the buffer on
// success. On failure the batch is put back in front of anything appended
// since, so the next trigger retries it. Runs on the worker goroutine.
func (s *Spool) flush(ctx context.Context) error {
	s.mu.Lock()
	s.flushQueued = false
	s.mu.Unlock()

	if len(s.buf) == 0 {
		return nil
	}

	batch := s.buf
	s.buf = nil

	var failed error
	for _, sink := range s.sinks {
		if err := sink.Ship(ctx, batch); err != nil {
			failed = fmt.Errorf("sink %s: %w", sink.Name(), err)
			break
		}
	}

	if failed != nil {
		// Entries already shipped to earlier sinks may be delivered again
		// on retry; delivery is at-least-once.
		s.buf = append(batch, s.buf...)

		s.mu.Lock()
		s.flushFailures++
		s.buffered = len(s.buf)
		s.mu.Unlock()

		return fmt.Errorf("flush failed: %w", failed)
	}

	s.mu.Lock()
	s.flushes++
	s.shipped += uint64(len(batch))
	s.buffered = len(s.buf)
	s.lastFlush = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Debug("flushed buffer",
		"entries", len(batch),
		"sinks", len(s.sinks))
	return nil
}

// dumpBuffer hands a copy of the buffer to the dump target. Runs on the
// worker goroutine; the copy keeps the target from observing later mutations.
func (s *Spool) dumpBuffer(ctx context.Context) error {
	snapshot := make([]domain.Entry, len(s.buf))
	copy(snapshot, s.buf)

	if err := s.dump.Dump(ctx, snapshot); err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}

	s.mu.Lock()
	s.dumps++
	s.mu.Unlock()

	s.logger.Debug("dumped buffer", "entries", len(snapshot))
	return nil
}
