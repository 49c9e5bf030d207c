package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Config holds configuration for the worker.
type Config struct {
	// QueueCapacity bounds the pending set. Submitting past it returns
	// ErrQueueFull. If zero or negative, defaults to 1024.
	QueueCapacity int

	// EscalationAfter promotes a pending task one priority level after it
	// has waited this long, so sustained high-priority load cannot starve
	// lower tiers indefinitely. Zero disables escalation.
	EscalationAfter time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		QueueCapacity:   1024,
		EscalationAfter: 0,
	}
}

// Stats is a snapshot of worker counters.
type Stats struct {
	Pending   int    `json:"pending"`
	Executed  uint64 `json:"executed"`
	Failed    uint64 `json:"failed"`
	Panicked  uint64 `json:"panicked"`
	Escalated uint64 `json:"escalated"`
}

// Worker executes submitted tasks one at a time on a single dedicated
// goroutine. Between executions it selects the highest-priority pending
// task; a running task is never preempted. All tasks are therefore mutually
// exclusive: state touched only from task functions needs no locking.
type Worker struct {
	mu      sync.Mutex
	queue   pendingQueue
	seq     uint64
	stopped bool

	capacity        int
	escalationAfter time.Duration

	// wake nudges the run loop when work arrives or Stop is requested.
	wake chan struct{}
	done chan struct{}

	logger     *slog.Logger
	errHandler func(task Task, err error)

	executed  uint64
	failed    uint64
	panicked  uint64
	escalated uint64

	// now is injectable for escalation tests.
	now func() time.Time
}

// New creates a worker and starts its dedicated goroutine.
func New(cfg Config, logger *slog.Logger) *Worker {
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = DefaultConfig().QueueCapacity
		logger.Warn("invalid queue capacity specified, using default",
			"specified_capacity", cfg.QueueCapacity,
			"default_capacity", capacity)
	}

	w := &Worker{
		capacity:        capacity,
		escalationAfter: cfg.EscalationAfter,
		wake:            make(chan struct{}, 1),
		done:            make(chan struct{}),
		logger:          logger,
		now:             time.Now,
	}
	w.errHandler = func(task Task, err error) {
		logger.Error("task execution failed",
			"task_id", task.ID,
			"task_kind", task.Kind,
			"priority", task.Priority.String(),
			"error", err)
	}

	go w.run()

	return w
}

// SetErrorHandler replaces the handler invoked when a task returns an error
// or panics. The default handler logs the failure.
func (w *Worker) SetErrorHandler(handler func(task Task, err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errHandler = handler
}

// Submit adds a task to the pending set. It returns ErrStopped after Stop,
// ErrQueueFull when the pending set is at capacity, and validation errors
// for malformed tasks. Submit never blocks.
func (w *Worker) Submit(task Task) error {
	if task.Run == nil {
		return ErrNilFunc
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, int(task.Priority))
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	if w.queue.Len() >= w.capacity {
		w.mu.Unlock()
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, w.capacity)
	}

	w.seq++
	w.queue.push(&pending{
		task:       task,
		effective:  task.Priority,
		seq:        w.seq,
		enqueuedAt: w.now(),
	})
	queueLen := w.queue.Len()
	w.mu.Unlock()

	w.logger.Debug("task submitted",
		"task_id", task.ID,
		"task_kind", task.Kind,
		"priority", task.Priority.String(),
		"queue_len", queueLen)

	w.signal()
	return nil
}

// Go is a convenience wrapper that builds a task from kind, priority, and fn
// and submits it.
func (w *Worker) Go(kind string, priority Priority, fn Fn) error {
	return w.Submit(NewTask(kind, priority, fn))
}

// WaitIdle blocks until every task pending at the time of the call has
// completed. It works by submitting a low-priority barrier task: once the
// barrier runs, everything that was queued ahead of it has finished. Tasks
// submitted after WaitIdle may or may not be included, depending on their
// priority.
func (w *Worker) WaitIdle(ctx context.Context) error {
	barrier := make(chan struct{})

	err := w.Go("barrier", PriorityLow, func(ctx context.Context) error {
		close(barrier)
		return nil
	})
	if err != nil {
		return err
	}

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of the worker's counters.
func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		Pending:   w.queue.Len(),
		Executed:  w.executed,
		Failed:    w.failed,
		Panicked:  w.panicked,
		Escalated: w.escalated,
	}
}

// Stop drains the pending set (in priority order) and terminates the worker
// goroutine. Tasks submitted after Stop are rejected with ErrStopped. Stop
// returns once the worker has exited or ctx is done, whichever comes first;
// the currently running task is never interrupted.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	already := w.stopped
	w.stopped = true
	w.mu.Unlock()

	if !already {
		w.signal()
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// signal nudges the run loop without blocking.
func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// run is the worker loop. It owns the dequeue-execute cycle: pick the most
// urgent pending task, run it to completion, reconsider the pending set.
func (w *Worker) run() {
	defer close(w.done)

	for {
		w.mu.Lock()

		if w.escalationAfter > 0 {
			if promoted := w.queue.escalate(w.now(), w.escalationAfter); promoted > 0 {
				w.escalated += uint64(promoted)
				w.logger.Debug("escalated starved tasks", "count", promoted)
			}
		}

		next := w.queue.pop()
		stopped := w.stopped
		w.mu.Unlock()

		if next != nil {
			w.execute(next)
			continue
		}

		if stopped {
			return
		}

		if w.escalationAfter > 0 {
			// Re-check periodically so waiting tasks age even while no new
			// submissions arrive to wake the loop.
			select {
			case <-w.wake:
			case <-time.After(w.escalationAfter):
			}
		} else {
			<-w.wake
		}
	}
}

// execute runs a single task, recovering panics so a misbehaving task cannot
// kill the worker goroutine.
func (w *Worker) execute(p *pending) {
	task := p.task
	log := w.logger.With(
		"task_id", task.ID,
		"task_kind", task.Kind,
		"priority", task.Priority.String(),
	)

	start := w.now()
	waited := start.Sub(p.enqueuedAt)

	err := w.runGuarded(task)

	w.mu.Lock()
	w.executed++
	if err != nil {
		w.failed++
	}
	handler := w.errHandler
	w.mu.Unlock()

	if err != nil {
		if handler != nil {
			handler(task, err)
		}
		return
	}

	log.Debug("task completed",
		"waited", waited.String(),
		"duration", w.now().Sub(start).String())
}

// runGuarded invokes the task function, converting panics into errors.
func (w *Worker) runGuarded(task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			w.mu.Lock()
			w.panicked++
			w.mu.Unlock()
			err = fmt.Errorf("task %s panicked: %v", task.Kind, rec)
		}
	}()

	return task.Run(context.Background())
}
