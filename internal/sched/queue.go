package sched

import (
	"container/heap"
	"time"
)

// pending is a task waiting in the queue. effective starts equal to the
// task's own priority and may be raised by starvation escalation.
type pending struct {
	task       Task
	effective  Priority
	seq        uint64
	enqueuedAt time.Time
	index      int
}

// pendingQueue is a max-heap of pending tasks ordered by effective priority,
// with ties broken by submission order so scheduling within a level stays
// first-in-first-out.
type pendingQueue struct {
	items []*pending
}

var _ heap.Interface = (*pendingQueue)(nil)

func (q *pendingQueue) Len() int { return len(q.items) }

func (q *pendingQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.effective != b.effective {
		return a.effective > b.effective
	}
	return a.seq < b.seq
}

func (q *pendingQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *pendingQueue) Push(x any) {
	p := x.(*pending)
	p.index = len(q.items)
	q.items = append(q.items, p)
}

func (q *pendingQueue) Pop() any {
	old := q.items
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	p.index = -1
	q.items = old[:n-1]
	return p
}

// push adds a pending task, maintaining heap order.
func (q *pendingQueue) push(p *pending) {
	heap.Push(q, p)
}

// pop removes and returns the most urgent pending task, or nil when empty.
func (q *pendingQueue) pop() *pending {
	if len(q.items) == 0 {
		return nil
	}
	return heap.Pop(q).(*pending)
}

// escalate promotes every task that has waited longer than after by one
// priority level, up to Critical, and returns how many were promoted.
// Promotion keeps the original seq, so a promoted task still queues behind
// tasks that were already at the higher level.
func (q *pendingQueue) escalate(now time.Time, after time.Duration) int {
	if after <= 0 {
		return 0
	}

	promoted := 0
	for _, p := range q.items {
		if p.effective >= PriorityCritical {
			continue
		}
		if now.Sub(p.enqueuedAt) >= after {
			p.effective++
			// Waiting time restarts at the new level; a task climbs one
			// level per escalation period, not all at once.
			p.enqueuedAt = now
			promoted++
		}
	}

	if promoted > 0 {
		heap.Init(q)
	}
	return promoted
}
