// Package memory provides the in-process job queue backing the pipeline.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/probeworks/aemscan/internal/probe"
)

// Queue is a bounded single-producer multi-consumer queue of jobs. The
// underlying channel guarantees exactly-once delivery under concurrent
// receivers. The dispatcher is the sole producer and the sole caller of
// Close; closing is the end-of-input signal workers drain against.
type Queue struct {
	ch      chan probe.Job
	closeMu sync.Mutex
	closed  bool
}

// NewQueue constructs a queue with the provided buffer capacity.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{ch: make(chan probe.Job, capacity)}
}

// Enqueue pushes a job into the queue or returns when the context ends.
// Enqueueing after Close returns probe.ErrQueueClosed; because the
// producer and the closer are the same goroutine, the closed check and the
// send cannot race.
func (q *Queue) Enqueue(ctx context.Context, job probe.Job) error {
	q.closeMu.Lock()
	closed := q.closed
	q.closeMu.Unlock()
	if closed {
		return probe.ErrQueueClosed
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("enqueue canceled: %w", ctx.Err())
	case q.ch <- job:
		return nil
	}
}

// Dequeue pops the next job, respecting context cancellation. Once the
// producer has closed the queue and the buffer is drained it returns
// probe.ErrQueueClosed.
func (q *Queue) Dequeue(ctx context.Context) (probe.Job, error) {
	select {
	case <-ctx.Done():
		return probe.Job{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case job, ok := <-q.ch:
		if !ok {
			return probe.Job{}, probe.ErrQueueClosed
		}
		return job, nil
	}
}

// Close marks the end of input. Safe to call more than once.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}
