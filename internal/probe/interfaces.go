package probe

import (
	"context"
	"errors"
)

// ErrQueueClosed is returned by queue operations once the producer has
// closed the queue and, for Dequeue, the buffer is drained.
var ErrQueueClosed = errors.New("job queue closed")

// Queue carries jobs from the dispatcher to the worker pool. Delivery is
// exactly-once per job under concurrent receivers; it is not a broadcast.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (Job, error)
	Close()
}

// Sink consumes match results. Implementations must be safe for concurrent
// use by multiple workers and must not block a worker indefinitely.
type Sink interface {
	Accept(ctx context.Context, result JobResult) error
	Close(ctx context.Context) error
}

// Fetcher retrieves a response body for a target URL.
type Fetcher interface {
	Fetch(ctx context.Context, target string) ([]byte, error)
}

// Normalizer turns a raw input line into a canonical scheme://host target,
// or reports the line as unusable so the dispatcher can skip it.
type Normalizer func(raw string) (string, error)
