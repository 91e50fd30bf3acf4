// Package worker implements the fetch-and-match execution loop.
package worker

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/metrics"
	"github.com/probeworks/aemscan/internal/probe"
)

// Worker pulls jobs from the queue, probes each target with its own HTTP
// client, and reports the first pattern match to the sink. It terminates
// only when the queue is closed and drained or the context ends.
type Worker struct {
	queue   probe.Queue
	fetcher probe.Fetcher
	sink    probe.Sink
	logger  *zap.Logger
}

// New constructs a Worker.
func New(queue probe.Queue, fetcher probe.Fetcher, sink probe.Sink, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		queue:   queue,
		fetcher: fetcher,
		sink:    sink,
		logger:  logger,
	}
}

// Run blocks, consuming jobs until the queue reports closed-and-drained or
// the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, probe.ErrQueueClosed) || ctx.Err() != nil {
				return
			}
			w.logger.Error("dequeue failed", zap.Error(err))
			continue
		}
		w.processJob(ctx, job)
	}
}

// processJob issues one GET per pattern and stops at the first match.
// Every per-target failure skips just that pattern; nothing in here may
// abort the worker or end the pipeline.
func (w *Worker) processJob(ctx context.Context, job probe.Job) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	fetched := false
	for _, pattern := range job.Patterns.Patterns() {
		body, err := w.fetcher.Fetch(ctx, job.Target)
		if err != nil {
			metrics.ObserveFetchError(classifyFetchError(err))
			w.logger.Debug("fetch failed",
				zap.String("target", job.Target),
				zap.String("pattern", pattern.Name),
				zap.Error(err),
			)
			continue
		}
		fetched = true

		if !pattern.Match(body) {
			continue
		}

		metrics.ObserveTarget(metrics.OutcomeMatched)
		result := probe.JobResult{
			Target:    job.Target,
			Pattern:   pattern.Name,
			MatchedAt: time.Now().UTC(),
		}
		if err := w.sink.Accept(ctx, result); err != nil {
			w.logger.Warn("sink rejected result",
				zap.String("target", job.Target),
				zap.Error(err),
			)
		}
		return
	}

	if fetched {
		metrics.ObserveTarget(metrics.OutcomeUnmatched)
	} else {
		metrics.ObserveTarget(metrics.OutcomeUnreachable)
	}
}

func classifyFetchError(err error) string {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "transport"
	}
}
