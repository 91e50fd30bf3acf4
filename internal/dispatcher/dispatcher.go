// Package dispatcher turns input targets into rate-gated jobs.
package dispatcher

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/metrics"
	"github.com/probeworks/aemscan/internal/probe"
	"github.com/probeworks/aemscan/internal/ratelimit"
)

// Dispatcher is the sole producer on the job queue. It normalizes raw
// lines, dedupes targets, acquires one rate admission per job, and closes
// the queue once input is exhausted. The closed queue is the end-of-work
// signal the worker pool drains against.
type Dispatcher struct {
	queue     probe.Queue
	limiter   *ratelimit.Limiter
	patterns  *probe.PatternSet
	normalize probe.Normalizer
	logger    *zap.Logger
}

// New creates a Dispatcher.
func New(
	queue probe.Queue,
	limiter *ratelimit.Limiter,
	patterns *probe.PatternSet,
	normalize probe.Normalizer,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		queue:     queue,
		limiter:   limiter,
		patterns:  patterns,
		normalize: normalize,
		logger:    logger,
	}
}

// Run consumes lines until the channel closes or ctx ends. Malformed lines
// are skipped with a debug log; duplicate targets are dropped so a run
// never emits more than one line per unique target. A closed queue is
// ordinary completion, not a fault: it means the workers are already gone.
func (d *Dispatcher) Run(ctx context.Context, lines <-chan string) error {
	defer d.queue.Close()

	runID := uuid.New()
	seen := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			target, err := d.normalize(line)
			if err != nil {
				metrics.ObserveTarget(metrics.OutcomeSkipped)
				d.logger.Debug("skipping malformed target",
					zap.String("line", line),
					zap.Error(err),
				)
				continue
			}
			if _, dup := seen[target]; dup {
				d.logger.Debug("skipping duplicate target", zap.String("target", target))
				continue
			}
			seen[target] = struct{}{}

			if err := d.limiter.Wait(ctx); err != nil {
				return err
			}

			job := probe.Job{RunID: runID, Target: target, Patterns: d.patterns}
			if err := d.queue.Enqueue(ctx, job); err != nil {
				if errors.Is(err, probe.ErrQueueClosed) {
					return nil
				}
				return err
			}
		}
	}
}
