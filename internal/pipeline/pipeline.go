// Package pipeline wires the dispatcher, worker pool, and sink lifecycle.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/dispatcher"
	"github.com/probeworks/aemscan/internal/fetcher"
	"github.com/probeworks/aemscan/internal/input"
	"github.com/probeworks/aemscan/internal/probe"
	"github.com/probeworks/aemscan/internal/queue/memory"
	"github.com/probeworks/aemscan/internal/ratelimit"
	"github.com/probeworks/aemscan/internal/worker"
)

// Config sizes one scan run.
type Config struct {
	// Concurrency is the worker pool size.
	Concurrency int
	// QueueDepth bounds the job queue buffer; defaults to Concurrency.
	QueueDepth int
	// Rate is the global admission ceiling in requests per second.
	Rate int
	// Timeout applies per HTTP request (connect plus read).
	Timeout time.Duration
	// UserAgent overrides the default browser identity when non-empty.
	UserAgent string
}

// Pipeline owns every moving part of a scan run: one dispatcher feeding a
// bounded queue, a fixed pool of workers each with a private HTTP client,
// and the result sink.
type Pipeline struct {
	dispatcher *dispatcher.Dispatcher
	workers    []*worker.Worker
	sink       probe.Sink
	logger     *zap.Logger
}

// New assembles a Pipeline.
func New(cfg Config, patterns *probe.PatternSet, results probe.Sink, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = cfg.Concurrency
	}

	jobs := memory.NewQueue(cfg.QueueDepth)
	limiter := ratelimit.New(cfg.Rate, logger)
	disp := dispatcher.New(jobs, limiter, patterns, input.NormalizeTarget, logger.Named("dispatcher"))

	workers := make([]*worker.Worker, 0, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		client := fetcher.New(fetcher.Config{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
		workers = append(workers, worker.New(
			jobs,
			client,
			results,
			logger.Named("worker").With(zap.Int("index", i)),
		))
	}

	return &Pipeline{
		dispatcher: disp,
		workers:    workers,
		sink:       results,
		logger:     logger,
	}
}

// Run drives a full scan: the dispatcher feeds the queue from lines while
// the pool drains it. Run returns once every worker has exited, which
// happens when the queue is closed and empty or ctx is canceled; the sink
// is closed last. Context cancellation is treated as a normal early stop.
func (p *Pipeline) Run(ctx context.Context, lines <-chan string) error {
	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(wk *worker.Worker) {
			defer wg.Done()
			wk.Run(ctx)
		}(w)
	}

	dispErr := make(chan error, 1)
	go func() {
		dispErr <- p.dispatcher.Run(ctx, lines)
	}()

	wg.Wait()
	err := <-dispErr

	if cerr := p.sink.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}
