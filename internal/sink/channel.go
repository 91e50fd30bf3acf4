package sink

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/metrics"
	"github.com/probeworks/aemscan/internal/probe"
)

const defaultChannelCapacity = 256

// ChannelSink forwards results into a bounded channel for downstream
// consumers. Delivery is best-effort: when the buffer is full the result
// is counted as dropped instead of blocking the worker.
type ChannelSink struct {
	ch     chan probe.JobResult
	logger *zap.Logger

	closeOnce sync.Once
}

// NewChannelSink constructs a ChannelSink with the given buffer capacity.
func NewChannelSink(capacity int, logger *zap.Logger) *ChannelSink {
	if capacity <= 0 {
		capacity = defaultChannelCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelSink{
		ch:     make(chan probe.JobResult, capacity),
		logger: logger,
	}
}

// Results exposes the receive side of the sink.
func (s *ChannelSink) Results() <-chan probe.JobResult {
	return s.ch
}

// Accept forwards the result without blocking; a full buffer drops it.
func (s *ChannelSink) Accept(_ context.Context, result probe.JobResult) error {
	select {
	case s.ch <- result:
	default:
		metrics.IncResultsDropped()
		s.logger.Warn("result dropped, sink buffer full",
			zap.String("target", result.Target),
		)
	}
	return nil
}

// Close closes the result channel so consumers can range to completion.
func (s *ChannelSink) Close(context.Context) error {
	s.closeOnce.Do(func() { close(s.ch) })
	return nil
}
