package sink

import (
	"context"

	"github.com/probeworks/aemscan/internal/probe"
)

// Multi fans each result out to every sink in order. Every sink sees every
// result even when an earlier one errors; the first error is returned.
type Multi []probe.Sink

// Accept forwards the result to all sinks.
func (m Multi) Accept(ctx context.Context, result probe.JobResult) error {
	var firstErr error
	for _, s := range m {
		if err := s.Accept(ctx, result); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes all sinks, returning the first error encountered.
func (m Multi) Close(ctx context.Context) error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
