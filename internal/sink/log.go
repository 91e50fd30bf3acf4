package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/probe"
)

// LogSink emits a structured log line per result. Useful in verbose runs
// or when stdout is redirected and an audit trail is still wanted.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Accept logs the match with structured fields.
func (s *LogSink) Accept(_ context.Context, result probe.JobResult) error {
	s.logger.Info("target matched",
		zap.String("target", result.Target),
		zap.String("pattern", result.Pattern),
		zap.Time("matched_at", result.MatchedAt),
	)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
