// Package ratelimit gates job admission with a global token bucket.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/probeworks/aemscan/internal/metrics"
)

// DefaultRate is the admissions-per-second ceiling applied when the
// configured rate is unusable.
const DefaultRate = 1000

// Limiter admits at most a fixed number of jobs per second. The bucket
// holds one second's worth of tokens, so a fresh limiter can burst up to
// the ceiling before continuous refill pacing takes over.
type Limiter struct {
	bucket *rate.Limiter
	rps    int
}

// New constructs a Limiter. A rate of zero or less is a misconfiguration;
// it is replaced by DefaultRate with a warning rather than silently
// becoming an unlimited (or zero-admission) gate.
func New(requestsPerSecond int, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestsPerSecond <= 0 {
		logger.Warn("invalid admission rate, using default",
			zap.Int("requested", requestsPerSecond),
			zap.Int("default", DefaultRate),
		)
		requestsPerSecond = DefaultRate
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		rps:    requestsPerSecond,
	}
}

// Rate reports the effective admissions-per-second ceiling.
func (l *Limiter) Rate() int {
	return l.rps
}

// Wait blocks cooperatively until a token is available, then consumes it.
// It returns early with an error only if the context ends first.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.bucket.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if d := time.Since(start); d > time.Millisecond {
		metrics.ObserveRateLimitDelay(d)
	}
	return nil
}
