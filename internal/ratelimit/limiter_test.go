package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLimiterPacesAdmissions(t *testing.T) {
	t.Parallel()

	// 10 admissions/sec means roughly 100ms between tokens once the
	// initial burst is spent.
	l := New(10, zap.NewNop())
	ctx := context.Background()

	// Drain the initial bucket.
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(ctx))
	}

	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	require.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond,
		"expected the post-burst admission to wait for a refill")
}

func TestLimiterFirstAdmissionIsImmediate(t *testing.T) {
	t.Parallel()

	l := New(1, zap.NewNop())
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiterRejectsInvalidRate(t *testing.T) {
	t.Parallel()

	for _, bad := range []int{0, -5} {
		l := New(bad, zap.NewNop())
		require.Equal(t, DefaultRate, l.Rate(),
			"rate %d must fall back to the default, not become a no-op", bad)
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	t.Parallel()

	l := New(1, zap.NewNop())
	require.NoError(t, l.Wait(context.Background())) // spend the only token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx)
	require.Error(t, err, "a 20ms deadline cannot cover a ~1s refill")
	require.Contains(t, err.Error(), "rate limit wait")
}
