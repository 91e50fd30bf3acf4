package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveTargetCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(probeTargetsTotal.WithLabelValues(OutcomeMatched))
	ObserveTarget(OutcomeMatched)
	after := testutil.ToFloat64(probeTargetsTotal.WithLabelValues(OutcomeMatched))
	require.Equal(t, before+1, after)
}

func TestActiveWorkersGauge(t *testing.T) {
	before := testutil.ToFloat64(probeActiveWorkers)
	IncActiveWorkers()
	require.Equal(t, before+1, testutil.ToFloat64(probeActiveWorkers))
	DecActiveWorkers()
	require.Equal(t, before, testutil.ToFloat64(probeActiveWorkers))
}

func TestObserveRateLimitDelay(t *testing.T) {
	require.NotPanics(t, func() {
		ObserveRateLimitDelay(250 * time.Millisecond)
	})
}

func TestServerServesMetricsAndHealth(t *testing.T) {
	srv := NewServer("127.0.0.1:0")
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	ObserveFetchError("timeout")
	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}
