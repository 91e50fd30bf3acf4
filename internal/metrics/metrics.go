// Package metrics exposes Prometheus collectors for the scan pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Target outcome labels recorded by ObserveTarget.
const (
	OutcomeMatched     = "matched"
	OutcomeUnmatched   = "unmatched"
	OutcomeUnreachable = "unreachable"
	OutcomeSkipped     = "skipped"
)

var (
	probeTargetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probe_targets_total",
			Help: "Total number of targets processed, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	probeFetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probe_fetch_errors_total",
			Help: "Total number of failed fetch attempts, labeled by reason.",
		},
		[]string{"reason"},
	)

	probeActiveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "probe_active_workers",
			Help: "Number of workers currently processing a job.",
		},
	)

	probeRateLimitDelaySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "probe_rate_limit_delay_seconds",
			Help:    "Histogram of admission wait durations at the rate gate.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	probeResultsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "probe_results_dropped_total",
			Help: "Total number of results dropped because a sink was full.",
		},
	)
)

// ObserveTarget increments the target counter for the given outcome.
func ObserveTarget(outcome string) {
	probeTargetsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchError increments the fetch error counter for the given reason.
func ObserveFetchError(reason string) {
	probeFetchErrorsTotal.WithLabelValues(reason).Inc()
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	probeActiveWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	probeActiveWorkers.Dec()
}

// ObserveRateLimitDelay records how long an admission waited at the gate.
func ObserveRateLimitDelay(d time.Duration) {
	probeRateLimitDelaySeconds.Observe(d.Seconds())
}

// IncResultsDropped counts a result lost to a full sink.
func IncResultsDropped() {
	probeResultsDroppedTotal.Inc()
}

// Handler returns an http.Handler exposing the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
