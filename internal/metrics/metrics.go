// Package metrics holds the Prometheus collectors for the tracker.
// Collectors are registered on the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workout_tracker"

// Classification sources and outcomes used as label values.
const (
	SourceRemote    = "remote"
	SourceHeuristic = "heuristic"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "classifications_total",
			Help:      "Classification attempts by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	RemoteDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "remote_duration_seconds",
			Help:      "Latency of remote classifier calls",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	StateDecodeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "decode_failures_total",
			Help:      "Persisted collections that failed to decode, by storage key",
		},
		[]string{"key"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
)
