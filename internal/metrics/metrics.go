package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "dxadmin"
)

var (
	sweepDurationBuckets = []float64{1, 2, 5, 10, 30, 60, 120, 300, 600, 1200}

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Count of DNAnexus API requests by method and HTTP status.",
	}, []string{"method", "status"})

	// Sweep Metrics
	SweepProjectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_projects_total",
		Help:      "Projects seen by the invitation sweep, by outcome.",
	}, []string{"level", "outcome"})

	SweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Time taken for an invitation sweep to complete.",
		Buckets:   sweepDurationBuckets,
	}, []string{"status"})

	SweepLastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sweep_last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful invitation sweep.",
	})

	// Transfer Metrics
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transfers_total",
		Help:      "Pending project transfers seen, by outcome.",
	}, []string{"outcome"})
)

// Sweep and transfer outcomes.
const (
	OutcomeInvited  = "invited"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomeAccepted = "accepted"
)
