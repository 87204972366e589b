package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	apiRequestsTotal        *prometheus.CounterVec
	apiLatencySeconds       *prometheus.HistogramVec
	reviewSubmissionsTotal  *prometheus.CounterVec
	reviewLevelUpsTotal     prometheus.Counter
	reviewBadgesTotal       prometheus.Counter
	progressionInconsistent prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the review API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "review_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		reviewSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_submissions_total",
			Help: "Review submission attempts by terminal outcome.",
		}, []string{"outcome"})

		reviewLevelUpsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_level_ups_total",
			Help: "Number of reviewer level-ups triggered by submissions.",
		})

		reviewBadgesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_badges_awarded_total",
			Help: "Number of badges awarded to reviewers.",
		})

		progressionInconsistent = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_progression_inconsistencies_total",
			Help: "Reviews persisted whose progression update failed and needs reconciliation.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			reviewSubmissionsTotal,
			reviewLevelUpsTotal,
			reviewBadgesTotal,
			progressionInconsistent,
		)
	})
}

// APIRequests exposes the request counter.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// ReviewSubmissions exposes the submission outcome counter.
func ReviewSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewSubmissionsTotal
}

// ReviewLevelUps exposes the level-up counter.
func ReviewLevelUps() prometheus.Counter {
	RegisterMetrics()
	return reviewLevelUpsTotal
}

// ReviewBadges exposes the badge award counter.
func ReviewBadges() prometheus.Counter {
	RegisterMetrics()
	return reviewBadgesTotal
}

// ProgressionInconsistencies exposes the reconciliation counter.
func ProgressionInconsistencies() prometheus.Counter {
	RegisterMetrics()
	return progressionInconsistent
}
