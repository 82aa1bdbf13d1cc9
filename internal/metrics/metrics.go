// Package metrics holds the Prometheus instruments for the HTTP surface and
// the rule engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts finished HTTP requests by route, method and status
	// class.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portops",
			Name:      "http_requests_total",
			Help:      "Finished HTTP requests.",
		},
		[]string{"route", "method", "status"},
	)

	// RequestDuration observes request latency per route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portops",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ConflictsTotal counts rejected operations by rule.
	ConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portops",
			Name:      "rule_conflicts_total",
			Help:      "Operations rejected by a consistency rule.",
		},
		[]string{"rule"},
	)

	// LockWaitsTotal counts lock acquisitions that timed out busy.
	LockWaitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "portops",
			Name:      "lock_busy_total",
			Help:      "Lock acquisitions that failed busy.",
		},
	)
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
