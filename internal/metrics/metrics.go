// Package metrics holds the Prometheus instruments for the verification pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verifact_verdicts_total",
			Help: "Total number of verdicts produced, by status",
		},
		[]string{"status"},
	)

	VerificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verifact_verification_failures_total",
			Help: "Claims degraded to Unverifiable by an internal failure, by stage",
		},
		[]string{"stage"}, // search, judgment, parse, panic, cancelled
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verifact_gateway_request_duration_seconds",
			Help:    "Duration of search and judgment provider calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"gateway", "provider"},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "verifact_batch_duration_seconds",
			Help:    "Duration of a full document verification batch",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	ClaimsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "verifact_claims_in_flight",
			Help: "Claims currently being verified",
		},
	)

	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verifact_search_cache_hits_total",
			Help: "Search queries answered from the in-process cache",
		},
	)
)
