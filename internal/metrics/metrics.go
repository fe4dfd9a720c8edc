// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package metrics defines the Prometheus metrics exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Suggestion Pipeline Metrics
	SuggestRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggest_requests_total",
			Help: "Suggestion requests by outcome (ok, unauthenticated, failed-precondition, invalid-argument, internal)",
		},
		[]string{"outcome"},
	)

	SuggestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggest_duration_seconds",
			Help:    "End-to-end suggestion pipeline duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	SuggestionsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestions_returned",
			Help:    "Number of suggestions returned per successful request",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	CandidatesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggest_candidates_total",
			Help: "Fetched candidates by filter result (kept, dropped)",
		},
		[]string{"result"},
	)

	// Places API Metrics
	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "places_request_duration_seconds",
			Help:    "Places nearby-search duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_requests_total",
			Help: "Places nearby-search requests by mode and result",
		},
		[]string{"mode", "result"},
	)

	PlacesResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "places_results",
			Help:    "Number of candidates returned per nearby search",
			Buckets: []float64{0, 1, 5, 10, 15, 20, 40, 60},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Persistence Metrics
	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_cache_writes_total",
			Help: "Candidate cache upserts by result",
		},
		[]string{"result"},
	)

	HistoryBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_batches_total",
			Help: "History batches by stage (enqueue, persist) and result",
		},
		[]string{"stage", "result"},
	)

	HistoryRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_records_persisted_total",
			Help: "History records written to the store",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSuggest records the outcome of one suggestion request.
func RecordSuggest(outcome string, duration time.Duration, returned int) {
	SuggestRequests.WithLabelValues(outcome).Inc()
	SuggestDuration.Observe(duration.Seconds())
	if outcome == "ok" {
		SuggestionsReturned.Observe(float64(returned))
	}
}

// RecordCandidates records how many fetched candidates were kept and dropped.
func RecordCandidates(kept, dropped int) {
	CandidatesFiltered.WithLabelValues("kept").Add(float64(kept))
	CandidatesFiltered.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordPlacesRequest records one nearby-search call.
func RecordPlacesRequest(mode string, duration time.Duration, results int, err error) {
	PlacesRequestDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if err != nil {
		PlacesRequests.WithLabelValues(mode, "error").Inc()
		return
	}
	PlacesRequests.WithLabelValues(mode, "success").Inc()
	PlacesResults.Observe(float64(results))
}

// RecordCacheWrite records one candidate cache upsert.
func RecordCacheWrite(err error) {
	CacheWrites.WithLabelValues(resultLabel(err)).Inc()
}

// RecordHistoryBatch records a history batch at the given stage.
func RecordHistoryBatch(stage string, records int, err error) {
	HistoryBatches.WithLabelValues(stage, resultLabel(err)).Inc()
	if stage == "persist" && err == nil {
		HistoryRecords.Add(float64(records))
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
