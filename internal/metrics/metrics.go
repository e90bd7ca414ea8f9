// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

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

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// CRM API Metrics
	CRMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_requests_total",
			Help: "Total number of CRM API calls by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: success, not_found, upstream_error
	)

	CRMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_request_duration_seconds",
			Help:    "CRM API call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	CRMLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_login_attempts_total",
			Help: "Total number of CRM login attempts",
		},
		[]string{"result"}, // success, auth_failed, upstream_error
	)

	// Describe Cache Metrics
	DescribeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "describe_cache_hits_total",
			Help: "Total number of describe cache hits",
		},
	)

	DescribeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "describe_cache_misses_total",
			Help: "Total number of describe cache misses",
		},
	)

	DescribeCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "describe_cache_entries",
			Help: "Current number of cached describe results",
		},
	)

	DescribeCacheHitRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "describe_cache_hit_rate_percent",
			Help: "Describe cache hits as a percentage of lookups since start",
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
		[]string{"name", "result"}, // result: "success", "ignored", "failure", "rejected"
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

	// ERD Generation Metrics
	ERDGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "erd_generation_duration_seconds",
			Help:    "Duration of ERD generation calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ERDGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erd_generations_total",
			Help: "Total number of ERD generation calls by result",
		},
		[]string{"result"}, // success, invalid_argument, schema_lookup_failed, upstream_unavailable
	)

	ERDObjectsPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "erd_objects_per_document",
			Help:    "Number of objects in generated ERD documents",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	ERDRelationshipsPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "erd_relationships_per_document",
			Help:    "Number of relationship edges in generated ERD documents",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	ERDObjectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erd_object_failures_total",
			Help: "Objects that failed to describe during best-effort generation",
		},
		[]string{"kind"},
	)

	// Session Metrics
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total number of CRM sessions created",
		},
	)

	SessionsExpiredCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_cleaned_total",
			Help: "Total number of expired sessions removed by the janitor",
		},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCRMRequest records one CRM API call.
func RecordCRMRequest(operation, outcome string, duration time.Duration) {
	CRMRequestsTotal.WithLabelValues(operation, outcome).Inc()
	CRMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordLoginAttempt records a CRM login attempt result.
func RecordLoginAttempt(result string) {
	CRMLoginAttempts.WithLabelValues(result).Inc()
}

// RecordDescribeCache records a describe cache lookup.
func RecordDescribeCache(hit bool) {
	if hit {
		DescribeCacheHits.Inc()
	} else {
		DescribeCacheMisses.Inc()
	}
}

// RecordDescribeCacheStats publishes a describe cache snapshot.
func RecordDescribeCacheStats(size int, hitRate float64) {
	DescribeCacheSize.Set(float64(size))
	DescribeCacheHitRate.Set(hitRate)
}

// RecordERDGeneration records the outcome of one ERD generation call.
// result is "success" or the error kind label.
func RecordERDGeneration(result string, duration time.Duration, objects, relationships int) {
	ERDGenerationsTotal.WithLabelValues(result).Inc()
	ERDGenerationDuration.Observe(duration.Seconds())
	if result == "success" {
		ERDObjectsPerDocument.Observe(float64(objects))
		ERDRelationshipsPerDocument.Observe(float64(relationships))
	}
}

// RecordERDObjectFailure records an object skipped in best-effort mode.
func RecordERDObjectFailure(kind string) {
	ERDObjectFailures.WithLabelValues(kind).Inc()
}
