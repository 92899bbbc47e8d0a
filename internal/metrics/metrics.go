// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

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
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
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

	// Model Metrics
	ModelBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_build_duration_seconds",
			Help:    "Duration of full model builds (vectorize, similarity, index) in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	ModelBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_builds_total",
			Help: "Total number of model build attempts",
		},
		[]string{"result"}, // "success", "failure", "empty_corpus"
	)

	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of successful model loads",
		},
		[]string{"source"}, // "cache", "build"
	)

	ModelItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_items",
			Help: "Number of movies in the current model",
		},
	)

	ModelVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_vocabulary_size",
			Help: "Number of terms in the current model vocabulary",
		},
	)

	ModelArtifactErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_artifact_errors_total",
			Help: "Total number of unreadable or corrupt model artifact sets",
		},
		[]string{"backend"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of resolved recommendation queries",
		},
		[]string{"path"}, // "known", "fallback"
	)

	RecommendationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_failures_total",
			Help: "Total number of failed recommendation queries",
		},
		[]string{"kind"},
	)

	// Dataset Metrics
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Duration of dataset loads through DuckDB in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Number of records returned by the last dataset load",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (capacity or TTL)",
		},
		[]string{"cache_type"},
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

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
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

// RecordModelBuild records one build attempt. result is "success",
// "failure" or "empty_corpus".
func RecordModelBuild(duration time.Duration, result string) {
	ModelBuildsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		ModelBuildDuration.Observe(duration.Seconds())
	}
}

// RecordModelLoad records a model becoming current.
func RecordModelLoad(source string, items, vocabulary int) {
	ModelLoadsTotal.WithLabelValues(source).Inc()
	ModelItems.Set(float64(items))
	ModelVocabularySize.Set(float64(vocabulary))
}

// RecordArtifactError records an unreadable artifact set.
func RecordArtifactError(backend string) {
	ModelArtifactErrors.WithLabelValues(backend).Inc()
}

// RecordRecommendation records a resolved query by path.
func RecordRecommendation(path string) {
	RecommendationsTotal.WithLabelValues(path).Inc()
}

// RecordRecommendationFailure records a failed query by error kind.
func RecordRecommendationFailure(kind string) {
	RecommendationFailures.WithLabelValues(kind).Inc()
}

// RecordDatasetLoad records a dataset load.
func RecordDatasetLoad(duration time.Duration, records int) {
	DatasetLoadDuration.Observe(duration.Seconds())
	DatasetRecords.Set(float64(records))
}

// RecordCacheLookup records a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}
