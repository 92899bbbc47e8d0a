// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Requests (counter). Labels: method, endpoint, status_code
  - api_request_duration_seconds: Latency (histogram). Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter). Labels: endpoint

Model Metrics:
  - model_build_duration_seconds: Full pipeline build time (histogram)
  - model_builds_total: Build attempts (counter). Labels: result
  - model_loads_total: Successful loads (counter). Labels: source (cache, build)
  - model_items: Movies in the current model (gauge)
  - model_vocabulary_size: Terms in the fitted vocabulary (gauge)
  - model_artifact_errors_total: Unreadable artifacts (counter). Labels: backend

Recommendation Metrics:
  - recommendations_total: Resolved queries (counter). Labels: path (known, fallback)
  - recommendation_failures_total: Failed queries (counter). Labels: kind

Dataset Metrics:
  - dataset_load_duration_seconds: DuckDB load time (histogram)
  - dataset_records: Rows in the last load (gauge)

Cache and Circuit Breaker Metrics:
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total. Labels: cache_type
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open. Labels: name
  - circuit_breaker_requests_total. Labels: name, result
  - circuit_breaker_state_transitions_total. Labels: name, from_state, to_state

# Usage

	start := time.Now()
	// ... handle request ...
	metrics.RecordAPIRequest(r.Method, "/api/recommend", "200", time.Since(start))

	metrics.RecordModelBuild(elapsed, err)
	metrics.RecordRecommendation("fallback")

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
