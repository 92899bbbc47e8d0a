// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides the net/http middleware wrapped around the API
router. Every function here has the chi signature func(http.Handler)
http.Handler and can be passed to chi.Router.Use.

  - RequestID: accepts or generates X-Request-ID, stores it for logging
  - PrometheusMetrics: request counts, latency and in-flight gauge,
    labelled by chi route pattern so path parameters do not explode
    cardinality
  - Compression: gzip for clients that accept it
  - SecurityHeaders: nosniff, frame denial, referrer policy, HSTS over TLS
  - PerformanceMonitor: rolling latency percentiles per route with slow
    request logging

Order matters. RequestID should run first so later middleware and handlers
log with the request ID:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
