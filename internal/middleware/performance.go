// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string
	Method     string
	DurationMS int64
	Status     int
	Timestamp  time.Time
}

// EndpointStats aggregates the retained samples of one route.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        int64   `json:"p50_ms"`
	P95MS        int64   `json:"p95_ms"`
	P99MS        int64   `json:"p99_ms"`
	MaxMS        int64   `json:"max_ms"`
}

// PerformanceMonitor keeps a bounded window of recent request samples.
type PerformanceMonitor struct {
	mu         sync.RWMutex
	samples    []RequestSample
	next       int
	full       bool
	slowAfter  time.Duration
	maxSamples int
}

// NewPerformanceMonitor retains up to maxSamples requests and warns about
// any request slower than slowAfter. Zero slowAfter disables the warning.
func NewPerformanceMonitor(maxSamples int, slowAfter time.Duration) *PerformanceMonitor {
	if maxSamples <= 0 {
		maxSamples = 1000
	}
	return &PerformanceMonitor{
		samples:    make([]RequestSample, maxSamples),
		maxSamples: maxSamples,
		slowAfter:  slowAfter,
	}
}

// Record adds a sample, overwriting the oldest when the window is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	pm.samples[pm.next] = s
	pm.next = (pm.next + 1) % pm.maxSamples
	if pm.next == 0 {
		pm.full = true
	}
	pm.mu.Unlock()
}

// Stats returns per-endpoint statistics, busiest first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	n := pm.next
	if pm.full {
		n = pm.maxSamples
	}
	byEndpoint := make(map[string][]int64)
	for _, s := range pm.samples[:n] {
		key := s.Method + " " + s.Route
		byEndpoint[key] = append(byEndpoint[key], s.DurationMS)
	}
	pm.mu.RUnlock()

	stats := make([]EndpointStats, 0, len(byEndpoint))
	for endpoint, durations := range byEndpoint {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		var sum int64
		for _, d := range durations {
			sum += d
		}
		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(durations)),
			AvgMS:        float64(sum) / float64(len(durations)),
			P50MS:        percentile(durations, 0.50),
			P95MS:        percentile(durations, 0.95),
			P99MS:        percentile(durations, 0.99),
			MaxMS:        durations[len(durations)-1],
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// Middleware samples every request passing through it.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)
		elapsed := time.Since(start)

		route := RoutePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			Status:     sw.status,
			Timestamp:  start,
		})

		if pm.slowAfter > 0 && elapsed > pm.slowAfter {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Int("status", sw.status).
				Dur("duration", elapsed).
				Msg("Slow request")
		}
	})
}

func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
