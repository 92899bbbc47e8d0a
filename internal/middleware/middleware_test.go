// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seenLogging, seenChi string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenLogging = GetRequestID(r.Context())
		seenChi = chimiddleware.GetReqID(r.Context())
	}))

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"generated", "", false},
		{"upstream reused", "abc-123", true},
		{"oversized replaced", strings.Repeat("x", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatal("response has no request ID")
			}
			if tt.reuse && got != tt.incoming {
				t.Errorf("request ID = %q, want %q", got, tt.incoming)
			}
			if !tt.reuse && got == tt.incoming {
				t.Errorf("request ID %q should have been replaced", got)
			}
			if seenLogging != got || seenChi != got {
				t.Errorf("context IDs = %q/%q, want %q", seenLogging, seenChi, got)
			}
		})
	}
}

func TestRequestID_AttachesRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Ctx(r.Context()).Info().Msg("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/recommend?movie=rocky", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	req = req.WithContext(logging.ContextWithLogger(req.Context(), logging.NewTestLogger(&buf)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"method":"GET"`, `"path":"/api/recommend"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/metrics-test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics-test/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if d := testutil.ToFloat64(counter) - before; d != 3 {
		t.Errorf("request counter delta = %v, want 3", d)
	}
}

func TestRoutePattern_Unmatched(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := RoutePattern(req); got != unmatchedRoute {
		t.Errorf("RoutePattern() = %q, want %q", got, unmatchedRoute)
	}
}

func TestStatusWriter_FirstStatusWins(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sw := newStatusWriter(rec)
	_, _ = sw.Write([]byte("ok"))
	sw.WriteHeader(http.StatusInternalServerError)
	if sw.status != http.StatusOK {
		t.Errorf("status = %d, want 200 after implicit header", sw.status)
	}
	if sw.Unwrap() != rec {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}

func TestCompression(t *testing.T) {
	t.Parallel()

	body := strings.Repeat(`{"title":"rocky"}`, 100)
	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))

	t.Run("gzip accepted", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
		}
		zr, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("gzip.NewReader: %v", err)
		}
		got, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("read gzip body: %v", err)
		}
		if string(got) != body {
			t.Error("decompressed body differs")
		}
	})

	t.Run("identity", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))
		if rec.Header().Get("Content-Encoding") != "" {
			t.Error("response compressed without Accept-Encoding")
		}
		if rec.Body.String() != body {
			t.Error("body altered")
		}
		if rec.Header().Get("Vary") != "Accept-Encoding" {
			t.Errorf("Vary = %q", rec.Header().Get("Vary"))
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := SecurityHeaders(NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Cache-Control":          "no-store",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing behind https proxy")
	}
}

func TestPerformanceMonitor(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(4, 0)
	for _, d := range []int64{10, 20, 30} {
		pm.Record(RequestSample{Route: "/api/recommend", Method: http.MethodGet, DurationMS: d})
	}
	pm.Record(RequestSample{Route: "/api/movies", Method: http.MethodGet, DurationMS: 5})

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(stats))
	}
	rec := stats[0]
	if rec.Endpoint != "GET /api/recommend" || rec.RequestCount != 3 {
		t.Errorf("busiest = %+v", rec)
	}
	if rec.AvgMS != 20 || rec.P50MS != 20 || rec.MaxMS != 30 {
		t.Errorf("stats = %+v", rec)
	}

	// The window holds four samples, so the next one evicts the oldest.
	pm.Record(RequestSample{Route: "/api/movies", Method: http.MethodGet, DurationMS: 7})
	for _, s := range pm.Stats() {
		if s.RequestCount != 2 {
			t.Errorf("%s count = %d after wrap, want 2", s.Endpoint, s.RequestCount)
		}
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, time.Nanosecond)
	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

	stats := pm.Stats()
	if len(stats) != 1 || stats[0].Endpoint != "GET /slow" {
		t.Errorf("Stats() = %+v", stats)
	}
}
