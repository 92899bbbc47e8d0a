// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Model states reported by /api/status.
const (
	StateReady       = "ready"
	StateLoading     = "loading"
	StateUnavailable = "unavailable"
	StateIdle        = "idle"
)

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status        string                     `json:"status"`
	Version       string                     `json:"version"`
	UptimeSeconds float64                    `json:"uptime_seconds"`
	Model         recommend.BuildStatus      `json:"model"`
	ResponseCache cache.Stats                `json:"response_cache"`
	Endpoints     []middleware.EndpointStats `json:"endpoints"`
}

// Health handles GET /api/health. It reports liveness only, so it stays 200
// while the model is still loading.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	model := h.rec.Status()
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:        modelState(model),
		Version:       h.appVersion,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Model:         model,
		ResponseCache: h.responses.Stats(),
		Endpoints:     h.perf.Stats(),
	})
}

func modelState(s recommend.BuildStatus) string {
	switch {
	case s.Ready:
		return StateReady
	case s.Building:
		return StateLoading
	case s.LastError != "":
		return StateUnavailable
	default:
		return StateIdle
	}
}
