// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/validation"
)

// Error codes.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = validation.ErrorCode
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeModelUnavailable = "MODEL_UNAVAILABLE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// MoviesResponse is the body of GET /api/movies.
type MoviesResponse struct {
	Count  int      `json:"count"`
	Movies []string `json:"movies"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// statusForKind maps a failure kind to an HTTP status and error code.
// Only invalid input is the client's fault.
func statusForKind(kind recommend.ErrorKind) (int, string) {
	switch kind {
	case recommend.KindInvalidInput:
		return http.StatusBadRequest, ErrCodeValidation
	case recommend.KindModelUnavailable, recommend.KindModelBuild, recommend.KindEmptyCorpus:
		return http.StatusInternalServerError, ErrCodeModelUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
