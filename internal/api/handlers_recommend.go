// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/tomtom215/cinematch/internal/logging"
)

// Recommend handles GET /api/recommend?movie=<title>&count=<n>.
//
// Results are cached per model version, lowercased title and count. A
// request that triggers the first model load is answered but not cached,
// since the version it resolved against is only known afterwards.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	req, rerr := parseRecommendRequest(r.URL.Query(), h.defaultCount, h.maxCount)
	if rerr != nil {
		writeError(w, r, http.StatusBadRequest, rerr.code, rerr.message)
		return
	}

	version := h.rec.Version()
	if version != "" {
		if res, ok := h.responses.Get(responseKey(version, req.Movie, req.Count)); ok {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	result := h.rec.Recommend(ctx, req.Movie, req.Count)
	if failure, failed := result.Failure(); failed {
		status, code := statusForKind(failure.Kind)
		logging.Ctx(r.Context()).Warn().
			Err(failure.Err).
			Str("movie", req.Movie).
			Int("count", req.Count).
			Str("kind", failure.Kind.String()).
			Msg("Recommendation failed")
		if status == http.StatusBadRequest {
			writeError(w, r, status, code, failure.Message)
			return
		}
		writeError(w, r, status, code, "Error processing request: "+failure.Message)
		return
	}

	res, _ := result.Recommendation()
	if version != "" && h.rec.Version() == version {
		h.responses.Add(responseKey(version, req.Movie, req.Count), res)
	}

	logging.Ctx(r.Context()).Debug().
		Str("movie", res.InputMovie).
		Int("results", len(res.Recommendations)).
		Bool("fallback", res.Fallback()).
		Msg("Recommendation served")
	writeJSON(w, http.StatusOK, res)
}
