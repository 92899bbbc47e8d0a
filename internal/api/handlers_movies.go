// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/tomtom215/cinematch/internal/logging"
)

// Movies handles GET /api/movies. Without q it lists every indexed title in
// dataset order; with q it returns up to limit titles starting with q.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	mq, rerr := parseMoviesQuery(r.URL.Query())
	if rerr != nil {
		writeError(w, r, http.StatusBadRequest, rerr.code, rerr.message)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	titles, err := h.rec.Titles(ctx)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list movies")
		writeError(w, r, http.StatusInternalServerError, ErrCodeModelUnavailable, "Error retrieving movies: "+err.Error())
		return
	}

	if mq.Prefix != "" {
		titles = h.titleTrie(h.rec.Version(), titles).Complete(mq.Prefix, mq.Limit)
	}
	writeJSON(w, http.StatusOK, MoviesResponse{Count: len(titles), Movies: titles})
}
