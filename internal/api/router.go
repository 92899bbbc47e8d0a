// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// Router wires the handlers into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	staticDir     string
}

// NewRouter creates a router for handler using the security and static
// sections of cfg.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)),
		staticDir:     cfg.Static.Dir,
	}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.SecurityHeaders)

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.NoStore)
		r.Use(middleware.Compression)
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.handler.Performance().Middleware)

		r.Get("/recommend", router.handler.Recommend)
		r.Get("/movies", router.handler.Movies)
		r.Get("/health", router.handler.Health)
		r.Get("/status", router.handler.Status)

		r.NotFound(apiNotFound)
		r.MethodNotAllowed(apiMethodNotAllowed)
	})

	r.Handle("/metrics", promhttp.Handler())

	if spa := newSPAHandler(router.staticDir); spa != nil {
		r.Handle("/*", spa)
	} else {
		r.NotFound(apiNotFound)
	}

	return r
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
}

func apiMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
}
