// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Recommender is the model-facing side of the handlers. *recommend.ModelContext
// implements it.
type Recommender interface {
	Recommend(ctx context.Context, title string, topN int) recommend.Result
	Titles(ctx context.Context) ([]string, error)
	Version() string
	Status() recommend.BuildStatus
}

// responseCacheName is the metrics label of the response cache.
const responseCacheName = "recommendations"

// Handler holds the HTTP handlers and their shared state.
type Handler struct {
	rec            Recommender
	defaultCount   int
	maxCount       int
	requestTimeout time.Duration
	appVersion     string
	startTime      time.Time

	responses *cache.LRU[recommend.RecommendationResult]
	perf      *middleware.PerformanceMonitor

	trieMu      sync.Mutex
	trie        *cache.TitleTrie
	trieVersion string
}

// NewHandler creates handlers backed by rec. appVersion is reported by
// /api/status.
func NewHandler(rec Recommender, cfg *config.Config, appVersion string) *Handler {
	return &Handler{
		rec:            rec,
		defaultCount:   cfg.Recommend.DefaultCount,
		maxCount:       cfg.Recommend.MaxCount,
		requestTimeout: cfg.Server.RequestTimeout,
		appVersion:     appVersion,
		startTime:      time.Now(),
		responses:      cache.NewLRU[recommend.RecommendationResult](responseCacheName, cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL),
		perf:           middleware.NewPerformanceMonitor(1000, time.Second),
	}
}

// Performance returns the latency monitor fed by the /api routes.
func (h *Handler) Performance() *middleware.PerformanceMonitor {
	return h.perf
}

// PruneResponses drops expired cached responses.
func (h *Handler) PruneResponses() int {
	return h.responses.CleanupExpired()
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// titleTrie returns the autocomplete index for version, building it from
// titles on the first call after a model change.
func (h *Handler) titleTrie(version string, titles []string) *cache.TitleTrie {
	h.trieMu.Lock()
	defer h.trieMu.Unlock()
	if h.trie == nil || h.trieVersion != version {
		h.trie = cache.NewTitleTrie(titles)
		h.trieVersion = version
	}
	return h.trie
}
