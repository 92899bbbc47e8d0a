// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Pruner drops expired entries and reports how many went.
// *api.Handler implements it via PruneResponses.
type Pruner interface {
	PruneResponses() int
}

// CachePruneService calls a Pruner on a fixed interval.
type CachePruneService struct {
	pruner   Pruner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCachePruneService wraps pruner. A non-positive interval means 1m.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewCachePruneService(pruner Pruner, interval time.Duration, logger zerolog.Logger) *CachePruneService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CachePruneService{
		pruner:   pruner,
		interval: interval,
		logger:   logger.With().Str("service", "cache-prune").Logger(),
		name:     "cache-prune",
	}
}

// Serve implements suture.Service.
func (s *CachePruneService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.pruner.PruneResponses(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("Pruned expired responses")
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *CachePruneService) String() string {
	return s.name
}
