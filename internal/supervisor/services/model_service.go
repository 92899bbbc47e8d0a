// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// ModelLoader loads or builds the model. *recommend.ModelContext implements it.
type ModelLoader interface {
	Load(ctx context.Context) error
}

// ModelWarmupService loads the model once at startup so the first request
// does not pay for the build.
type ModelWarmupService struct {
	loader  ModelLoader
	timeout time.Duration
	logger  zerolog.Logger
	name    string
}

// NewModelWarmupService wraps loader. timeout bounds one attempt; zero means
// no bound.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewModelWarmupService(loader ModelLoader, timeout time.Duration, logger zerolog.Logger) *ModelWarmupService {
	return &ModelWarmupService{
		loader:  loader,
		timeout: timeout,
		logger:  logger.With().Str("service", "model-warmup").Logger(),
		name:    "model-warmup",
	}
}

// Serve implements suture.Service. The load is attempted once: success or
// failure, the service retires with suture.ErrDoNotRestart and a failed load
// is left to the first request.
func (s *ModelWarmupService) Serve(ctx context.Context) error {
	loadCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info().Msg("Warming up model")
	if err := s.loader.Load(loadCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).
			Msg("Model warmup failed, model will be loaded on first request")
		return suture.ErrDoNotRestart
	}

	s.logger.Info().Dur("duration", time.Since(start)).Msg("Model warmup complete")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer.
func (s *ModelWarmupService) String() string {
	return s.name
}
