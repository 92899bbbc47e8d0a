// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// DatasetLoader supplies movie records in row-index order.
type DatasetLoader interface {
	Load(ctx context.Context) ([]MovieRecord, error)
}

// ModelProvider returns a model for a dataset snapshot, building it when no
// usable artifacts exist. Implementations guarantee at most one build in
// flight.
type ModelProvider interface {
	LoadOrBuild(ctx context.Context, records []MovieRecord) (*Model, error)
	Status() BuildStatus
}

// snapshot pairs a model with the records it was resolved against.
type snapshot struct {
	model   *Model
	records []MovieRecord
}

// ModelContext owns the dataset and the current model. Queries read an
// immutable snapshot without locking; loads are collapsed so concurrent
// callers share one in-flight load.
type ModelContext struct {
	loader DatasetLoader
	source ModelProvider
	logger zerolog.Logger

	current atomic.Pointer[snapshot]
	group   singleflight.Group

	mu      sync.RWMutex
	lastErr error
}

// NewModelContext creates an empty context. Nothing is loaded until Load or
// the first Recommend call.
func NewModelContext(loader DatasetLoader, source ModelProvider, logger zerolog.Logger) *ModelContext {
	return &ModelContext{
		loader: loader,
		source: source,
		logger: logger,
	}
}

// Load reads the dataset and obtains a model from the source. On success the
// pair replaces the current snapshot. Concurrent calls share one load; the
// load itself is detached from ctx so a disconnecting caller does not abort
// it for the others.
func (mc *ModelContext) Load(ctx context.Context) error {
	ch := mc.group.DoChan("load", func() (interface{}, error) {
		return nil, mc.load(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (mc *ModelContext) load(ctx context.Context) error {
	records, err := mc.loader.Load(ctx)
	if err != nil {
		err = fmt.Errorf("%w: load dataset: %w", ErrModelBuild, err)
		mc.setErr(err)
		return err
	}

	model, err := mc.source.LoadOrBuild(ctx, records)
	if err != nil {
		mc.setErr(err)
		return err
	}

	mc.current.Store(&snapshot{model: model, records: records})
	mc.setErr(nil)
	mc.logger.Info().
		Str("version", model.Metadata.Version).
		Int("records", len(records)).
		Msg("Model ready")
	return nil
}

// ensure returns the current snapshot, loading once if there is none.
func (mc *ModelContext) ensure(ctx context.Context) (*snapshot, error) {
	if snap := mc.current.Load(); snap != nil {
		return snap, nil
	}
	if err := mc.Load(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	snap := mc.current.Load()
	if snap == nil {
		return nil, ErrModelUnavailable
	}
	return snap, nil
}

// Recommend resolves title against the current model, loading it first if
// needed. A failed load yields a ModelUnavailable failure; the next call
// attempts the load again.
func (mc *ModelContext) Recommend(ctx context.Context, title string, topN int) Result {
	if topN <= 0 {
		res := Fail(fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidInput, topN))
		metrics.RecordRecommendationFailure(res.Kind().String())
		return res
	}

	snap, err := mc.ensure(ctx)
	if err != nil {
		res := Fail(err)
		metrics.RecordRecommendationFailure(res.Kind().String())
		return res
	}

	rec, err := Resolve(snap.model, snap.records, title, topN)
	if err != nil {
		res := Fail(err)
		metrics.RecordRecommendationFailure(res.Kind().String())
		return res
	}
	metrics.RecordRecommendation(string(PathOf(rec)))
	return Success(rec)
}

// Titles returns the indexed (lowercased, deduplicated) titles in
// first-occurrence order, loading first if needed.
func (mc *ModelContext) Titles(ctx context.Context) ([]string, error) {
	snap, err := mc.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), snap.model.Index.Titles()...), nil
}

// Ready reports whether a model is loaded.
func (mc *ModelContext) Ready() bool {
	return mc.current.Load() != nil
}

// Version returns the current model version, or "" before the first load.
func (mc *ModelContext) Version() string {
	if snap := mc.current.Load(); snap != nil {
		return snap.model.Metadata.Version
	}
	return ""
}

// Status merges the source's build status with the context's last load
// error.
func (mc *ModelContext) Status() BuildStatus {
	status := mc.source.Status()
	if snap := mc.current.Load(); snap != nil {
		status.Ready = true
		status.Version = snap.model.Metadata.Version
		status.ItemCount = len(snap.records)
	}
	mc.mu.RLock()
	if mc.lastErr != nil {
		status.LastError = mc.lastErr.Error()
	}
	mc.mu.RUnlock()
	return status
}

func (mc *ModelContext) setErr(err error) {
	mc.mu.Lock()
	mc.lastErr = err
	mc.mu.Unlock()
	if err != nil {
		mc.logger.Error().Err(err).Msg("Model load failed")
	}
}
