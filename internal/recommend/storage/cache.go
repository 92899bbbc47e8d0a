// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// BuildFunc builds a model from records.
type BuildFunc func(ctx context.Context, records []recommend.MovieRecord) (*recommend.Model, error)

// CacheConfig configures a Cache.
type CacheConfig struct {
	// Workers bounds the similarity worker pool. 0 means runtime.NumCPU().
	Workers int

	// BreakerFailures consecutive build failures open the breaker. 0 means 3.
	BreakerFailures int

	// BreakerCooldown is how long the breaker stays open. 0 means 30s.
	BreakerCooldown time.Duration

	// Build overrides recommend.BuildModel.
	Build BuildFunc

	Logger zerolog.Logger
}

const breakerName = "model_build"

// Cache loads models from an ArtifactStore, building and saving them when
// the store has no usable set. It implements recommend.ModelProvider.
type Cache struct {
	store ArtifactStore
	build BuildFunc
	log   zerolog.Logger

	group    singleflight.Group
	cb       *gobreaker.CircuitBreaker[*recommend.Model]
	current  atomic.Pointer[recommend.Model]
	building atomic.Bool

	mu     sync.RWMutex
	status recommend.BuildStatus
}

// NewCache wraps store.
func NewCache(store ArtifactStore, cfg CacheConfig) *Cache {
	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = 3
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	c := &Cache{
		store:  store,
		build:  cfg.Build,
		log:    cfg.Logger,
		status: recommend.BuildStatus{Backend: store.Backend()},
	}
	if c.build == nil {
		workers := cfg.Workers
		logger := cfg.Logger
		c.build = func(ctx context.Context, records []recommend.MovieRecord) (*recommend.Model, error) {
			return recommend.BuildModel(ctx, records, recommend.BuildOptions{Workers: workers, Logger: logger})
		}
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	c.cb = gobreaker.NewCircuitBreaker[*recommend.Model](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures) //nolint:gosec // validated positive
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			c.log.Warn().Str("from", fromStr).Str("to", toStr).Msg("Model build breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return c
}

// LoadOrBuild returns the in-memory model when it matches records, else the
// stored set, else a freshly built and saved one. Concurrent callers share a
// single load or build.
func (c *Cache) LoadOrBuild(ctx context.Context, records []recommend.MovieRecord) (*recommend.Model, error) {
	if m := c.current.Load(); m != nil && m.Similarity.N == len(records) {
		return m, nil
	}
	return c.do(func() (*recommend.Model, error) {
		if m := c.current.Load(); m != nil && m.Similarity.N == len(records) {
			return m, nil
		}
		if m, ok := c.loadStored(ctx, records); ok {
			c.publish(m, recommend.SourceCache)
			return m, nil
		}
		return c.buildAndSave(ctx, records)
	})
}

// Rebuild builds and saves a model regardless of what is stored.
func (c *Cache) Rebuild(ctx context.Context, records []recommend.MovieRecord) (*recommend.Model, error) {
	return c.do(func() (*recommend.Model, error) {
		return c.buildAndSave(ctx, records)
	})
}

// Current returns the in-memory model, or nil.
func (c *Cache) Current() *recommend.Model {
	return c.current.Load()
}

// Status returns a snapshot of the cache state.
func (c *Cache) Status() recommend.BuildStatus {
	c.mu.RLock()
	status := c.status
	c.mu.RUnlock()
	status.Building = c.building.Load()
	return status
}

func (c *Cache) do(fn func() (*recommend.Model, error)) (*recommend.Model, error) {
	v, err, _ := c.group.Do("model", func() (interface{}, error) {
		c.building.Store(true)
		defer c.building.Store(false)
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return v.(*recommend.Model), nil //nolint:forcetypeassert // fn only returns models
}

// loadStored reads the store. Any failure, including a set whose dimension
// does not match records, is reported as unusable.
func (c *Cache) loadStored(ctx context.Context, records []recommend.MovieRecord) (*recommend.Model, bool) {
	m, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		c.log.Info().Str("backend", c.store.Backend()).Msg("No stored model artifacts, building model")
		return nil, false
	case err != nil:
		metrics.RecordArtifactError(c.store.Backend())
		c.log.Warn().Err(err).Str("backend", c.store.Backend()).Msg("Stored model artifacts unreadable, rebuilding")
		return nil, false
	case m.Similarity.N != len(records):
		metrics.RecordArtifactError(c.store.Backend())
		c.log.Warn().
			Int("stored_items", m.Similarity.N).
			Int("records", len(records)).
			Msg("Stored model does not match dataset size, rebuilding")
		return nil, false
	}
	return m, true
}

func (c *Cache) buildAndSave(ctx context.Context, records []recommend.MovieRecord) (*recommend.Model, error) {
	start := time.Now()
	m, err := c.cb.Execute(func() (*recommend.Model, error) {
		m, err := c.build(ctx, records)
		if err != nil {
			return nil, err
		}
		if err := c.store.Save(ctx, m); err != nil {
			return nil, fmt.Errorf("%w: save artifacts: %w", recommend.ErrModelBuild, err)
		}
		return m, nil
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			err = fmt.Errorf("%w: builds suspended after repeated failures: %w", recommend.ErrModelBuild, err)
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).
				Set(float64(c.cb.Counts().ConsecutiveFailures))
			result := "failure"
			if errors.Is(err, recommend.ErrEmptyCorpus) {
				result = "empty_corpus"
			}
			metrics.RecordModelBuild(elapsed, result)
			if !errors.Is(err, recommend.ErrModelBuild) {
				err = fmt.Errorf("%w: %w", recommend.ErrModelBuild, err)
			}
		}
		c.fail(err)
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	metrics.RecordModelBuild(elapsed, "success")
	c.publish(m, recommend.SourceBuild)
	return m, nil
}

func (c *Cache) publish(m *recommend.Model, source recommend.ModelSource) {
	c.current.Store(m)
	metrics.RecordModelLoad(string(source), m.Metadata.ItemCount, m.Metadata.VocabularySize)

	c.mu.Lock()
	c.status.Ready = true
	c.status.Source = source
	c.status.Version = m.Metadata.Version
	c.status.ItemCount = m.Metadata.ItemCount
	c.status.BuildDurationMS = m.Metadata.BuildDurationMS
	c.status.LastBuiltAt = m.Metadata.BuiltAt
	c.status.LastError = ""
	c.mu.Unlock()

	c.log.Info().
		Str("source", string(source)).
		Str("version", m.Metadata.Version).
		Int("items", m.Metadata.ItemCount).
		Msg("Model loaded")
}

func (c *Cache) fail(err error) {
	c.mu.Lock()
	c.status.LastError = err.Error()
	c.mu.Unlock()
	c.log.Error().Err(err).Msg("Model build failed")
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
