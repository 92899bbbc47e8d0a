// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// BuildOptions configures BuildModel.
type BuildOptions struct {
	// Workers bounds the similarity worker pool. 0 means runtime.NumCPU().
	Workers int

	// StopWords overrides the English stop-word list.
	StopWords map[string]struct{}

	// Logger receives build progress.
	Logger zerolog.Logger
}

// BuildModel runs the full pipeline over records: vectorise, compute
// similarity, index titles. Records must be in row-index order.
//
// Every failure is wrapped with ErrModelBuild. An empty or stop-word-only
// corpus additionally matches ErrEmptyCorpus.
func BuildModel(ctx context.Context, records []MovieRecord, opts BuildOptions) (*Model, error) {
	start := time.Now()
	log := opts.Logger

	for i, rec := range records {
		if rec.RowIndex != i {
			return nil, fmt.Errorf("%w: record %d has row index %d", ErrModelBuild, i, rec.RowIndex)
		}
	}

	corpus := make([]string, len(records))
	for i, rec := range records {
		corpus[i] = rec.CombinedFeatures
	}

	vectorizer := algorithms.NewTFIDF(algorithms.TFIDFConfig{StopWords: opts.StopWords})
	features, state, err := vectorizer.FitTransform(ctx, corpus)
	if err != nil {
		return nil, buildError("vectorize", err)
	}
	log.Info().
		Int("documents", len(corpus)).
		Int("vocabulary", len(state.Vocabulary)).
		Msg("Feature matrix built")

	sim, err := algorithms.ComputeSimilarity(ctx, features, algorithms.SimilarityConfig{
		Workers: opts.Workers,
		Logger:  log,
	})
	if err != nil {
		return nil, buildError("similarity", err)
	}

	elapsed := time.Since(start)
	model := &Model{
		Vectorizer: state,
		Index:      BuildTitleIndex(records),
		Similarity: sim,
		Metadata: ModelMetadata{
			Version:         uuid.NewString(),
			BuiltAt:         time.Now().UTC(),
			ItemCount:       len(records),
			VocabularySize:  len(state.Vocabulary),
			BuildDurationMS: elapsed.Milliseconds(),
		},
	}

	log.Info().
		Str("version", model.Metadata.Version).
		Int("items", model.Metadata.ItemCount).
		Int("titles", model.Index.Len()).
		Dur("duration", elapsed).
		Msg("Model built")
	return model, nil
}

func buildError(stage string, err error) error {
	if errors.Is(err, ErrModelBuild) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrModelBuild, stage, err)
}
