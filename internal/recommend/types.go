// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// MovieRecord is one row of the loaded dataset. RowIndex is the 0-based
// position in load order and identifies the movie within the model.
type MovieRecord struct {
	RowIndex int `json:"id"`

	Title string `json:"title"`

	// CombinedFeatures is the pre-joined genre/keyword/overview text.
	CombinedFeatures string `json:"combined_features"`

	VoteAverage float64 `json:"vote_average"`

	// PosterPath is empty when the dataset has no poster column.
	PosterPath string `json:"poster_path"`
}

// RecommendationItem is one recommended movie.
type RecommendationItem struct {
	Title string `json:"title"`

	// ID is the movie's row index.
	ID int `json:"id"`

	// Similarity is nil for fallback items.
	Similarity *float64 `json:"similarity"`

	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// RecommendationResult is the outcome of a single query.
type RecommendationResult struct {
	// InputMovie is the normalised (lowercased) query title.
	InputMovie string `json:"input_movie"`

	// Error and Message are set only when the title was not found and the
	// recommendations are the popularity fallback.
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	Recommendations []RecommendationItem `json:"recommendations"`
}

// Fallback reports whether the result is the popularity fallback.
func (r *RecommendationResult) Fallback() bool {
	return r.Error != ""
}

// TitleIndex maps lowercased titles to row indices. Fields are exported for
// gob encoding; use the methods.
type TitleIndex struct {
	Rows  map[string]int
	Order []string
}

// BuildTitleIndex indexes records by lowercased title. The first occurrence
// of a duplicate title wins.
func BuildTitleIndex(records []MovieRecord) *TitleIndex {
	idx := &TitleIndex{
		Rows:  make(map[string]int, len(records)),
		Order: make([]string, 0, len(records)),
	}
	for _, rec := range records {
		key := strings.ToLower(rec.Title)
		if _, seen := idx.Rows[key]; seen {
			continue
		}
		idx.Rows[key] = rec.RowIndex
		idx.Order = append(idx.Order, key)
	}
	return idx
}

// Lookup returns the row index of an already lowercased title.
func (t *TitleIndex) Lookup(title string) (int, bool) {
	row, ok := t.Rows[title]
	return row, ok
}

// Titles returns the indexed titles in first-occurrence order. The returned
// slice must not be modified.
func (t *TitleIndex) Titles() []string {
	return t.Order
}

// Len returns the number of distinct titles.
func (t *TitleIndex) Len() int {
	return len(t.Order)
}

// ModelMetadata describes a built model.
type ModelMetadata struct {
	// Version identifies the build (one per persisted artifact generation).
	Version string `json:"version"`

	BuiltAt         time.Time `json:"built_at"`
	ItemCount       int       `json:"item_count"`
	VocabularySize  int       `json:"vocabulary_size"`
	BuildDurationMS int64     `json:"build_duration_ms"`
}

// Model is the cached artifact bundle. All three artifacts must come from the
// same dataset snapshot and row ordering. A Model is immutable once built.
type Model struct {
	Vectorizer *algorithms.TFIDFState
	Index      *TitleIndex
	Similarity *algorithms.SimilarityMatrix
	Metadata   ModelMetadata
}

// Complete reports whether all three artifacts are present.
func (m *Model) Complete() bool {
	return m != nil && m.Vectorizer != nil && m.Index != nil && m.Similarity != nil
}

// ModelSource indicates where the current model came from.
type ModelSource string

const (
	// SourceNone means no model has been loaded.
	SourceNone ModelSource = ""
	// SourceCache means the model was read from the artifact store.
	SourceCache ModelSource = "cache"
	// SourceBuild means the model was built from the dataset.
	SourceBuild ModelSource = "build"
)

// BuildStatus reports the state of a model cache.
type BuildStatus struct {
	// Ready is true once a model is held in memory.
	Ready bool `json:"ready"`

	// Building is true while a load or build is in flight.
	Building bool `json:"building"`

	Source          ModelSource `json:"source,omitempty"`
	Version         string      `json:"version,omitempty"`
	ItemCount       int         `json:"item_count"`
	BuildDurationMS int64       `json:"build_duration_ms,omitempty"`
	LastBuiltAt     time.Time   `json:"last_built_at,omitempty"`

	// LastError is the most recent load/build failure, cleared on success.
	LastError string `json:"last_error,omitempty"`

	// Backend names the artifact store (file or badger).
	Backend string `json:"backend,omitempty"`
}
