// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"strings"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// FallbackMessage accompanies popularity fallback results.
const FallbackMessage = "Here are other top movies you can enjoy :)"

// RecommendPath labels how a result was produced.
type RecommendPath string

const (
	// PathKnown means the title was found and ranked by similarity.
	PathKnown RecommendPath = "known"
	// PathFallback means the title was unknown and ranked by vote average.
	PathFallback RecommendPath = "fallback"
)

// NormalizeTitle lowercases a query title. No other folding is applied, so
// the index lookup matches the stored keys exactly.
func NormalizeTitle(title string) string {
	return strings.ToLower(title)
}

// NotFoundMessage formats the error string of a fallback result.
func NotFoundMessage(title string) string {
	return fmt.Sprintf("Movie '%s' not found in the database!! Sorry for the inconvenience", title)
}

// Resolve produces up to topN recommendations for title.
//
// A known title returns min(topN, n-1) items ordered by descending
// similarity, never including the title's own row. An unknown title is not
// an error: it returns min(topN, n) items ordered by descending vote average,
// with a nil Similarity on every item and Error/Message set.
//
// Resolve is a pure read over model and records and is safe for concurrent
// use.
func Resolve(model *Model, records []MovieRecord, title string, topN int) (RecommendationResult, error) {
	if !model.Complete() {
		return RecommendationResult{}, fmt.Errorf("%w: model artifacts incomplete", ErrModelUnavailable)
	}
	if topN <= 0 {
		return RecommendationResult{}, fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidInput, topN)
	}
	if model.Similarity.N != len(records) {
		return RecommendationResult{}, fmt.Errorf("%w: similarity dimension %d does not match %d records",
			ErrModelUnavailable, model.Similarity.N, len(records))
	}

	normalized := NormalizeTitle(title)
	res := RecommendationResult{
		InputMovie:      normalized,
		Recommendations: []RecommendationItem{},
	}

	row, ok := model.Index.Lookup(normalized)
	if !ok || row < 0 || row >= len(records) {
		res.Error = NotFoundMessage(normalized)
		res.Message = FallbackMessage
		res.Recommendations = popular(records, topN)
		return res, nil
	}

	for _, nb := range algorithms.RankRow(model.Similarity.Row(row), row, topN) {
		score := nb.Score
		res.Recommendations = append(res.Recommendations, itemFor(records[nb.Index], &score))
	}
	return res, nil
}

// PathOf reports which path produced r.
func PathOf(r RecommendationResult) RecommendPath {
	if r.Fallback() {
		return PathFallback
	}
	return PathKnown
}

func popular(records []MovieRecord, topN int) []RecommendationItem {
	votes := make([]float64, len(records))
	for i, rec := range records {
		votes[i] = rec.VoteAverage
	}
	top := algorithms.TopByScore(votes, topN)
	items := make([]RecommendationItem, 0, len(top))
	for _, i := range top {
		items = append(items, itemFor(records[i], nil))
	}
	return items
}

func itemFor(rec MovieRecord, similarity *float64) RecommendationItem {
	return RecommendationItem{
		Title:       rec.Title,
		ID:          rec.RowIndex,
		Similarity:  similarity,
		PosterPath:  rec.PosterPath,
		VoteAverage: rec.VoteAverage,
	}
}
