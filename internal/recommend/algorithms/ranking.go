// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math"
	"sort"
)

// Neighbor is a ranked row with its score.
type Neighbor struct {
	Index int
	Score float64
}

// RankRow ranks the entries of a similarity row descending by score, ties
// broken by index ascending, skipping exclude. At most k neighbours are
// returned.
func RankRow(row []float64, exclude, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	ranked := make([]Neighbor, 0, len(row))
	for j, s := range row {
		if j == exclude {
			continue
		}
		ranked = append(ranked, Neighbor{Index: j, Score: s})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// TopByScore returns the indices of the k highest scores, descending, with
// ties kept in index order. NaN scores sort last.
func TopByScore(scores []float64, k int) []int {
	if k <= 0 {
		return nil
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := scores[idx[a]], scores[idx[b]]
		if math.IsNaN(sb) {
			return !math.IsNaN(sa)
		}
		return sa > sb
	})
	if k < len(idx) {
		idx = idx[:k]
	}
	return idx
}
