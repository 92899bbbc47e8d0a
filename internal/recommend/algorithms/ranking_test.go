// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math"
	"reflect"
	"testing"
)

func TestRankRow(t *testing.T) {
	t.Parallel()

	row := []float64{1, 0.2, 0.9, 0.2, 0, 0.9}

	tests := []struct {
		name    string
		exclude int
		k       int
		want    []int
	}{
		{"ties keep index order", 0, 5, []int{2, 5, 1, 3, 4}},
		{"truncates to k", 0, 2, []int{2, 5}},
		{"k larger than row", 0, 50, []int{2, 5, 1, 3, 4}},
		{"excludes by index not rank", 2, 3, []int{0, 5, 1}},
		{"zero k", 0, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RankRow(row, tt.exclude, tt.k)
			var idx []int
			for _, n := range got {
				idx = append(idx, n.Index)
				if n.Score != row[n.Index] {
					t.Errorf("neighbor %d score = %v, want %v", n.Index, n.Score, row[n.Index])
				}
			}
			if !reflect.DeepEqual(idx, tt.want) {
				t.Errorf("RankRow() = %v, want %v", idx, tt.want)
			}
		})
	}
}

func TestTopByScore(t *testing.T) {
	t.Parallel()

	scores := []float64{7.5, 7.2, 7.8, math.NaN(), 7.5}

	tests := []struct {
		name string
		k    int
		want []int
	}{
		{"top two", 2, []int{2, 0}},
		{"stable ties", 3, []int{2, 0, 4}},
		{"nan last", 5, []int{2, 0, 4, 1, 3}},
		{"k beyond length", 9, []int{2, 0, 4, 1, 3}},
		{"negative k", -1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TopByScore(scores, tt.k); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopByScore(%d) = %v, want %v", tt.k, got, tt.want)
			}
		})
	}
}
