// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"reflect"
	"testing"

	"github.com/tomtom215/cinematch/internal/recommend"
)

func testRecords() []recommend.MovieRecord {
	return []recommend.MovieRecord{
		{RowIndex: 0, Title: "Rocky", CombinedFeatures: "boxing underdog training", VoteAverage: 7.5},
		{RowIndex: 1, Title: "Creed", CombinedFeatures: "boxing underdog training legacy", VoteAverage: 7.2},
		{RowIndex: 2, Title: "Up", CombinedFeatures: "balloons house adventure", VoteAverage: 7.8},
	}
}

func buildTestModel(t *testing.T, records []recommend.MovieRecord) *recommend.Model {
	t.Helper()
	m, err := recommend.BuildModel(context.Background(), records, recommend.BuildOptions{Workers: 1})
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	return m
}

func assertSameModel(t *testing.T, got, want *recommend.Model) {
	t.Helper()
	if got.Metadata.Version != want.Metadata.Version {
		t.Errorf("version = %q, want %q", got.Metadata.Version, want.Metadata.Version)
	}
	if !reflect.DeepEqual(got.Vectorizer, want.Vectorizer) {
		t.Error("vectorizer state differs after round trip")
	}
	if !reflect.DeepEqual(got.Index, want.Index) {
		t.Error("title index differs after round trip")
	}
	if !reflect.DeepEqual(got.Similarity, want.Similarity) {
		t.Error("similarity matrix differs after round trip")
	}
}
