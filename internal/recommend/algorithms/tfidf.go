// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyCorpus is returned when there is nothing to vectorise: the corpus
// is empty or every document is empty after stop-word removal.
var ErrEmptyCorpus = errors.New("empty corpus: vocabulary has no terms after stop-word removal")

// tokenPattern matches maximal runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// SparseVector is a sparse row with Indices sorted ascending.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Norm returns the Euclidean norm of the vector.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// FeatureMatrix is a sparse document-term matrix. Columns index the sorted
// vocabulary of the TFIDFState that produced it.
type FeatureMatrix struct {
	Rows    []SparseVector
	Columns int
}

// TFIDFState is the fitted vectorizer. It is gob-encodable and is persisted
// alongside the similarity matrix.
type TFIDFState struct {
	// Vocabulary maps a term to its column.
	Vocabulary map[string]int

	// IDF holds the inverse document frequency per column.
	IDF []float64

	// DocumentCount is the number of documents the state was fitted on.
	DocumentCount int
}

// Terms returns the vocabulary in column order.
func (s *TFIDFState) Terms() []string {
	terms := make([]string, len(s.Vocabulary))
	for term, col := range s.Vocabulary {
		terms[col] = term
	}
	return terms
}

// Transform vectorises doc against the fitted vocabulary. Terms outside the
// vocabulary (stop words included) are ignored.
func (s *TFIDFState) Transform(doc string) SparseVector {
	counts := make(map[int]float64)
	for _, tok := range Tokenize(doc) {
		if col, ok := s.Vocabulary[tok]; ok {
			counts[col]++
		}
	}
	return weighRow(counts, s.IDF)
}

// TFIDFConfig configures the vectorizer.
type TFIDFConfig struct {
	// StopWords replaces the built-in English list when non-nil.
	StopWords map[string]struct{}
}

// TFIDF fits term weights over a corpus.
//
// Weighting follows the smoothed scheme:
//
//	tf(t, d)  = raw count of t in d
//	idf(t)    = ln((1 + n) / (1 + df(t))) + 1
//	w(t, d)   = tf(t, d) * idf(t), then each row is L2-normalised
type TFIDF struct {
	stopWords map[string]struct{}
}

// NewTFIDF creates a vectorizer.
func NewTFIDF(cfg TFIDFConfig) *TFIDF {
	stop := cfg.StopWords
	if stop == nil {
		stop = englishStopWords
	}
	return &TFIDF{stopWords: stop}
}

// Tokenize lowercases text and splits it into word tokens of length two or
// more. Stop words are not removed.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// FitTransform fits the vocabulary and IDF weights over corpus and returns
// the weighted matrix, one row per document in corpus order.
func (t *TFIDF) FitTransform(ctx context.Context, corpus []string) (*FeatureMatrix, *TFIDFState, error) {
	if len(corpus) == 0 {
		return nil, nil, ErrEmptyCorpus
	}

	docTerms := make([]map[string]float64, len(corpus))
	df := make(map[string]int)
	for i, doc := range corpus {
		if i%1024 == 0 && ContextCancelled(ctx) {
			return nil, nil, ctx.Err()
		}
		counts := make(map[string]float64)
		for _, tok := range Tokenize(doc) {
			if _, stop := t.stopWords[tok]; stop {
				continue
			}
			counts[tok]++
		}
		for term := range counts {
			df[term]++
		}
		docTerms[i] = counts
	}

	if len(df) == 0 {
		return nil, nil, ErrEmptyCorpus
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for col, term := range terms {
		vocab[term] = col
		idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	matrix := &FeatureMatrix{Rows: make([]SparseVector, len(corpus)), Columns: len(terms)}
	for i, counts := range docTerms {
		byCol := make(map[int]float64, len(counts))
		for term, c := range counts {
			byCol[vocab[term]] = c
		}
		matrix.Rows[i] = weighRow(byCol, idf)
	}

	state := &TFIDFState{Vocabulary: vocab, IDF: idf, DocumentCount: len(corpus)}
	return matrix, state, nil
}

// weighRow turns column counts into an L2-normalised tf-idf row.
func weighRow(counts map[int]float64, idf []float64) SparseVector {
	if len(counts) == 0 {
		return SparseVector{}
	}
	cols := make([]int, 0, len(counts))
	for col := range counts {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	values := make([]float64, len(cols))
	var sum float64
	for i, col := range cols {
		w := counts[col] * idf[col]
		values[i] = w
		sum += w * w
	}
	if norm := math.Sqrt(sum); norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}
	return SparseVector{Indices: cols, Values: values}
}

// ContextCancelled reports whether ctx is done without blocking.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
