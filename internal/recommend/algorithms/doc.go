// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package algorithms holds the numeric building blocks of the content-based
// recommender:
//
//   - TFIDF: fits a vocabulary over movie feature text and produces
//     L2-normalised sparse term weight vectors.
//   - ComputeSimilarity: dense all-pairs cosine similarity over those vectors.
//   - RankRow / TopByScore: stable descending rankings used by the resolver
//     for the similarity path and the vote_average fallback.
//
// The package has no dependency on the rest of the recommend tree so it can
// be tested purely on slices and strings.
//
// # Thread Safety
//
// Everything here is either a pure function or operates on values that are
// immutable after construction. A fitted TFIDFState and a SimilarityMatrix
// may be shared across goroutines without locking.
package algorithms
