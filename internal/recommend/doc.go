// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements content-based movie recommendations.
//
// # Architecture
//
// A model is built once per dataset snapshot and then only read:
//
//   - algorithms.TFIDF vectorises each movie's combined feature text.
//   - algorithms.ComputeSimilarity derives the dense cosine similarity matrix.
//   - TitleIndex maps lowercased titles to row indices (first occurrence wins).
//
// The three artifacts travel together as a Model. The storage package
// persists and reloads them and guarantees at most one build in flight.
//
// # Query Path
//
// Resolve maps a title to its row and ranks every other row by similarity.
// Titles that are not in the index are not an error: the result carries an
// explanatory error/message pair and the highest rated movies instead.
//
// # Serving
//
// ModelContext owns the dataset loader, the model source and the current
// immutable snapshot. It is constructed explicitly by the serving layer; there
// is no package-level state.
//
//	mc := recommend.NewModelContext(loader, cache, logger)
//	if err := mc.Load(ctx); err != nil {
//	    // degraded: requests report ModelUnavailable until a load succeeds
//	}
//	res := mc.Recommend(ctx, "Rocky", 5)
//	if rec, ok := res.Recommendation(); ok {
//	    // ...
//	}
//
// # Errors
//
// ErrEmptyCorpus, ErrModelBuild, ErrModelUnavailable and ErrInvalidInput are
// matched with errors.Is. KindOf folds an error chain into an ErrorKind.
package recommend
