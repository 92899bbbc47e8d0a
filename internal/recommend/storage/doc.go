// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package storage persists recommendation models and serves them through a
single-flight cache.

# Artifacts

A model is stored as three named artifacts plus a manifest:

  - tfidf_vectorizer: fitted vocabulary and IDF weights
  - indices_mapping: lowercased title to row index
  - cosine_sim_matrix: dense similarity matrix

Each artifact is gob encoded, gzip compressed and checksummed with SHA-256.
The manifest records the checksums and the model metadata and is JSON.

# Backends

FileStore writes every save as a new generation directory and then swaps a
CURRENT pointer file with write-temp, fsync and rename:

	models/
	├── CURRENT                       # "<version>\n"
	└── generations/
	    └── <version>/
	        ├── manifest.json
	        ├── tfidf_vectorizer.gob.gz
	        ├── indices_mapping.gob.gz
	        └── cosine_sim_matrix.gob.gz

BadgerStore stages artifact chunks under a version prefix and commits the
manifest and the current pointer in one transaction.

In both backends a reader resolves the pointer first, so it never observes a
partially written set.

# Cache

Cache wraps an ArtifactStore. LoadOrBuild returns the model held in memory,
otherwise reads the store, otherwise builds and saves. Concurrent callers
share one load or build. A circuit breaker stops repeated builds after
consecutive failures until a cooldown elapses.

A stored model is never checked against the dataset it was built from,
beyond the similarity dimension matching the record count. Delete the model
directory or run cmd/recommend -rebuild after changing the dataset.
*/
package storage
