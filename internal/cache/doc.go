// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package cache provides the in-memory structures behind the HTTP layer.

# LRU

LRU is a generic, thread-safe least recently used cache with a per-entry
TTL. Expired entries are dropped lazily on Get or in bulk by CleanupExpired.
The API layer uses it for resolved recommendations keyed by model version,
title and count, so a model swap never serves stale results:

	c := cache.NewLRU[recommend.RecommendationResult]("recommendations", 1024, 10*time.Minute)
	c.Add(key, result)
	if res, ok := c.Get(key); ok {
	    // serve res
	}

Hits, misses, evictions and size are exported through internal/metrics under
the cache_type label passed to NewLRU. An empty name disables metrics.

# Trie

TitleTrie indexes lowercased titles for prefix autocomplete. It is built
once per model and is read-only afterwards, so lookups take no locks.
Results come back in insertion order, which for the title index is dataset
order.
*/
package cache
