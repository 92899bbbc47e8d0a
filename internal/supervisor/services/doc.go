// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package services adapts cinematch components to suture.Service.
//
//   - HTTPServerService: ListenAndServe/Shutdown lifecycle of the API server.
//   - ModelWarmupService: loads or builds the model once at startup. A
//     failed warmup is logged and left to the first request.
//   - CachePruneService: periodically drops expired cached responses.
//
// Every service implements fmt.Stringer so suture events carry its name.
package services
