// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api serves the recommendation HTTP API with chi.

# Endpoints

	GET /api/recommend?movie=<title>&count=<n>   recommendations for a title
	GET /api/movies[?q=<prefix>&limit=<n>]      indexed titles, optionally by prefix
	GET /api/health                             liveness
	GET /api/status                             model and cache state
	GET /metrics                                Prometheus exposition

Anything else is served from the single page application directory when it
exists: real files as is, every other path as index.html.

# Responses

Successful recommendation and movie responses keep the shapes the frontend
expects:

	{"input_movie":"rocky","recommendations":[{"title":"Creed","id":1,"similarity":0.42,...}]}
	{"count":3,"movies":["rocky","creed","up"]}

Errors always carry an error string, plus a machine-readable code and the
request ID:

	{"error":"No movie title provided","code":"BAD_REQUEST","request_id":"..."}

An unknown title is not an error. It returns 200 with the top rated movies,
null similarities and the error/message pair set.

# Middleware

Global: RequestID, RealIP, Recoverer, CORS, security headers. The /api group
adds per-IP rate limiting, Cache-Control: no-store, gzip, Prometheus metrics
and the rolling latency monitor reported by /api/status.
*/
package api
