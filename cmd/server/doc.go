// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Command server runs the cinematch HTTP API.

	RootSupervisor ("cinematch")
	├── ModelSupervisor ("model-layer")
	│   ├── model-warmup (MODEL_PRELOAD=true)
	│   └── cache-prune
	└── APISupervisor ("api-layer")
	    └── http-server

Startup order:

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. Dataset loader (DuckDB over parquet, CSV or JSON)
 4. Artifact store (file generations or Badger) and model cache
 5. Model context and HTTP handlers
 6. Supervisor tree

With MODEL_PRELOAD=false the model is loaded by the first request to
/api/recommend or /api/movies.

Endpoints:

	GET /api/recommend?movie=<title>&count=<n>
	GET /api/movies[?q=<prefix>&limit=<n>]
	GET /api/health
	GET /api/status
	GET /metrics

SIGINT and SIGTERM cancel the tree; the HTTP server drains within
SERVER_SHUTDOWN_TIMEOUT.

Example:

	export DATASET_PATH=data/small_dataset.parquet
	export MODEL_DIR=models
	./server
*/
package main
