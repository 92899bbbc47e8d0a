// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
)

// Open returns the artifact store selected by cfg.Backend.
func Open(cfg *config.ModelConfig, logger zerolog.Logger) (ArtifactStore, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Dir, cfg.KeepGenerations, logger)
	case "badger":
		return OpenBadgerStore(cfg.Dir, cfg.KeepGenerations, logger)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
}
