// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"strings"
)

var (
	validLogLevels = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	validLogFormats     = map[string]bool{"json": true, "console": true}
	validDatasetFormats = map[string]bool{"auto": true, "parquet": true, "csv": true, "json": true}
	validModelBackends  = map[string]bool{"file": true, "badger": true}
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT and SHUTDOWN_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateDataset() error {
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if !validDatasetFormats[c.Dataset.Format] {
		return fmt.Errorf("DATASET_FORMAT must be one of: auto, parquet, csv, json")
	}
	if c.Dataset.TitleColumn == "" || c.Dataset.VoteColumn == "" {
		return fmt.Errorf("DATASET_TITLE_COLUMN and DATASET_VOTE_COLUMN must not be empty")
	}
	if c.Dataset.FeaturesColumn == "" && len(c.Dataset.FeatureColumns) == 0 {
		return fmt.Errorf("DATASET_FEATURES_COLUMN or DATASET_FEATURE_COLUMNS is required")
	}
	if c.Dataset.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateModel() error {
	if strings.TrimSpace(c.Model.Dir) == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if !validModelBackends[c.Model.Backend] {
		return fmt.Errorf("MODEL_BACKEND must be one of: file, badger")
	}
	if c.Model.KeepGenerations < 1 {
		return fmt.Errorf("MODEL_KEEP_GENERATIONS must be at least 1")
	}
	if c.Model.BuildWorkers < 0 {
		return fmt.Errorf("MODEL_BUILD_WORKERS must not be negative")
	}
	if c.Model.BreakerFailures < 1 {
		return fmt.Errorf("MODEL_BREAKER_FAILURES must be at least 1")
	}
	if c.Model.BreakerCooldown <= 0 {
		return fmt.Errorf("MODEL_BREAKER_COOLDOWN must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxCount < 1 {
		return fmt.Errorf("RECOMMEND_MAX_COUNT must be at least 1")
	}
	if c.Recommend.DefaultCount < 1 || c.Recommend.DefaultCount > c.Recommend.MaxCount {
		return fmt.Errorf("RECOMMEND_DEFAULT_COUNT must be between 1 and RECOMMEND_MAX_COUNT (%d)", c.Recommend.MaxCount)
	}
	if c.Recommend.CacheSize < 0 || c.Recommend.CacheTTL < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE and RECOMMEND_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must contain at least one origin")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}
