// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package config loads Cinematch configuration from layered sources.
//
// Precedence (highest wins): environment variables, then an optional YAML
// file, then the built-in defaults returned by defaultConfig. The YAML file is
// located through CONFIG_PATH or DefaultConfigPaths.
//
// Example config.yaml:
//
//	server:
//	  port: 5000
//	dataset:
//	  path: data/small_dataset.parquet
//	model:
//	  dir: models
//	  backend: file
//	recommend:
//	  default_count: 5
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Static    StaticConfig    `koanf:"static"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RequestTimeout bounds a single recommendation request. A lazy model
	// build started by a request is not cancelled when this fires.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// LoggingConfig mirrors logging.Config for the parts that are configurable.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatasetConfig describes the movie metadata source file.
type DatasetConfig struct {
	// Path to a parquet, CSV or JSON file.
	Path string `koanf:"path"`

	// Format is auto, parquet, csv or json. auto picks from the file extension.
	Format string `koanf:"format"`

	TitleColumn    string `koanf:"title_column"`
	FeaturesColumn string `koanf:"features_column"`
	VoteColumn     string `koanf:"vote_column"`
	PosterColumn   string `koanf:"poster_column"`

	// FeatureColumns are joined with a space when FeaturesColumn is not
	// present in the file (e.g. genres, keywords, overview).
	FeatureColumns []string `koanf:"feature_columns"`

	// DuckDB settings for the loader connection.
	Threads   int    `koanf:"threads"`
	MaxMemory string `koanf:"max_memory"`
}

// ModelConfig controls the model cache and its artifact store.
type ModelConfig struct {
	// Dir is the model directory (file backend) or the Badger directory.
	Dir string `koanf:"dir"`

	// Backend is file or badger.
	Backend string `koanf:"backend"`

	// KeepGenerations is how many artifact generations a save retains.
	KeepGenerations int `koanf:"keep_generations"`

	// Preload loads or builds the model at startup instead of on first request.
	Preload bool `koanf:"preload"`

	// BuildWorkers for the similarity matrix. 0 means runtime.NumCPU().
	BuildWorkers int `koanf:"build_workers"`

	// BreakerFailures consecutive failed builds open the build breaker for
	// BreakerCooldown.
	BreakerFailures int           `koanf:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

// RecommendConfig holds query-time settings.
type RecommendConfig struct {
	DefaultCount int           `koanf:"default_count"`
	MaxCount     int           `koanf:"max_count"`
	CacheSize    int           `koanf:"cache_size"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// StaticConfig points at a built single page application. Serving is skipped
// when Dir does not exist.
type StaticConfig struct {
	Dir string `koanf:"dir"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
