// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dataset: DatasetConfig{
			Path:           "data/small_dataset.parquet",
			Format:         "auto",
			TitleColumn:    "title",
			FeaturesColumn: "combined_features",
			VoteColumn:     "vote_average",
			PosterColumn:   "poster_path",
			FeatureColumns: []string{},
			Threads:        0,
			MaxMemory:      "1GB",
		},
		Model: ModelConfig{
			Dir:             "models",
			Backend:         "file",
			KeepGenerations: 2,
			Preload:         true,
			BuildWorkers:    0,
			BreakerFailures: 3,
			BreakerCooldown: 30 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultCount: 5,
			MaxCount:     100,
			CacheSize:    1024,
			CacheTTL:     10 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Static: StaticConfig{
			Dir: "frontend/build",
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf is Load with the layering spelled out:
//  1. defaultConfig via the structs provider
//  2. optional YAML file
//  3. environment variables from the envMappings table
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing
// DefaultConfigPaths entry, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"dataset.feature_columns",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// PORT is kept for platforms that inject it.
var envMappings = map[string]string{
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.write_timeout",
	"request_timeout":  "server.request_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"dataset_path":            "dataset.path",
	"dataset_format":          "dataset.format",
	"dataset_title_column":    "dataset.title_column",
	"dataset_features_column": "dataset.features_column",
	"dataset_vote_column":     "dataset.vote_column",
	"dataset_poster_column":   "dataset.poster_column",
	"dataset_feature_columns": "dataset.feature_columns",
	"duckdb_threads":          "dataset.threads",
	"duckdb_max_memory":       "dataset.max_memory",

	"model_dir":              "model.dir",
	"model_backend":          "model.backend",
	"model_keep_generations": "model.keep_generations",
	"model_preload":          "model.preload",
	"model_build_workers":    "model.build_workers",
	"model_breaker_failures": "model.breaker_failures",
	"model_breaker_cooldown": "model.breaker_cooldown",

	"recommend_default_count": "recommend.default_count",
	"recommend_max_count":     "recommend.max_count",
	"recommend_cache_size":    "recommend.cache_size",
	"recommend_cache_ttl":     "recommend.cache_ttl",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"static_dir": "static.dir",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
