// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Command recommend prints recommendations for one title as JSON, using the
// same configuration, dataset and model artifacts as the server.
//
//	recommend -movie "The Dark Knight" -count 5
//	recommend -config config.yaml -rebuild -movie Rocky
//
// -rebuild discards the stored artifacts and builds a new generation before
// answering.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/dataset"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	configPath string
	movie      string
	count      int
	rebuild    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml (overrides CONFIG_PATH)")
	fs.StringVar(&opts.movie, "movie", "", "movie title to get recommendations for")
	fs.IntVar(&opts.count, "count", 0, "number of recommendations (default from config)")
	fs.BoolVar(&opts.rebuild, "rebuild", false, "rebuild the model before querying")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.movie == "" {
		fs.Usage()
		return options{}, errors.New("-movie is required")
	}
	if opts.count < 0 {
		return options{}, fmt.Errorf("-count must be positive, got %d", opts.count)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // nothing to do if stderr fails
		return exitUsage
	}

	if opts.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, opts.configPath); err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // nothing to do if stderr fails
			return exitFailure
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // nothing to do if stderr fails
		return exitFailure
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: stderr,
	})
	if opts.count == 0 {
		opts.count = cfg.Recommend.DefaultCount
	}

	store, err := storage.Open(&cfg.Model, logging.WithComponent("artifacts"))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open model artifact store")
		return exitFailure
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing artifact store")
		}
	}()

	modelCache := storage.NewCache(store, storage.CacheConfig{
		Workers:         cfg.Model.BuildWorkers,
		BreakerFailures: cfg.Model.BreakerFailures,
		BreakerCooldown: cfg.Model.BreakerCooldown,
		Logger:          logging.WithComponent("model-cache"),
	})
	loader := dataset.NewLoader(&cfg.Dataset, logging.WithComponent("dataset"))

	if opts.rebuild {
		records, err := loader.Load(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to load dataset")
			return exitFailure
		}
		if _, err := modelCache.Rebuild(ctx, records); err != nil {
			logging.Error().Err(err).Msg("Model rebuild failed")
			return exitFailure
		}
	}

	models := recommend.NewModelContext(loader, modelCache, logging.WithComponent("model"))
	result := models.Recommend(ctx, opts.movie, opts.count)

	if failure, failed := result.Failure(); failed {
		logging.Error().Err(failure.Err).Str("kind", failure.Kind.String()).Msg("Recommendation failed")
		return exitFailure
	}
	rec, _ := result.Recommendation()
	if err := writeIndented(stdout, rec); err != nil {
		logging.Error().Err(err).Msg("Failed to write result")
		return exitFailure
	}
	return exitOK
}

func writeIndented(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
