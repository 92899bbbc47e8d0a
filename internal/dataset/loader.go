// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the duckdb driver
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Supported formats.
const (
	FormatAuto    = "auto"
	FormatParquet = "parquet"
	FormatCSV     = "csv"
	FormatJSON    = "json"
)

// ErrMissingColumn is returned when a required column is not in the source.
var ErrMissingColumn = errors.New("dataset column missing")

// Loader reads movie records from a file.
type Loader struct {
	cfg config.DatasetConfig
	log zerolog.Logger
}

// NewLoader creates a loader for cfg.
func NewLoader(cfg *config.DatasetConfig, logger zerolog.Logger) *Loader {
	return &Loader{cfg: *cfg, log: logger}
}

// Path returns the configured dataset path.
func (l *Loader) Path() string {
	return l.cfg.Path
}

// Load reads every row of the dataset in file order.
func (l *Loader) Load(ctx context.Context) ([]recommend.MovieRecord, error) {
	start := time.Now()

	if _, err := os.Stat(l.cfg.Path); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", l.cfg.Path, err)
	}
	source, err := sourceExpr(l.cfg.Path, l.cfg.Format)
	if err != nil {
		return nil, err
	}

	conn, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(conn)

	columns, err := describe(ctx, conn, source)
	if err != nil {
		return nil, err
	}
	query, err := l.selectQuery(source, columns)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // rows.Err is checked below

	var records []recommend.MovieRecord
	for rows.Next() {
		var rec recommend.MovieRecord
		if err := rows.Scan(&rec.Title, &rec.CombinedFeatures, &rec.VoteAverage, &rec.PosterPath); err != nil {
			return nil, fmt.Errorf("scan dataset row %d: %w", len(records), err)
		}
		rec.RowIndex = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset: %w", err)
	}

	elapsed := time.Since(start)
	metrics.RecordDatasetLoad(elapsed, len(records))
	l.log.Info().
		Str("path", l.cfg.Path).
		Int("records", len(records)).
		Dur("duration", elapsed).
		Msg("Dataset loaded")
	return records, nil
}

func (l *Loader) open(ctx context.Context) (*sql.DB, error) {
	threads := l.cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := l.cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	connStr := fmt.Sprintf(":memory:?threads=%d&max_memory=%s&preserve_insertion_order=true&autoinstall_known_extensions=false",
		threads, maxMemory)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	conn.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return conn, nil
}

// selectQuery maps the configured columns onto the source's actual columns.
func (l *Loader) selectQuery(source string, columns map[string]string) (string, error) {
	require := func(role, name string) (string, error) {
		actual, ok := columns[strings.ToLower(name)]
		if !ok || name == "" {
			return "", fmt.Errorf("%w: %s column %q", ErrMissingColumn, role, name)
		}
		return quoteIdent(actual), nil
	}

	title, err := require("title", l.cfg.TitleColumn)
	if err != nil {
		return "", err
	}
	vote, err := require("vote", l.cfg.VoteColumn)
	if err != nil {
		return "", err
	}

	var features string
	if actual, ok := columns[strings.ToLower(l.cfg.FeaturesColumn)]; ok && l.cfg.FeaturesColumn != "" {
		features = quoteIdent(actual)
	} else if len(l.cfg.FeatureColumns) > 0 {
		parts := make([]string, 0, len(l.cfg.FeatureColumns))
		for _, name := range l.cfg.FeatureColumns {
			col, err := require("feature", name)
			if err != nil {
				return "", err
			}
			parts = append(parts, "CAST("+col+" AS VARCHAR)")
		}
		features = "concat_ws(' ', " + strings.Join(parts, ", ") + ")"
	} else {
		return "", fmt.Errorf("%w: features column %q and no feature_columns configured", ErrMissingColumn, l.cfg.FeaturesColumn)
	}

	poster := "''"
	if actual, ok := columns[strings.ToLower(l.cfg.PosterColumn)]; ok && l.cfg.PosterColumn != "" {
		poster = "COALESCE(CAST(" + quoteIdent(actual) + " AS VARCHAR), '')"
	} else {
		l.log.Debug().Str("column", l.cfg.PosterColumn).Msg("Poster column not present, posters will be empty")
	}

	return fmt.Sprintf(`SELECT
			COALESCE(CAST(%s AS VARCHAR), ''),
			COALESCE(CAST(%s AS VARCHAR), ''),
			COALESCE(TRY_CAST(%s AS DOUBLE), 0),
			%s
		FROM %s`, title, features, vote, poster, source), nil
}

// describe returns the source's columns keyed by lowercased name.
func describe(ctx context.Context, conn *sql.DB, source string) (map[string]string, error) {
	rows, err := conn.QueryContext(ctx, "DESCRIBE SELECT * FROM "+source)
	if err != nil {
		return nil, fmt.Errorf("describe dataset: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // rows.Err is checked below

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("describe dataset: %w", err)
	}

	columns := make(map[string]string)
	for rows.Next() {
		dest := make([]interface{}, len(cols))
		values := make([]sql.NullString, len(cols))
		for i := range dest {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan column description: %w", err)
		}
		name := values[0].String
		columns[strings.ToLower(name)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe dataset: %w", err)
	}
	return columns, nil
}

// sourceExpr returns the DuckDB table function reading path.
func sourceExpr(path, format string) (string, error) {
	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}
	lit := quoteLiteral(path)
	switch format {
	case FormatParquet:
		return "read_parquet(" + lit + ")", nil
	case FormatCSV:
		return "read_csv_auto(" + lit + ", header = true)", nil
	case FormatJSON:
		return "read_json_auto(" + lit + ")", nil
	default:
		return "", fmt.Errorf("dataset %s: unsupported format %q", path, format)
	}
}

// DetectFormat infers the format from the file extension.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return FormatParquet
	case ".csv", ".tsv":
		return FormatCSV
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON
	default:
		return ""
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func closeQuietly(conn *sql.DB) {
	if conn != nil {
		_ = conn.Close() //nolint:errcheck // cleanup is best-effort
	}
}
