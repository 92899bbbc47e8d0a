// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package dataset loads movie records from columnar files through DuckDB.

Parquet, CSV and JSON sources are read with read_parquet, read_csv_auto and
read_json_auto on an in-memory connection. Row order in the file becomes the
record's RowIndex, so the connection keeps preserve_insertion_order enabled.

# Columns

The title, features and vote columns are required; poster is optional and
detected with DESCRIBE. When the configured features column is absent, the
configured feature_columns are joined with concat_ws(' ', ...):

	dataset:
	  path: data/movies.parquet
	  features_column: combined_features
	  feature_columns: [genres, keywords, overview]

NULL text becomes the empty string and a NULL vote becomes 0.
*/
package dataset
