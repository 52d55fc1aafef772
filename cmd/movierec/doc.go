// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package main is the entry point for the movierec command.

movierec answers movie recommendation queries from a MovieLens-style ratings
table and movie catalog.

# Application Architecture

Each invocation builds the recommender once, answers one command, and exits.
Components are initialized in this order:

 1. Configuration: Koanf v2 with struct defaults, an optional YAML file and environment variables
 2. Logging: zerolog with JSON/console output modes (stderr)
 3. Data: ratings and catalog from CSV files or DuckDB (tables or read_csv)
 4. Matrix: dense user x movie ratings, duplicates collapsed per policy
 5. Engines: classic item similarity and NMF factorization, built concurrently
 6. Service: engine selection with classic fallback, result cache, metrics

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
  - Environment variables (RATINGS_PATH, MOVIES_PATH, RECOMMEND_ENGINE, NMF_RANK, ...)
  - Config file (--config, CONFIG_PATH, movierec.yaml, config.yaml, /etc/movierec/config.yaml)
  - Built-in defaults

# Example Usage

	movierec users
	movierec recommend --user 1 --top 8
	movierec recommend --user 1 --engine nmf --format json
	movierec similar --movie 1 --top 6
	movierec status

Reading from DuckDB tables:

	export DATA_SOURCE=duckdb
	export DUCKDB_PATH=/data/movielens.duckdb
	export DUCKDB_RATINGS_TABLE=ratings
	export DUCKDB_MOVIES_TABLE=movies
	movierec status

Reusing fitted factors across runs:

	export NMF_MODEL_CACHE_DIR=/var/cache/movierec
	movierec recommend --user 1 --engine nmf

# Exit Codes

	0  success
	1  the request could not be answered (unknown user or movie, degenerate data)
	2  bad flags, configuration or input tables
*/
package main
