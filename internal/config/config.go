// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import "time"

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables (in increasing priority).
//
// Config is immutable after LoadWithKoanf and safe for concurrent reads.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// Data source names.
const (
	SourceCSV    = "csv"
	SourceDuckDB = "duckdb"
)

// DataConfig selects where ratings and the movie catalog come from.
//
// Environment Variables:
//   - DATA_SOURCE: csv or duckdb (default: csv)
//   - MOVIES_PATH, RATINGS_PATH: CSV files (also read by DuckDB when no table is set)
//   - DUCKDB_PATH: DuckDB database file, empty for in-memory
//   - DUCKDB_MOVIES_TABLE, DUCKDB_RATINGS_TABLE: read from tables instead of CSV files
//   - RATINGS_DUPLICATE_POLICY: last or mean (default: last)
//   - STRICT_CATALOG: fail when a rated movie has no catalog row (default: false)
type DataConfig struct {
	Source          string `koanf:"source" validate:"oneof=csv duckdb"`
	MoviesPath      string `koanf:"movies_path"`
	RatingsPath     string `koanf:"ratings_path"`
	DuckDBPath      string `koanf:"duckdb_path"`
	MoviesTable     string `koanf:"movies_table"`
	RatingsTable    string `koanf:"ratings_table"`
	DuplicatePolicy string `koanf:"duplicate_policy" validate:"oneof=last mean"`
	StrictCatalog   bool   `koanf:"strict_catalog"`
}

// RecommendConfig controls request handling and engine construction.
type RecommendConfig struct {
	DefaultEngine      string        `koanf:"default_engine" validate:"oneof=classic nmf"`
	DefaultTopN        int           `koanf:"default_top_n" validate:"min=1"`
	DefaultSimilarTopN int           `koanf:"default_similar_top_n" validate:"min=1"`
	MaxTopN            int           `koanf:"max_top_n" validate:"min=1"`
	CacheEnabled       bool          `koanf:"cache_enabled"`
	CacheSize          int           `koanf:"cache_size" validate:"min=0"`
	CacheTTL           time.Duration `koanf:"cache_ttl" validate:"min=0"`
	NMF                NMFConfig     `koanf:"nmf"`
}

// NMFConfig controls the factorization engine.
//
// Rank is clamped to the data at fit time, so a large rank on a small
// matrix is not an error.
type NMFConfig struct {
	Enabled       bool    `koanf:"enabled"`
	Rank          int     `koanf:"rank" validate:"min=1"`
	MaxIterations int     `koanf:"max_iterations" validate:"min=1"`
	Tolerance     float64 `koanf:"tolerance" validate:"gt=0"`
	Init          string  `koanf:"init" validate:"oneof=nndsvd nndsvda random"`
	Seed          int64   `koanf:"seed"`
	Shuffle       bool    `koanf:"shuffle"`

	// ModelCacheDir is a Badger directory for fitted factor snapshots. Empty disables it.
	ModelCacheDir string `koanf:"model_cache_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	// TextfilePath receives the Prometheus text exposition after each command,
	// for node_exporter's textfile collector. Empty disables the export.
	TextfilePath string `koanf:"textfile_path"`
}
