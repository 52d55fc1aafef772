// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

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

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"movierec.yaml",
	"config.yaml",
	"/etc/movierec/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before the file and env layers.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source:          SourceCSV,
			MoviesPath:      "data/movies.csv",
			RatingsPath:     "data/ratings.csv",
			DuckDBPath:      "", // in-memory
			DuplicatePolicy: "last",
			StrictCatalog:   false,
		},
		Recommend: RecommendConfig{
			DefaultEngine:      "classic",
			DefaultTopN:        8,
			DefaultSimilarTopN: 6,
			MaxTopN:            100,
			CacheEnabled:       true,
			CacheSize:          1024,
			CacheTTL:           10 * time.Minute,
			NMF: NMFConfig{
				Enabled:       true,
				Rank:          15,
				MaxIterations: 500,
				Tolerance:     1e-4,
				Init:          "nndsvda",
				Seed:          42,
				Shuffle:       false,
				ModelCacheDir: "",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: explicitPath if set, else the first of CONFIG_PATH and DefaultConfigPaths that exists
//  3. Environment Variables: mapped names only (see envTransformFunc)
//
// An explicitPath that does not exist is an error; a missing default file is not.
func LoadWithKoanf(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := explicitPath
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
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

// findConfigFile returns the first existing config file, or "".
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

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"data_source":              "data.source",
	"movies_path":              "data.movies_path",
	"ratings_path":             "data.ratings_path",
	"duckdb_path":              "data.duckdb_path",
	"duckdb_movies_table":      "data.movies_table",
	"duckdb_ratings_table":     "data.ratings_table",
	"ratings_duplicate_policy": "data.duplicate_policy",
	"strict_catalog":           "data.strict_catalog",

	"recommend_engine":         "recommend.default_engine",
	"recommend_top_n":          "recommend.default_top_n",
	"recommend_similar_top_n":  "recommend.default_similar_top_n",
	"recommend_max_top_n":      "recommend.max_top_n",
	"recommend_cache_enabled":  "recommend.cache_enabled",
	"recommend_cache_size":     "recommend.cache_size",
	"recommend_cache_ttl":      "recommend.cache_ttl",
	"nmf_enabled":              "recommend.nmf.enabled",
	"nmf_rank":                 "recommend.nmf.rank",
	"nmf_max_iterations":       "recommend.nmf.max_iterations",
	"nmf_tolerance":            "recommend.nmf.tolerance",
	"nmf_init":                 "recommend.nmf.init",
	"nmf_seed":                 "recommend.nmf.seed",
	"nmf_shuffle":              "recommend.nmf.shuffle",
	"nmf_model_cache_dir":      "recommend.nmf.model_cache_dir",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"metrics_textfile_path": "metrics.textfile_path",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped, so unrelated environment
// such as PATH or HOME never leaks into the configuration.
//
// Examples:
//   - RATINGS_PATH -> data.ratings_path
//   - NMF_RANK -> recommend.nmf.rank
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
