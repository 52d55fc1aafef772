// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package config loads Movierec configuration with Koanf v2.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Built-in defaults
//  2. YAML file: --config flag, CONFIG_PATH, movierec.yaml, config.yaml, /etc/movierec/config.yaml
//  3. Environment variables (RATINGS_PATH, NMF_RANK, LOG_LEVEL, ...)
//
// Example file:
//
//	data:
//	  source: duckdb
//	  duckdb_path: /var/lib/movierec/ratings.duckdb
//	  ratings_table: ratings
//	  movies_table: movies
//	recommend:
//	  default_engine: nmf
//	  nmf:
//	    rank: 20
//	    model_cache_dir: /var/cache/movierec
//	logging:
//	  level: debug
//	  format: json
//
// Usage:
//
//	cfg, err := config.LoadWithKoanf(flagPath)
//	if err != nil {
//	    return err
//	}
//
// Validation combines validator v10 struct tags with cross-field checks
// (table names require the duckdb source, default top-n within the max, and so on).
package config
