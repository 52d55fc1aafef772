// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"fmt"
	"path/filepath"

	"github.com/tomtom215/movierec/internal/validation"
)

// Validate checks struct tags first, then rules spanning several fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateData(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateData() error {
	d := &c.Data
	if d.MoviesTable == "" && d.MoviesPath == "" {
		return fmt.Errorf("data.movies_path is required when data.movies_table is not set")
	}
	if d.RatingsTable == "" && d.RatingsPath == "" {
		return fmt.Errorf("data.ratings_path is required when data.ratings_table is not set")
	}

	if d.Source == SourceCSV {
		if d.MoviesTable != "" || d.RatingsTable != "" {
			return fmt.Errorf("data.movies_table and data.ratings_table require data.source=duckdb")
		}
		if d.MoviesPath == "" || d.RatingsPath == "" {
			return fmt.Errorf("data.movies_path and data.ratings_path are required for data.source=csv")
		}
	}

	if d.DuckDBPath != "" && filepath.Ext(d.DuckDBPath) == ".csv" {
		return fmt.Errorf("data.duckdb_path %q looks like a CSV file, set data.ratings_path instead", d.DuckDBPath)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.DefaultTopN > r.MaxTopN {
		return fmt.Errorf("recommend.default_top_n (%d) exceeds recommend.max_top_n (%d)", r.DefaultTopN, r.MaxTopN)
	}
	if r.DefaultSimilarTopN > r.MaxTopN {
		return fmt.Errorf("recommend.default_similar_top_n (%d) exceeds recommend.max_top_n (%d)", r.DefaultSimilarTopN, r.MaxTopN)
	}
	if r.CacheEnabled {
		if r.CacheSize < 1 {
			return fmt.Errorf("recommend.cache_size must be positive when the cache is enabled, got %d", r.CacheSize)
		}
		if r.CacheTTL <= 0 {
			return fmt.Errorf("recommend.cache_ttl must be positive when the cache is enabled, got %v", r.CacheTTL)
		}
	}
	if r.DefaultEngine == "nmf" && !r.NMF.Enabled {
		return fmt.Errorf("recommend.default_engine=nmf requires recommend.nmf.enabled")
	}
	return nil
}
