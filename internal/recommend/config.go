// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"fmt"
	"time"
)

// Config contains the request-handling settings of the Service.
type Config struct {
	// DefaultEngine is used when a request does not name one.
	DefaultEngine Engine `json:"default_engine"`

	// DefaultTopN applies to user recommendations with TopN == 0.
	DefaultTopN int `json:"default_top_n"`

	// DefaultSimilarTopN applies to similar-item requests with TopN == 0.
	DefaultSimilarTopN int `json:"default_similar_top_n"`

	// MaxTopN rejects larger requests.
	MaxTopN int `json:"max_top_n"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	Size    int           `json:"size"`
	TTL     time.Duration `json:"ttl"`
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultEngine:      EngineClassic,
		DefaultTopN:        8,
		DefaultSimilarTopN: 6,
		MaxTopN:            100,
		Cache: CacheConfig{
			Enabled: true,
			Size:    1024,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := ParseEngine(string(c.DefaultEngine)); err != nil {
		return fmt.Errorf("default_engine: %w", err)
	}
	if c.MaxTopN < 1 {
		return fmt.Errorf("max_top_n must be positive, got %d", c.MaxTopN)
	}
	if c.DefaultTopN < 1 || c.DefaultTopN > c.MaxTopN {
		return fmt.Errorf("default_top_n must be in [1, %d], got %d", c.MaxTopN, c.DefaultTopN)
	}
	if c.DefaultSimilarTopN < 1 || c.DefaultSimilarTopN > c.MaxTopN {
		return fmt.Errorf("default_similar_top_n must be in [1, %d], got %d", c.MaxTopN, c.DefaultSimilarTopN)
	}
	if c.Cache.Enabled {
		if c.Cache.Size < 1 {
			return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
	}
	return nil
}
