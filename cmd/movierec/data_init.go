// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/cli"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/database"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/ratings"
)

// dataset is the immutable input shared by every engine.
type dataset struct {
	matrix  *ratings.Matrix
	catalog *catalog.Catalog
}

// rawTables is what a source returns before the matrix is built.
type rawTables struct {
	ratings []ratings.Rating
	stats   ratings.LoadStats
	movies  []ratings.Movie
}

// loadData reads both tables, builds the matrix and checks catalog coverage.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func loadData(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*dataset, error) {
	start := time.Now()

	var (
		raw *rawTables
		err error
	)
	switch cfg.Data.Source {
	case config.SourceDuckDB:
		raw, err = loadFromDuckDB(ctx, cfg, logger)
	default:
		raw, err = loadFromCSV(cfg)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordRatingsLoad(cfg.Data.Source, raw.stats.Records, raw.stats.Coerced)
	if raw.stats.Coerced > 0 {
		logger.Warn().
			Int("coerced", raw.stats.Coerced).
			Msg("Missing or non-numeric ratings treated as 0")
	}

	policy, err := ratings.ParseDuplicatePolicy(cfg.Data.DuplicatePolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrConfig, err)
	}
	matrix, build, err := ratings.NewMatrix(raw.ratings, policy)
	if err != nil {
		return nil, err
	}
	metrics.RecordMatrix(build.Users, build.Movies, build.Duplicates)

	cat := catalog.New(raw.movies)
	if missing := cat.Missing(matrix.MovieIDs()); len(missing) > 0 {
		if cfg.Data.StrictCatalog {
			return nil, &catalog.UnknownCatalogEntryError{MovieID: missing[0]}
		}
		logger.Warn().
			Int("missing", len(missing)).
			Int("first_movie_id", missing[0]).
			Msg("Rated movies without a catalog entry; requests that rank them will fail")
	}

	logger.Info().
		Str("source", cfg.Data.Source).
		Int("records", build.Records).
		Int("users", build.Users).
		Int("movies", build.Movies).
		Int("duplicates", build.Duplicates).
		Int("catalog", cat.Len()).
		Dur("took", time.Since(start)).
		Msg("Ratings matrix built")

	return &dataset{matrix: matrix, catalog: cat}, nil
}

// loadFromCSV reads the two files concurrently.
func loadFromCSV(cfg *config.Config) (*rawTables, error) {
	raw := &rawTables{}
	var g errgroup.Group

	g.Go(func() error {
		var err error
		raw.ratings, raw.stats, err = ratings.LoadRatingsFile(cfg.Data.RatingsPath)
		return err
	})
	g.Go(func() error {
		var err error
		raw.movies, err = ratings.LoadMoviesFile(cfg.Data.MoviesPath)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raw, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func loadFromDuckDB(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*rawTables, error) {
	src, err := database.Open(ctx, database.Config{
		Path:         cfg.Data.DuckDBPath,
		RatingsTable: cfg.Data.RatingsTable,
		MoviesTable:  cfg.Data.MoviesTable,
		RatingsPath:  cfg.Data.RatingsPath,
		MoviesPath:   cfg.Data.MoviesPath,
	}, logger)
	if err != nil {
		source := cfg.Data.DuckDBPath
		if source == "" {
			source = ":memory:"
		}
		return nil, &ratings.LoadError{Source: source, Err: err}
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close DuckDB source")
		}
	}()

	raw := &rawTables{}
	if raw.ratings, raw.stats, err = src.LoadRatings(ctx); err != nil {
		return nil, err
	}
	if raw.movies, err = src.LoadMovies(ctx); err != nil {
		return nil, err
	}
	return raw, nil
}
