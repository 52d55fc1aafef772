// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/recommend/algorithms"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// snapshotsToKeep bounds the factor snapshot store.
const snapshotsToKeep = 5

// initRecommend builds both engines concurrently and wires them into a Service.
// Nothing is served until both builds finish. The returned cleanup closes the
// snapshot store.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, data *dataset, logger zerolog.Logger) (*recommend.Service, func(), error) {
	store := openSnapshotStore(cfg, logger)
	cleanup := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close snapshot store")
		}
	}

	// Assigned only when the store opened, so a nil *BadgerStore never
	// becomes a non-nil interface.
	var snapshots algorithms.SnapshotStore
	if store != nil {
		snapshots = store
	}

	var engines recommend.Engines
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		engines.Classic = algorithms.NewItemCF(data.matrix, logger.With().Str("engine", string(recommend.EngineClassic)).Logger())
		metrics.RecordEngineBuild(string(recommend.EngineClassic), time.Since(start))
		return nil
	})

	if cfg.Recommend.NMF.Enabled {
		g.Go(func() error {
			start := time.Now()
			f, err := algorithms.NewFactorization(gctx, data.matrix, buildNMFConfig(cfg), snapshots,
				logger.With().Str("engine", string(recommend.EngineNMF)).Logger())
			if err != nil {
				if errors.Is(err, recommend.ErrFactorizationUnavailable) {
					engines.FactorizationErr = err
					return nil
				}
				return err
			}
			engines.Factorization = f
			metrics.RecordEngineBuild(string(recommend.EngineNMF), time.Since(start))
			return nil
		})
	} else {
		engines.FactorizationErr = &recommend.FactorizationUnavailableError{Reason: "disabled by configuration"}
	}

	if err := g.Wait(); err != nil {
		cleanup()
		return nil, nil, err
	}

	if engines.Factorization == nil {
		logger.Warn().Err(engines.FactorizationErr).Msg("Factorization engine unavailable; nmf requests will be served by classic")
	}

	if store != nil {
		if n, err := store.Prune(ctx, snapshotsToKeep); err != nil {
			logger.Warn().Err(err).Msg("Failed to prune factor snapshots")
		} else if n > 0 {
			logger.Debug().Int("deleted", n).Msg("Pruned old factor snapshots")
		}
	}

	svc, err := recommend.NewService(buildServiceConfig(cfg), data.catalog, engines, logging.Logger())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// openSnapshotStore opens the Badger snapshot store when configured. Failure
// only disables snapshot reuse.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func openSnapshotStore(cfg *config.Config, logger zerolog.Logger) *storage.BadgerStore {
	dir := cfg.Recommend.NMF.ModelCacheDir
	if dir == "" || !cfg.Recommend.NMF.Enabled {
		return nil
	}
	store, err := storage.OpenBadgerStore(dir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("Factor snapshot store unavailable, fitting from scratch")
		return nil
	}
	return store
}

// buildNMFConfig creates the factorization configuration from app config.
func buildNMFConfig(cfg *config.Config) algorithms.NMFConfig {
	n := cfg.Recommend.NMF
	return algorithms.NMFConfig{
		Rank:          n.Rank,
		MaxIterations: n.MaxIterations,
		Tolerance:     n.Tolerance,
		Init:          algorithms.NMFInit(n.Init),
		Seed:          n.Seed,
		Shuffle:       n.Shuffle,
	}
}

// buildServiceConfig creates the service configuration from app config.
func buildServiceConfig(cfg *config.Config) *recommend.Config {
	r := cfg.Recommend
	return &recommend.Config{
		DefaultEngine:      recommend.Engine(r.DefaultEngine),
		DefaultTopN:        r.DefaultTopN,
		DefaultSimilarTopN: r.DefaultSimilarTopN,
		MaxTopN:            r.MaxTopN,
		Cache: recommend.CacheConfig{
			Enabled: r.CacheEnabled,
			Size:    r.CacheSize,
			TTL:     r.CacheTTL,
		},
	}
}
