// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/cache"
	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/validation"
)

// Operation names used in logs and metrics.
const (
	OperationRecommend = "recommend"
	OperationSimilar   = "similar"
)

// Service is the public face of the recommender: it validates requests,
// selects an engine (falling back from factorization to classic when the
// former is unavailable), resolves ranked ids through the catalog, and
// caches results.
//
// Service is safe for concurrent use once NewService returns.
type Service struct {
	cfg     *Config
	catalog *catalog.Catalog
	engines Engines
	cache   *cache.LRU[cachedResult]
	logger  zerolog.Logger
}

type cachedResult struct {
	items       []catalog.Entry
	engine      Engine
	generatedAt time.Time
}

// NewService wires constructed engines to the catalog.
// A nil cfg selects DefaultConfig. engines.Classic is required.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(cfg *Config, cat *catalog.Catalog, engines Engines, logger zerolog.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if engines.Classic == nil {
		return nil, errors.New("classic engine is required")
	}
	if engines.Factorization == nil && engines.FactorizationErr == nil {
		engines.FactorizationErr = &FactorizationUnavailableError{Reason: "disabled"}
	}

	s := &Service{
		cfg:     cfg,
		catalog: cat,
		engines: engines,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		s.cache = cache.NewLRU[cachedResult](cfg.Cache.Size, cfg.Cache.TTL)
	}

	metrics.SetEngineAvailable(string(EngineClassic), true)
	metrics.SetEngineAvailable(string(EngineNMF), engines.Factorization != nil)

	if cfg.DefaultEngine == EngineNMF && engines.Factorization == nil {
		s.logger.Warn().
			Err(engines.FactorizationErr).
			Msg("Default engine is nmf but factorization is unavailable; requests will fall back to classic")
	}

	return s, nil
}

// RecommendForUser returns up to req.TopN catalog entries the user has not rated, best first.
//
// Errors: *UnknownUserError, *DegenerateCatalogError (classic engine with
// fewer than two movies), *catalog.UnknownCatalogEntryError, or an error
// matching ErrInvalidRequest.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) RecommendForUser(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	ctx, requestID := logging.EnsureRequestID(ctx)

	requested := req.Engine
	if requested == "" {
		requested = s.cfg.DefaultEngine
	}

	logger := logging.Ctx(ctx, s.logger).With().
		Str("operation", OperationRecommend).
		Int("user_id", req.UserID).
		Str("requested_engine", string(requested)).
		Logger()

	res, err := s.recommendForUser(ctx, req, requested, logger)
	served := requested
	if res != nil {
		served = res.Engine
	}
	metrics.RecordRequest(OperationRecommend, string(served), Outcome(err), time.Since(start))

	if err != nil {
		logger.Debug().Err(err).Str("outcome", Outcome(err)).Msg("Recommendation failed")
		return nil, err
	}

	res.RequestID = requestID
	logger.Debug().
		Str("engine", string(res.Engine)).
		Int("returned", len(res.Items)).
		Bool("cache_hit", res.CacheHit).
		Dur("took", time.Since(start)).
		Msg("Recommendation complete")
	return res, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) recommendForUser(ctx context.Context, req Request, requested Engine, logger zerolog.Logger) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, verr)
	}
	topN, err := s.resolveTopN(req.TopN, s.cfg.DefaultTopN)
	if err != nil {
		return nil, err
	}

	served, reason := s.selectEngine(requested, logger)

	key := fmt.Sprintf("%s:%d:%d:%s", OperationRecommend, req.UserID, topN, served)
	if res := s.lookupCache(key, requested, reason); res != nil {
		return res, nil
	}

	var ids []int
	if served == EngineNMF {
		ids, err = s.engines.Factorization.RecommendForUser(req.UserID, topN)
	} else {
		ids, err = s.engines.Classic.RecommendForUser(req.UserID, topN)
	}
	if err != nil {
		return nil, err
	}

	return s.resolve(key, ids, requested, served, reason)
}

// SimilarItems returns up to req.TopN catalog entries most similar to req.MovieID,
// never including the movie itself. It always uses the classic engine.
//
// Errors: *UnknownMovieError, *DegenerateCatalogError,
// *catalog.UnknownCatalogEntryError, or an error matching ErrInvalidRequest.
func (s *Service) SimilarItems(ctx context.Context, req SimilarRequest) (*Result, error) {
	start := time.Now()
	ctx, requestID := logging.EnsureRequestID(ctx)

	logger := logging.Ctx(ctx, s.logger).With().
		Str("operation", OperationSimilar).
		Int("movie_id", req.MovieID).
		Logger()

	res, err := s.similarItems(ctx, req)
	metrics.RecordRequest(OperationSimilar, string(EngineClassic), Outcome(err), time.Since(start))

	if err != nil {
		logger.Debug().Err(err).Str("outcome", Outcome(err)).Msg("Similar items failed")
		return nil, err
	}

	res.RequestID = requestID
	logger.Debug().
		Int("returned", len(res.Items)).
		Bool("cache_hit", res.CacheHit).
		Dur("took", time.Since(start)).
		Msg("Similar items complete")
	return res, nil
}

func (s *Service) similarItems(ctx context.Context, req SimilarRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, verr)
	}
	topN, err := s.resolveTopN(req.TopN, s.cfg.DefaultSimilarTopN)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:%d:%d", OperationSimilar, req.MovieID, topN)
	if res := s.lookupCache(key, EngineClassic, ""); res != nil {
		return res, nil
	}

	ids, err := s.engines.Classic.SimilarItems(req.MovieID, topN)
	if err != nil {
		return nil, err
	}

	return s.resolve(key, ids, EngineClassic, EngineClassic, "")
}

// resolveTopN applies the default for 0 and rejects values above MaxTopN.
func (s *Service) resolveTopN(topN, def int) (int, error) {
	switch {
	case topN == 0:
		return def, nil
	case topN < 0:
		return 0, fmt.Errorf("%w: top_n must not be negative, got %d", ErrInvalidRequest, topN)
	case topN > s.cfg.MaxTopN:
		return 0, fmt.Errorf("%w: top_n %d exceeds maximum %d", ErrInvalidRequest, topN, s.cfg.MaxTopN)
	default:
		return topN, nil
	}
}

// selectEngine returns the engine that will serve requested and, on fallback, why.
// Fallback is logged and counted every time it happens.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *Service) selectEngine(requested Engine, logger zerolog.Logger) (Engine, string) {
	if s.Available(requested) {
		return requested, ""
	}

	reason := s.engines.FactorizationErr.Error()
	metrics.RecordFallback(string(EngineNMF), string(EngineClassic))
	logger.Warn().
		Str("served_engine", string(EngineClassic)).
		Str("reason", reason).
		Msg("Factorization engine unavailable, falling back to classic")
	return EngineClassic, reason
}

// lookupCache returns a copy of the cached ranking. The fallback reason comes
// from the current request, never from the request that filled the entry.
func (s *Service) lookupCache(key string, requested Engine, reason string) *Result {
	if s.cache == nil {
		return nil
	}
	cached, ok := s.cache.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil
	}
	return &Result{
		Items:           append([]catalog.Entry(nil), cached.items...),
		Engine:          cached.engine,
		RequestedEngine: requested,
		FallbackReason:  reason,
		CacheHit:        true,
		GeneratedAt:     cached.generatedAt,
	}
}

func (s *Service) resolve(key string, ids []int, requested, served Engine, reason string) (*Result, error) {
	items, err := s.catalog.Lookup(ids)
	if err != nil {
		s.logger.Error().Err(err).Ints("movie_ids", ids).Msg("Ranked movie missing from catalog")
		return nil, err
	}

	res := &Result{
		Items:           items,
		Engine:          served,
		RequestedEngine: requested,
		FallbackReason:  reason,
		GeneratedAt:     time.Now().UTC(),
	}

	if s.cache != nil {
		s.cache.Add(key, cachedResult{
			items:          append([]catalog.Entry(nil), items...),
			engine:      served,
			generatedAt: res.GeneratedAt,
		})
	}
	return res, nil
}

// Available reports whether engine can serve requests without fallback.
func (s *Service) Available(engine Engine) bool {
	switch engine {
	case EngineClassic:
		return true
	case EngineNMF:
		return s.engines.Factorization != nil
	default:
		return false
	}
}

// Status returns dimensions, engine availability, and cache statistics.
func (s *Service) Status() Status {
	users, movies := s.engines.Classic.Dims()
	st := Status{
		Users:         users,
		Movies:        movies,
		CatalogSize:   s.catalog.Len(),
		DefaultEngine: s.cfg.DefaultEngine,
		Engines: []EngineStatus{
			{Engine: EngineClassic, Available: s.Available(EngineClassic)},
			{Engine: EngineNMF, Available: s.Available(EngineNMF)},
		},
	}

	if s.engines.Factorization != nil {
		info := s.engines.Factorization.Info()
		st.Factorization = &info
	} else {
		st.Engines[1].Reason = s.engines.FactorizationErr.Error()
	}

	if s.cache != nil {
		hits, misses, size := s.cache.Stats()
		st.Cache = &CacheStats{Hits: hits, Misses: misses, Size: size}
	}
	return st
}

// Users lists every known user id in ascending order.
func (s *Service) Users() []int {
	return s.engines.Classic.UserIDs()
}

// Movies lists the whole catalog sorted by title.
func (s *Service) Movies() []catalog.Entry {
	return s.catalog.Entries()
}
