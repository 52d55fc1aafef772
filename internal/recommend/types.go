// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/movierec/internal/catalog"
)

// Engine selects the scoring method for user recommendations.
type Engine string

const (
	// EngineClassic scores unseen movies by item-item cosine similarity.
	EngineClassic Engine = "classic"

	// EngineNMF scores unseen movies from a non-negative matrix factorization.
	EngineNMF Engine = "nmf"
)

// ParseEngine converts a string to an Engine. Empty input is rejected;
// callers substitute their configured default first.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineClassic, EngineNMF:
		return Engine(s), nil
	default:
		return "", fmt.Errorf("%w: unknown engine %q: must be one of classic, nmf", ErrInvalidRequest, s)
	}
}

// Request asks for movies a user has not rated yet.
type Request struct {
	// UserID identifies the user row.
	UserID int `json:"user_id"`

	// TopN caps the result length. Zero selects the configured default.
	TopN int `json:"top_n" validate:"min=0"`

	// Engine selects the scorer. Empty selects the configured default.
	Engine Engine `json:"engine,omitempty" validate:"omitempty,oneof=classic nmf"`
}

// SimilarRequest asks for movies similar to a given movie.
type SimilarRequest struct {
	MovieID int `json:"movie_id"`
	TopN    int `json:"top_n" validate:"min=0"`
}

// Result is a ranked, catalog-resolved recommendation list.
type Result struct {
	// Items are ordered by descending score.
	Items []catalog.Entry `json:"items"`

	// Engine is the engine that produced Items.
	Engine Engine `json:"engine"`

	// RequestedEngine is the engine the caller asked for.
	RequestedEngine Engine `json:"requested_engine"`

	// FallbackReason is set when Engine differs from RequestedEngine.
	FallbackReason string `json:"fallback_reason,omitempty"`

	RequestID   string    `json:"request_id"`
	CacheHit    bool      `json:"cache_hit"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Fallback reports whether the result came from a different engine than requested.
func (r *Result) Fallback() bool {
	return r.Engine != r.RequestedEngine
}

// ClassicRecommender is the item-similarity engine. It serves both operations.
type ClassicRecommender interface {
	// RecommendForUser returns up to topN unrated movie ids, best first.
	RecommendForUser(userID, topN int) ([]int, error)

	// SimilarItems returns up to topN movie ids most similar to movieID, excluding it.
	SimilarItems(movieID, topN int) ([]int, error)

	// UserIDs lists every known user in ascending order.
	UserIDs() []int

	// Dims returns the rating matrix dimensions.
	Dims() (users, movies int)
}

// FactorizationRecommender is the matrix-factorization engine.
type FactorizationRecommender interface {
	RecommendForUser(userID, topN int) ([]int, error)
	Info() FactorizationInfo
}

// FactorizationInfo describes a fitted factorization.
type FactorizationInfo struct {
	Rank                int           `json:"rank"`
	Iterations          int           `json:"iterations"`
	Converged           bool          `json:"converged"`
	ReconstructionError float64       `json:"reconstruction_error"`
	Init                string        `json:"init"`
	FromSnapshot        bool          `json:"from_snapshot"`
	FitDuration         time.Duration `json:"fit_duration"`
}

// Engines bundles the constructed recommenders handed to NewService.
type Engines struct {
	Classic ClassicRecommender

	// Factorization is nil when FactorizationErr explains why it could not be built.
	Factorization    FactorizationRecommender
	FactorizationErr error
}

// EngineStatus reports availability of one engine.
type EngineStatus struct {
	Engine    Engine `json:"engine"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CacheStats reports result cache efficiency.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Status is a point-in-time view of the service.
type Status struct {
	Users         int                `json:"users"`
	Movies        int                `json:"movies"`
	CatalogSize   int                `json:"catalog_size"`
	DefaultEngine Engine             `json:"default_engine"`
	Engines       []EngineStatus     `json:"engines"`
	Factorization *FactorizationInfo `json:"factorization,omitempty"`
	Cache         *CacheStats        `json:"cache,omitempty"`
}
