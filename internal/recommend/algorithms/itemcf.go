// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package algorithms

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/ratings"
	"github.com/tomtom215/movierec/internal/recommend"
)

// ItemCF is the classic item-item collaborative filtering recommender.
// It is immutable after NewItemCF and safe for concurrent use.
//
// A user's score for movie j is the sum over the movies the user rated of
// similarity(j, m) * rating(m). Rated movies (rating > 0) are never returned.
type ItemCF struct {
	ratings *ratings.Matrix
	sim     *ItemSimilarity
}

var _ recommend.ClassicRecommender = (*ItemCF)(nil)

// NewItemCF builds the recommender from a private copy of m.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewItemCF(m *ratings.Matrix, logger zerolog.Logger) *ItemCF {
	start := time.Now()
	owned := m.Clone()
	sim := NewItemSimilarity(owned)

	users, movies := owned.Dims()
	logger.Info().
		Int("users", users).
		Int("movies", movies).
		Bool("degenerate", sim.Degenerate()).
		Dur("took", time.Since(start)).
		Msg("Item similarity built")

	return &ItemCF{ratings: owned, sim: sim}
}

// RecommendForUser returns up to topN unrated movie ids for userID, best first.
func (c *ItemCF) RecommendForUser(userID, topN int) ([]int, error) {
	row, ok := c.ratings.UserIndex(userID)
	if !ok {
		return nil, &recommend.UnknownUserError{UserID: userID}
	}
	if c.sim.Degenerate() {
		return nil, &recommend.DegenerateCatalogError{Movies: c.sim.Len()}
	}

	r := c.ratings.UserRow(row)
	scores := c.sim.Scores(r)
	ranked := recommend.TopN(scores, topN, func(j int) bool { return r[j] > 0 })
	return c.ratings.MovieIDsAt(ranked), nil
}

// SimilarItems returns up to topN movie ids most similar to movieID, never movieID itself.
func (c *ItemCF) SimilarItems(movieID, topN int) ([]int, error) {
	col, ok := c.ratings.MovieIndex(movieID)
	if !ok {
		return nil, &recommend.UnknownMovieError{MovieID: movieID}
	}
	if c.sim.Degenerate() {
		return nil, &recommend.DegenerateCatalogError{Movies: c.sim.Len()}
	}

	ranked := recommend.TopN(c.sim.Row(col), topN, func(j int) bool { return j == col })
	return c.ratings.MovieIDsAt(ranked), nil
}

// UserIDs lists the known users in ascending order.
func (c *ItemCF) UserIDs() []int {
	return c.ratings.UserIDs()
}

// MovieIDs lists the rated movies in ascending order.
func (c *ItemCF) MovieIDs() []int {
	return c.ratings.MovieIDs()
}

// Dims returns the rating matrix dimensions.
func (c *ItemCF) Dims() (users, movies int) {
	return c.ratings.Dims()
}
