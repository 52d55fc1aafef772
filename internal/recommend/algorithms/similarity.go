// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package algorithms

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/movierec/internal/ratings"
)

// ItemSimilarity is the symmetric movie-by-movie cosine similarity matrix.
//
// A movie with no non-zero ratings has similarity 0 to every movie,
// including itself. Every other movie has self-similarity exactly 1.
type ItemSimilarity struct {
	// sim is nil when fewer than two movies exist.
	sim    *mat.SymDense
	movies int
}

// NewItemSimilarity computes cosine similarity between the matrix columns.
func NewItemSimilarity(m *ratings.Matrix) *ItemSimilarity {
	_, movies := m.Dims()
	s := &ItemSimilarity{movies: movies}
	if movies < 2 || m.Empty() {
		return s
	}

	// Unit-normalize each column, then S = NᵀN.
	n := mat.DenseCopyOf(m.Dense())
	rows, _ := n.Dims()
	nonZero := make([]bool, movies)
	for j := 0; j < movies; j++ {
		norm := mat.Norm(n.ColView(j), 2)
		if norm == 0 {
			continue
		}
		nonZero[j] = true
		for i := 0; i < rows; i++ {
			n.Set(i, j, n.At(i, j)/norm)
		}
	}

	var sim mat.SymDense
	sim.SymOuterK(1, n.T())

	for i := 0; i < movies; i++ {
		if nonZero[i] {
			sim.SetSym(i, i, 1)
		}
		for j := i + 1; j < movies; j++ {
			sim.SetSym(i, j, clampUnit(sim.At(i, j)))
		}
	}

	s.sim = &sim
	return s
}

// Degenerate reports whether similarity is undefined (fewer than two movies).
func (s *ItemSimilarity) Degenerate() bool {
	return s.sim == nil
}

// Len returns the number of movies.
func (s *ItemSimilarity) Len() int {
	return s.movies
}

// At returns the similarity of columns i and j. It panics when Degenerate.
func (s *ItemSimilarity) At(i, j int) float64 {
	return s.sim.At(i, j)
}

// Row returns a copy of the similarities of column i to every column.
func (s *ItemSimilarity) Row(i int) []float64 {
	return mat.Row(nil, i, s.sim)
}

// Scores returns S·r, the similarity-weighted sum of a rating row.
func (s *ItemSimilarity) Scores(r []float64) []float64 {
	out := mat.NewVecDense(s.movies, nil)
	out.MulVec(s.sim, mat.NewVecDense(s.movies, r))
	return out.RawVector().Data
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
