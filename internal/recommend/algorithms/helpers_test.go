// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package algorithms

import (
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/ratings"
)

var testLogger = zerolog.New(io.Discard)

func newMatrix(t *testing.T, records []ratings.Rating) *ratings.Matrix {
	t.Helper()
	m, _, err := ratings.NewMatrix(records, ratings.DuplicateLast)
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}
	return m
}

// scenarioRatings: u1 rated m1, m2; u2 rated m1, m3.
func scenarioRatings() []ratings.Rating {
	return []ratings.Rating{
		{UserID: 1, MovieID: 1, Value: 5},
		{UserID: 1, MovieID: 2, Value: 1},
		{UserID: 2, MovieID: 1, Value: 4},
		{UserID: 2, MovieID: 3, Value: 5},
	}
}

// gridRatings returns a 6 user by 8 movie matrix with two taste clusters.
func gridRatings() []ratings.Rating {
	rows := [][]float64{
		{5, 4, 0, 0, 1, 0, 0, 0},
		{4, 5, 4, 0, 0, 0, 1, 0},
		{0, 4, 5, 0, 0, 1, 0, 0},
		{0, 0, 1, 5, 4, 0, 0, 4},
		{1, 0, 0, 4, 5, 5, 0, 0},
		{0, 0, 0, 0, 4, 5, 4, 5},
	}
	var out []ratings.Rating
	for u, row := range rows {
		for m, v := range row {
			if v == 0 {
				continue
			}
			out = append(out, ratings.Rating{UserID: u + 1, MovieID: (m + 1) * 10, Value: v})
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
