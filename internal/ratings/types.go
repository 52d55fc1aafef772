// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package ratings

import "fmt"

// Rating is a single (user, movie, rating) record.
type Rating struct {
	UserID  int     `json:"userId"`
	MovieID int     `json:"movieId"`
	Value   float64 `json:"rating"`
}

// Movie is a catalog row.
type Movie struct {
	MovieID int    `json:"movieId"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
}

// DuplicatePolicy decides how repeated (user, movie) pairs collapse into one cell.
type DuplicatePolicy string

const (
	// DuplicateLast keeps the rating from the last record for the pair.
	DuplicateLast DuplicatePolicy = "last"

	// DuplicateMean averages every rating recorded for the pair.
	DuplicateMean DuplicatePolicy = "mean"
)

// ParseDuplicatePolicy converts a configuration string to a DuplicatePolicy.
// An empty string selects DuplicateLast.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", DuplicateLast:
		return DuplicateLast, nil
	case DuplicateMean:
		return DuplicateMean, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q: must be one of last, mean", s)
	}
}

// LoadStats summarizes what a source did while producing records.
type LoadStats struct {
	// Records is the number of data rows read.
	Records int `json:"records"`

	// Coerced counts ratings that were missing or non-numeric and became 0.
	Coerced int `json:"coerced"`
}

// BuildStats summarizes matrix construction.
type BuildStats struct {
	Records    int `json:"records"`
	Users      int `json:"users"`
	Movies     int `json:"movies"`
	Duplicates int `json:"duplicates"`
}
