// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package ratings turns raw (userId, movieId, rating) records into the dense
// user-by-movie matrix that every recommender in Movierec is built from.
//
// # Records
//
// A Rating is one row of the ratings table. Ratings that are missing or do not
// parse as a number are coerced to 0 rather than dropped, so a malformed cell
// still registers the user and the movie in the matrix.
//
// A Movie is one row of the catalog table (movieId, title, genres).
//
// # Matrix
//
// NewMatrix collapses the records into a gonum dense matrix:
//
//   - rows are the distinct user ids sorted ascending
//   - columns are the distinct movie ids sorted ascending
//   - cell (u, m) is the rating of m by u, or 0 when u never rated m
//
// Repeated (user, movie) pairs are resolved by a DuplicatePolicy. The default,
// DuplicateLast, keeps the last record seen; DuplicateMean averages all of them.
//
// A Matrix is immutable after construction. Consumers that need to own their
// data call Clone.
//
// # Sources
//
// ReadRatingsCSV and ReadMoviesCSV parse headered CSV input and report schema
// problems as *LoadError. The database package provides a DuckDB-backed source
// producing the same records.
package ratings
