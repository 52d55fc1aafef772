// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package database loads the ratings and movies tables through DuckDB.
//
// Each table comes either from a named table in a DuckDB database file or from
// a CSV file scanned with read_csv. Every cell is read as text and parsed with
// the same rules as the plain CSV loader in package ratings, so both sources
// agree on id parsing and rating coercion.
package database
