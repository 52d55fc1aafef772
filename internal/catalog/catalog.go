// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package catalog maps movie ids to display metadata.
//
// A Catalog is built once from the movies table and shared read-only by every
// recommender. It may list movies nobody rated; the reverse (a rated movie with
// no catalog row) surfaces as *UnknownCatalogEntryError at lookup time, or at
// load time when strict catalog checking is enabled.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/movierec/internal/ratings"
)

// ErrUnknownCatalogEntry matches every *UnknownCatalogEntryError.
var ErrUnknownCatalogEntry = errors.New("unknown catalog entry")

// UnknownCatalogEntryError reports a movie id with no catalog row.
type UnknownCatalogEntryError struct {
	MovieID int
}

func (e *UnknownCatalogEntryError) Error() string {
	return fmt.Sprintf("movie %d has no catalog entry", e.MovieID)
}

// Is lets errors.Is(err, ErrUnknownCatalogEntry) match.
func (e *UnknownCatalogEntryError) Is(target error) bool {
	return target == ErrUnknownCatalogEntry
}

// Entry is the display form of a movie.
type Entry struct {
	MovieID int    `json:"movieId"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
}

// GenreList splits the pipe-separated genres field.
func (e Entry) GenreList() []string {
	if e.Genres == "" || e.Genres == "(no genres listed)" {
		return nil
	}
	return strings.Split(e.Genres, "|")
}

// Catalog is an immutable id-to-entry index.
type Catalog struct {
	entries map[int]Entry

	// byTitle holds ids sorted by title, then id.
	byTitle []int
}

// New indexes movies. A repeated movieId keeps the last row.
func New(movies []ratings.Movie) *Catalog {
	c := &Catalog{entries: make(map[int]Entry, len(movies))}
	for _, m := range movies {
		c.entries[m.MovieID] = Entry{MovieID: m.MovieID, Title: m.Title, Genres: m.Genres}
	}

	c.byTitle = make([]int, 0, len(c.entries))
	for id := range c.entries {
		c.byTitle = append(c.byTitle, id)
	}
	sort.Slice(c.byTitle, func(i, j int) bool {
		a, b := c.entries[c.byTitle[i]], c.entries[c.byTitle[j]]
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.MovieID < b.MovieID
	})

	return c
}

// Len returns the number of distinct movies.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns the entry for one id.
func (c *Catalog) Get(movieID int) (Entry, bool) {
	e, ok := c.entries[movieID]
	return e, ok
}

// Lookup maps ids to entries in the same order.
// The first id without a catalog row fails the whole lookup.
func (c *Catalog) Lookup(ids []int) ([]Entry, error) {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		e, ok := c.entries[id]
		if !ok {
			return nil, &UnknownCatalogEntryError{MovieID: id}
		}
		out = append(out, e)
	}
	return out, nil
}

// Entries returns every entry sorted by title.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.byTitle))
	for i, id := range c.byTitle {
		out[i] = c.entries[id]
	}
	return out
}

// Missing returns the ids, in input order, that have no catalog row.
func (c *Catalog) Missing(ids []int) []int {
	var missing []int
	for _, id := range ids {
		if _, ok := c.entries[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
