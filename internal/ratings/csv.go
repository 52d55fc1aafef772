// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package ratings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column names expected in the input tables.
const (
	ColumnUserID  = "userId"
	ColumnMovieID = "movieId"
	ColumnRating  = "rating"
	ColumnTitle   = "title"
	ColumnGenres  = "genres"
)

// RatingsColumns and MoviesColumns list the required header of each table.
var (
	RatingsColumns = []string{ColumnUserID, ColumnMovieID, ColumnRating}
	MoviesColumns  = []string{ColumnMovieID, ColumnTitle, ColumnGenres}
)

// utf8BOM is stripped from the first header cell; spreadsheet exports often carry it.
const utf8BOM = "\ufeff"

// tableReader wraps csv.Reader with header-based column lookup.
type tableReader struct {
	source  string
	csv     *csv.Reader
	columns map[string]int
}

func newTableReader(r io.Reader, source string, required []string) (*tableReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Source: source, Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, wrapCSVError(source, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, &LoadError{Source: source, Line: 1, Column: col, Err: ErrMissingColumn}
		}
	}

	return &tableReader{source: source, csv: cr, columns: columns}, nil
}

// next returns the next record and its line number, or io.EOF.
func (t *tableReader) next() ([]string, int, error) {
	record, err := t.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		return nil, 0, wrapCSVError(t.source, err)
	}
	line, _ := t.csv.FieldPos(0)
	return record, line, nil
}

// field returns the trimmed value of a named column, or "" for short rows.
func (t *tableReader) field(record []string, column string) string {
	idx := t.columns[column]
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// id parses an integer id cell.
func (t *tableReader) id(record []string, line int, column string) (int, error) {
	raw := t.field(record, column)
	id, err := ParseID(raw)
	if err != nil {
		return 0, &LoadError{Source: t.source, Line: line, Column: column, Err: fmt.Errorf("%w: %q", ErrInvalidID, raw)}
	}
	return id, nil
}

// ReadRatingsCSV parses a headered ratings table with userId, movieId and rating
// columns. Extra columns such as timestamp are ignored.
func ReadRatingsCSV(r io.Reader, source string) ([]Rating, LoadStats, error) {
	var stats LoadStats

	tr, err := newTableReader(r, source, RatingsColumns)
	if err != nil {
		return nil, stats, err
	}

	var out []Rating
	for {
		record, line, err := tr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}

		userID, err := tr.id(record, line, ColumnUserID)
		if err != nil {
			return nil, stats, err
		}
		movieID, err := tr.id(record, line, ColumnMovieID)
		if err != nil {
			return nil, stats, err
		}

		value, ok := CoerceRating(tr.field(record, ColumnRating))
		if !ok {
			stats.Coerced++
		}

		out = append(out, Rating{UserID: userID, MovieID: movieID, Value: value})
		stats.Records++
	}

	return out, stats, nil
}

// ReadMoviesCSV parses a headered catalog table with movieId, title and genres columns.
func ReadMoviesCSV(r io.Reader, source string) ([]Movie, error) {
	tr, err := newTableReader(r, source, MoviesColumns)
	if err != nil {
		return nil, err
	}

	var out []Movie
	for {
		record, line, err := tr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		movieID, err := tr.id(record, line, ColumnMovieID)
		if err != nil {
			return nil, err
		}

		out = append(out, Movie{
			MovieID: movieID,
			Title:   tr.field(record, ColumnTitle),
			Genres:  tr.field(record, ColumnGenres),
		})
	}

	return out, nil
}

// LoadRatingsFile reads a ratings CSV from disk.
func LoadRatingsFile(path string) ([]Rating, LoadStats, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, LoadStats{}, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	return ReadRatingsCSV(f, path)
}

// LoadMoviesFile reads a catalog CSV from disk.
func LoadMoviesFile(path string) ([]Movie, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	return ReadMoviesCSV(f, path)
}

// CoerceRating parses a rating cell. Empty, non-numeric and non-finite values
// become 0 and ok is false.
func CoerceRating(raw string) (value float64, ok bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseID accepts plain integers and integral floats ("12.0") in the int32 range.
func ParseID(raw string) (int, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err == nil {
		return int(id), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("id out of range: %q", raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(f), nil
}

func wrapCSVError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &LoadError{Source: source, Line: pe.Line, Err: pe.Err}
	}
	return &LoadError{Source: source, Err: err}
}
