// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/ratings"
)

// Config selects where the two tables live.
// A table name takes precedence over the matching CSV path.
type Config struct {
	// Path is the DuckDB database file. Empty opens an in-memory database.
	Path string

	RatingsTable string
	MoviesTable  string

	RatingsPath string
	MoviesPath  string

	// Threads and MaxMemory tune DuckDB. Zero values keep DuckDB defaults.
	Threads   int
	MaxMemory string

	// QueryTimeout bounds each load query. Zero selects 2 minutes.
	QueryTimeout time.Duration
}

// Source reads ratings and movies through a DuckDB connection.
type Source struct {
	conn   *sql.DB
	cfg    Config
	logger zerolog.Logger
}

// Open connects to DuckDB and verifies the connection.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Source, error) {
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 2 * time.Minute
	}

	conn, err := sql.Open("duckdb", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Source{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With().Str("component", "database").Logger(),
	}
	s.logger.Debug().
		Str("path", displayPath(cfg.Path)).
		Str("ratings", s.sourceName(cfg.RatingsTable, cfg.RatingsPath)).
		Str("movies", s.sourceName(cfg.MoviesTable, cfg.MoviesPath)).
		Msg("DuckDB source opened")
	return s, nil
}

// connString builds the DuckDB DSN. Extension autoloading stays off so a
// restricted network cannot stall startup.
func connString(cfg Config) string {
	params := url.Values{}
	params.Set("autoinstall_known_extensions", "false")
	params.Set("autoload_known_extensions", "false")
	if cfg.Threads > 0 {
		params.Set("threads", strconv.Itoa(cfg.Threads))
	}
	if cfg.MaxMemory != "" {
		params.Set("max_memory", cfg.MaxMemory)
	}
	return cfg.Path + "?" + params.Encode()
}

// Conn returns the underlying connection.
func (s *Source) Conn() *sql.DB {
	return s.conn
}

// Close releases the connection.
func (s *Source) Close() error {
	return s.conn.Close()
}

// LoadRatings reads every (userId, movieId, rating) row in storage order.
// Missing, non-numeric and non-finite ratings become 0 and are counted in
// LoadStats.Coerced.
func (s *Source) LoadRatings(ctx context.Context) ([]ratings.Rating, ratings.LoadStats, error) {
	var stats ratings.LoadStats

	source := s.sourceName(s.cfg.RatingsTable, s.cfg.RatingsPath)
	rows, cancel, err := s.queryColumns(ctx, source, s.relation(s.cfg.RatingsTable, s.cfg.RatingsPath), ratings.RatingsColumns)
	if err != nil {
		return nil, stats, err
	}
	defer cancel()
	defer rows.Close()

	var out []ratings.Rating
	for rows.Next() {
		var userCell, movieCell, ratingCell sql.NullString
		if err := rows.Scan(&userCell, &movieCell, &ratingCell); err != nil {
			return nil, stats, &ratings.LoadError{Source: source, Err: fmt.Errorf("scan rating: %w", err)}
		}
		row := stats.Records + 1

		userID, err := parseIDCell(source, row, ratings.ColumnUserID, userCell)
		if err != nil {
			return nil, stats, err
		}
		movieID, err := parseIDCell(source, row, ratings.ColumnMovieID, movieCell)
		if err != nil {
			return nil, stats, err
		}

		value, ok := ratings.CoerceRating(strings.TrimSpace(ratingCell.String))
		if !ok {
			stats.Coerced++
		}

		out = append(out, ratings.Rating{UserID: userID, MovieID: movieID, Value: value})
		stats.Records++
	}
	if err := rows.Err(); err != nil {
		return nil, stats, &ratings.LoadError{Source: source, Err: fmt.Errorf("iterate ratings: %w", err)}
	}

	s.logger.Debug().
		Str("source", source).
		Int("records", stats.Records).
		Int("coerced", stats.Coerced).
		Msg("Ratings loaded")
	return out, stats, nil
}

// LoadMovies reads every (movieId, title, genres) row. NULL text becomes "".
func (s *Source) LoadMovies(ctx context.Context) ([]ratings.Movie, error) {
	source := s.sourceName(s.cfg.MoviesTable, s.cfg.MoviesPath)
	rows, cancel, err := s.queryColumns(ctx, source, s.relation(s.cfg.MoviesTable, s.cfg.MoviesPath), ratings.MoviesColumns)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	var out []ratings.Movie
	for rows.Next() {
		var movieCell, title, genres sql.NullString
		if err := rows.Scan(&movieCell, &title, &genres); err != nil {
			return nil, &ratings.LoadError{Source: source, Err: fmt.Errorf("scan movie: %w", err)}
		}

		movieID, err := parseIDCell(source, len(out)+1, ratings.ColumnMovieID, movieCell)
		if err != nil {
			return nil, err
		}

		out = append(out, ratings.Movie{
			MovieID: movieID,
			Title:   strings.TrimSpace(title.String),
			Genres:  strings.TrimSpace(genres.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &ratings.LoadError{Source: source, Err: fmt.Errorf("iterate movies: %w", err)}
	}

	s.logger.Debug().Str("source", source).Int("movies", len(out)).Msg("Movies loaded")
	return out, nil
}

// queryColumns checks that relation has every required column and selects
// them as text, in the given order. The returned cancel func must be called
// once rows are drained.
func (s *Source) queryColumns(ctx context.Context, source, relation string, required []string) (*sql.Rows, context.CancelFunc, error) {
	if relation == "" {
		return nil, nil, &ratings.LoadError{Source: source, Err: errors.New("no table or path configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)

	present, err := s.columns(ctx, relation)
	if err != nil {
		cancel()
		return nil, nil, &ratings.LoadError{Source: source, Err: err}
	}
	for _, col := range required {
		if _, ok := present[col]; !ok {
			cancel()
			return nil, nil, &ratings.LoadError{Source: source, Column: col, Err: ratings.ErrMissingColumn}
		}
	}

	selects := make([]string, len(required))
	for i, col := range required {
		selects[i] = fmt.Sprintf("CAST(%s AS VARCHAR)", quoteIdent(col))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), relation)

	rows, err := s.conn.QueryContext(ctx, query) //nolint:gosec // identifiers and literals are quoted
	if err != nil {
		cancel()
		return nil, nil, &ratings.LoadError{Source: source, Err: fmt.Errorf("query: %w", err)}
	}
	return rows, cancel, nil
}

// columns returns the column names of relation without reading any rows.
func (s *Source) columns(ctx context.Context, relation string) (map[string]struct{}, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT * FROM "+relation+" LIMIT 0") //nolint:gosec // quoted
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	defer closeWithLog(rows, s.logger, "column check")

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[strings.TrimSpace(name)] = struct{}{}
	}
	return present, nil
}

// relation renders the FROM target for a table name or CSV path.
func (s *Source) relation(table, path string) string {
	switch {
	case table != "":
		return quoteIdent(table)
	case path != "":
		return fmt.Sprintf("read_csv(%s, header = true, all_varchar = true)", quoteLiteral(path))
	default:
		return ""
	}
}

func (s *Source) sourceName(table, path string) string {
	if table != "" {
		return displayPath(s.cfg.Path) + ":" + table
	}
	return path
}

func displayPath(path string) string {
	if path == "" || path == ":memory:" {
		return ":memory:"
	}
	return path
}

func parseIDCell(source string, row int, column string, cell sql.NullString) (int, error) {
	raw := strings.TrimSpace(cell.String)
	id, err := ratings.ParseID(raw)
	if err != nil {
		return 0, &ratings.LoadError{
			Source: source,
			Column: column,
			Err:    fmt.Errorf("row %d: %w: %q", row, ratings.ErrInvalidID, raw),
		}
	}
	return id, nil
}

// quoteIdent quotes a possibly schema-qualified identifier.
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
