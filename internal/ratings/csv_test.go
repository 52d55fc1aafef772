// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package ratings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadRatingsCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        []Rating
		wantCoerced int
	}{
		{
			name:  "basic table",
			input: "userId,movieId,rating\n1,10,5\n1,20,1.5\n2,10,4\n",
			want: []Rating{
				{UserID: 1, MovieID: 10, Value: 5},
				{UserID: 1, MovieID: 20, Value: 1.5},
				{UserID: 2, MovieID: 10, Value: 4},
			},
		},
		{
			name:  "extra columns and reordered header",
			input: "timestamp,rating,movieId,userId\n964982703,4.0,1,7\n",
			want:  []Rating{{UserID: 7, MovieID: 1, Value: 4}},
		},
		{
			name:  "malformed and missing ratings coerce to zero",
			input: "userId,movieId,rating\n1,10,abc\n1,11,\n1,12,NaN\n1,13\n",
			want: []Rating{
				{UserID: 1, MovieID: 10, Value: 0},
				{UserID: 1, MovieID: 11, Value: 0},
				{UserID: 1, MovieID: 12, Value: 0},
				{UserID: 1, MovieID: 13, Value: 0},
			},
			wantCoerced: 4,
		},
		{
			name:  "byte order mark and padded header",
			input: "\ufeffuserId, movieId, rating\n3, 4, 2\n",
			want:  []Rating{{UserID: 3, MovieID: 4, Value: 2}},
		},
		{
			name:  "integral float ids",
			input: "userId,movieId,rating\n1.0,2.0,3\n",
			want:  []Rating{{UserID: 1, MovieID: 2, Value: 3}},
		},
		{
			name:  "header only",
			input: "userId,movieId,rating\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := ReadRatingsCSV(strings.NewReader(tt.input), "ratings.csv")
			if err != nil {
				t.Fatalf("ReadRatingsCSV() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ReadRatingsCSV() returned %d records, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			if stats.Records != len(tt.want) {
				t.Errorf("stats.Records = %d, want %d", stats.Records, len(tt.want))
			}
			if stats.Coerced != tt.wantCoerced {
				t.Errorf("stats.Coerced = %d, want %d", stats.Coerced, tt.wantCoerced)
			}
		})
	}
}

func TestReadRatingsCSV_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantColumn string
		wantLine   int
	}{
		{
			name:       "missing rating column",
			input:      "userId,movieId\n1,2\n",
			wantErr:    ErrMissingColumn,
			wantColumn: ColumnRating,
			wantLine:   1,
		},
		{
			name:       "missing user column",
			input:      "movieId,rating\n1,2\n",
			wantErr:    ErrMissingColumn,
			wantColumn: ColumnUserID,
			wantLine:   1,
		},
		{
			name:       "non-integer movie id",
			input:      "userId,movieId,rating\n1,10,5\n1,abc,5\n",
			wantErr:    ErrInvalidID,
			wantColumn: ColumnMovieID,
			wantLine:   3,
		},
		{
			name:       "empty user id",
			input:      "userId,movieId,rating\n,10,5\n",
			wantErr:    ErrInvalidID,
			wantColumn: ColumnUserID,
			wantLine:   2,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadRatingsCSV(strings.NewReader(tt.input), "ratings.csv")
			if err == nil {
				t.Fatal("ReadRatingsCSV() expected error, got nil")
			}
			if !errors.Is(err, ErrLoad) {
				t.Errorf("errors.Is(err, ErrLoad) = false for %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadRatingsCSV() error = %v, want %v", err, tt.wantErr)
			}

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error %T is not *LoadError", err)
			}
			if loadErr.Column != tt.wantColumn {
				t.Errorf("Column = %q, want %q", loadErr.Column, tt.wantColumn)
			}
			if loadErr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", loadErr.Line, tt.wantLine)
			}
			if loadErr.Source != "ratings.csv" {
				t.Errorf("Source = %q, want ratings.csv", loadErr.Source)
			}
		})
	}
}

func TestReadMoviesCSV(t *testing.T) {
	input := "movieId,title,genres\n" +
		"1,Toy Story (1995),Adventure|Animation|Children\n" +
		"2,\"American President, The (1995)\",Comedy|Drama|Romance\n"

	got, err := ReadMoviesCSV(strings.NewReader(input), "movies.csv")
	if err != nil {
		t.Fatalf("ReadMoviesCSV() error = %v", err)
	}
	want := []Movie{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: "Adventure|Animation|Children"},
		{MovieID: 2, Title: "American President, The (1995)", Genres: "Comedy|Drama|Romance"},
	}
	if len(got) != len(want) {
		t.Fatalf("ReadMoviesCSV() returned %d movies, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("movie %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadMoviesCSV_MissingGenres(t *testing.T) {
	_, err := ReadMoviesCSV(strings.NewReader("movieId,title\n1,A\n"), "movies.csv")

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("ReadMoviesCSV() error = %v, want *LoadError", err)
	}
	if loadErr.Column != ColumnGenres {
		t.Errorf("Column = %q, want %q", loadErr.Column, ColumnGenres)
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	ratingsPath := filepath.Join(dir, "ratings.csv")
	moviesPath := filepath.Join(dir, "movies.csv")

	if err := os.WriteFile(ratingsPath, []byte("userId,movieId,rating\n1,1,4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(moviesPath, []byte("movieId,title,genres\n1,A,Drama\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	records, stats, err := LoadRatingsFile(ratingsPath)
	if err != nil {
		t.Fatalf("LoadRatingsFile() error = %v", err)
	}
	if len(records) != 1 || stats.Records != 1 {
		t.Errorf("LoadRatingsFile() = %d records (stats %d), want 1", len(records), stats.Records)
	}

	movies, err := LoadMoviesFile(moviesPath)
	if err != nil {
		t.Fatalf("LoadMoviesFile() error = %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "A" {
		t.Errorf("LoadMoviesFile() = %+v", movies)
	}

	_, _, err = LoadRatingsFile(filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, ErrLoad) {
		t.Errorf("LoadRatingsFile(missing) error = %v, want LoadError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadRatingsFile(missing) should wrap os.ErrNotExist, got %v", err)
	}
}

func TestCoerceRating(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"4.5", 4.5, true},
		{"0", 0, true},
		{"-1", -1, true},
		{"", 0, false},
		{"five", 0, false},
		{"Inf", 0, false},
		{"nan", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CoerceRating(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CoerceRating(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "12", want: 12},
		{raw: "12.0", want: 12},
		{raw: "-3", want: -3},
		{raw: "2147483647", want: 2147483647},
		{raw: "2147483647.0", want: 2147483647},
		{raw: "12.5", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "3000000000", wantErr: true},
		{raw: "3000000000.0", wantErr: true},
		{raw: "-3000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseID(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}
