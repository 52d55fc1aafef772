// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/movierec/internal/cli"
	"github.com/tomtom215/movierec/internal/recommend"
)

// gridRatings has 6 users and 8 movies in two taste clusters, enough for a
// rank-5 factorization.
var gridRatings = [][]float64{
	{5, 4, 0, 0, 1, 0, 0, 0},
	{4, 5, 4, 0, 0, 0, 1, 0},
	{0, 4, 5, 0, 0, 1, 0, 0},
	{0, 0, 1, 5, 4, 0, 0, 4},
	{1, 0, 0, 4, 5, 5, 0, 0},
	{0, 0, 0, 0, 4, 5, 4, 5},
}

type fixture struct {
	dir         string
	ratingsPath string
	moviesPath  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	var rb strings.Builder
	rb.WriteString("userId,movieId,rating,timestamp\n")
	for u, row := range gridRatings {
		for m, v := range row {
			if v > 0 {
				fmt.Fprintf(&rb, "%d,%d,%g,964982703\n", u+1, m+1, v)
			}
		}
	}

	var mb strings.Builder
	mb.WriteString("movieId,title,genres\n")
	for m := 1; m <= len(gridRatings[0]); m++ {
		fmt.Fprintf(&mb, "%d,Movie %d (2000),Drama\n", m, m)
	}

	f := &fixture{
		dir:         dir,
		ratingsPath: filepath.Join(dir, "ratings.csv"),
		moviesPath:  filepath.Join(dir, "movies.csv"),
	}
	require.NoError(t, os.WriteFile(f.ratingsPath, []byte(rb.String()), 0o600))
	require.NoError(t, os.WriteFile(f.moviesPath, []byte(mb.String()), 0o600))
	return f
}

// writeConfig writes a YAML config pointing at the fixture, plus extra lines.
func (f *fixture) writeConfig(t *testing.T, extra string) string {
	t.Helper()
	content := fmt.Sprintf(`data:
  movies_path: %q
  ratings_path: %q
logging:
  level: error
  format: json
%s`, f.moviesPath, f.ratingsPath, extra)
	path := filepath.Join(f.dir, "movierec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runArgs(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	code = run(context.Background(), args, out, errOut)
	return code, out.String(), errOut.String()
}

type resultEnvelope struct {
	Status string           `json:"status"`
	Data   recommend.Result `json:"data"`
	Error  *cli.CLIError    `json:"error"`
}

func decodeResult(t *testing.T, stdout string) resultEnvelope {
	t.Helper()
	var env resultEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &env), "stdout: %s", stdout)
	return env
}

func TestRun_RecommendClassic(t *testing.T) {
	f := newFixture(t)
	cfg := f.writeConfig(t, "")

	code, stdout, _ := runArgs(t, "--config", cfg, "--format", "json", "recommend", "--user", "1", "--top", "3")
	require.Equal(t, cli.ExitSuccess, code, stdout)

	env := decodeResult(t, stdout)
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, recommend.EngineClassic, env.Data.Engine)
	require.NotEmpty(t, env.Data.Items)
	assert.Equal(t, 3, env.Data.Items[0].MovieID)

	for _, item := range env.Data.Items {
		assert.Zero(t, gridRatings[0][item.MovieID-1], "movie %d was already rated", item.MovieID)
	}
}

func TestRun_RecommendNMF(t *testing.T) {
	f := newFixture(t)
	cfg := f.writeConfig(t, "")

	code, stdout, _ := runArgs(t, "--config", cfg, "--format", "json", "recommend", "--user", "4", "--engine", "nmf")
	require.Equal(t, cli.ExitSuccess, code, stdout)

	env := decodeResult(t, stdout)
	assert.Equal(t, recommend.EngineNMF, env.Data.Engine)
	assert.False(t, env.Data.Fallback())
	for _, item := range env.Data.Items {
		assert.Zero(t, gridRatings[3][item.MovieID-1], "movie %d was already rated", item.MovieID)
	}
}

func TestRun_NMFDisabledFallsBack(t *testing.T) {
	f := newFixture(t)
	cfg := f.writeConfig(t, "recommend:\n  nmf:\n    enabled: false\n")

	code, stdout, _ := runArgs(t, "--config", cfg, "recommend", "--user", "1", "--engine", "nmf")
	require.Equal(t, cli.ExitSuccess, code, stdout)
	assert.Contains(t, stdout, "served by classic")
	assert.Contains(t, stdout, "disabled by configuration")
}

func TestRun_Similar(t *testing.T) {
	f := newFixture(t)
	cfg := f.writeConfig(t, "")

	code, stdout, _ := runArgs(t, "--config", cfg, "--format", "json", "similar", "--movie", "1", "--top", "2")
	require.Equal(t, cli.ExitSuccess, code, stdout)

	env := decodeResult(t, stdout)
	require.Len(t, env.Data.Items, 2)
	for _, item := range env.Data.Items {
		assert.NotEqual(t, 1, item.MovieID)
	}
}

func TestRun_Errors(t *testing.T) {
	f := newFixture(t)
	cfg := f.writeConfig(t, "")

	tests := []struct {
		name     string
		args     []string
		wantExit int
		wantCode string
	}{
		{
			name:     "unknown user",
			args:     []string{"--config", cfg, "--format", "json", "recommend", "--user", "99"},
			wantExit: cli.ExitFailure,
			wantCode: cli.CodeUnknownUser,
		},
		{
			name:     "unknown movie",
			args:     []string{"--config", cfg, "--format", "json", "similar", "--movie", "99"},
			wantExit: cli.ExitFailure,
			wantCode: cli.CodeUnknownMovie,
		},
		{
			name:     "top n above maximum",
			args:     []string{"--config", cfg, "--format", "json", "recommend", "--user", "1", "--top", "1000"},
			wantExit: cli.ExitCommandError,
			wantCode: cli.CodeInvalidRequest,
		},
		{
			name:     "missing config file",
			args:     []string{"--config", filepath.Join(f.dir, "nope.yaml"), "--format", "json", "users"},
			wantExit: cli.ExitCommandError,
			wantCode: cli.CodeConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runArgs(t, tt.args...)
			assert.Equal(t, tt.wantExit, code)
			env := decodeResult(t, stdout)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestRun_LoadErrors(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.ratingsPath, []byte("userId,rating\n1,4\n"), 0o600))
	cfg := f.writeConfig(t, "")

	code, stdout, _ := runArgs(t, "--config", cfg, "--format", "json", "status")
	assert.Equal(t, cli.ExitCommandError, code)
	env := decodeResult(t, stdout)
	require.NotNil(t, env.Error)
	assert.Equal(t, cli.CodeLoadError, env.Error.Code)
	assert.Contains(t, env.Error.Message, "movieId")
}

func TestRun_StrictCatalog(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.moviesPath, []byte("movieId,title,genres\n1,Only One,Drama\n"), 0o600))

	lenient := f.writeConfig(t, "")
	code, _, _ := runArgs(t, "--config", lenient, "users")
	assert.Equal(t, cli.ExitSuccess, code)

	strict := f.writeConfig(t, "")
	content, err := os.ReadFile(strict)
	require.NoError(t, err)
	content = bytes.Replace(content, []byte("data:\n"), []byte("data:\n  strict_catalog: true\n"), 1)
	require.NoError(t, os.WriteFile(strict, content, 0o600))

	code, stdout, _ := runArgs(t, "--config", strict, "--format", "json", "users")
	assert.Equal(t, cli.ExitFailure, code)
	env := decodeResult(t, stdout)
	require.NotNil(t, env.Error)
	assert.Equal(t, cli.CodeUnknownCatalogEntry, env.Error.Code)
}

func TestRun_DuckDBSource(t *testing.T) {
	f := newFixture(t)
	cfg := f.writeConfig(t, "")
	content, err := os.ReadFile(cfg)
	require.NoError(t, err)
	content = bytes.Replace(content, []byte("data:\n"), []byte("data:\n  source: duckdb\n"), 1)
	require.NoError(t, os.WriteFile(cfg, content, 0o600))

	code, stdout, _ := runArgs(t, "--config", cfg, "users")
	require.Equal(t, cli.ExitSuccess, code, stdout)
	assert.Equal(t, "1\n2\n3\n4\n5\n6\n", stdout)
}

func TestRun_SnapshotReuseAndMetrics(t *testing.T) {
	f := newFixture(t)
	metricsPath := filepath.Join(f.dir, "movierec.prom")
	cfg := f.writeConfig(t, fmt.Sprintf("recommend:\n  nmf:\n    model_cache_dir: %q\nmetrics:\n  textfile_path: %q\n",
		filepath.Join(f.dir, "snapshots"), metricsPath))

	code, stdout, _ := runArgs(t, "--config", cfg, "status")
	require.Equal(t, cli.ExitSuccess, code, stdout)
	assert.Contains(t, stdout, "(fitted)")

	code, stdout, _ = runArgs(t, "--config", cfg, "status")
	require.Equal(t, cli.ExitSuccess, code, stdout)
	assert.Contains(t, stdout, "(snapshot)")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "movierec_matrix_users 6")
	assert.Contains(t, string(prom), "movierec_nmf_snapshot_lookups_total")
}

func TestApp_LoadAppliesEnvironment(t *testing.T) {
	f := newFixture(t)
	cfg := f.writeConfig(t, "")
	t.Setenv("RECOMMEND_ENGINE", "nmf")
	t.Setenv("RECOMMEND_TOP_N", "4")

	logs := &bytes.Buffer{}
	a := &app{logOutput: logs}
	defer a.close()

	backend, err := a.load(context.Background(), &cli.RootOptions{ConfigPath: cfg})
	require.NoError(t, err, logs.String())

	st := backend.Status()
	assert.Equal(t, recommend.EngineNMF, st.DefaultEngine)
	assert.Equal(t, 6, st.Users)
	assert.Equal(t, 8, st.Movies)

	res, err := backend.RecommendForUser(context.Background(), recommend.Request{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, recommend.EngineNMF, res.Engine)
	assert.LessOrEqual(t, len(res.Items), 4)
}
