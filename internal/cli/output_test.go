// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/ratings"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/validation"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "inner", errBoom))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.ErrorIs(t, wrapped, errBoom)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		wantCode string
		wantExit int
	}{
		{&recommend.UnknownUserError{UserID: 1}, CodeUnknownUser, ExitFailure},
		{&recommend.UnknownMovieError{MovieID: 1}, CodeUnknownMovie, ExitFailure},
		{&recommend.DegenerateCatalogError{}, CodeDegenerateCatalog, ExitFailure},
		{&catalog.UnknownCatalogEntryError{MovieID: 1}, CodeUnknownCatalogEntry, ExitFailure},
		{&ratings.LoadError{Source: "x"}, CodeLoadError, ExitCommandError},
		{fmt.Errorf("%w: top_n", recommend.ErrInvalidRequest), CodeInvalidRequest, ExitCommandError},
		{fmt.Errorf("%w: bad", ErrConfig), CodeConfigError, ExitCommandError},
		{context.Canceled, CodeCanceled, ExitFailure},
		{errBoom, CodeInternal, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			code, exit := Classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut, Verbose: true}

	err := f.Fail(&ratings.LoadError{Source: "ratings.csv", Line: 3, Err: ratings.ErrInvalidID})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [LOAD_ERROR]: load ratings.csv line 3")
	assert.Contains(t, errOut.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}

	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestOutputFormatter_SuccessText(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out}

	require.NoError(t, f.Success([]int{1}, "", func(w io.Writer) { fmt.Fprint(w, "rendered") }))
	assert.Equal(t, "rendered", out.String())
}

func TestErrorDetails(t *testing.T) {
	verr := validation.ValidateStruct(&recommend.Request{UserID: 1, TopN: -1})
	require.NotNil(t, verr)

	tests := []struct {
		name string
		err  error
		want map[string]any
	}{
		{
			name: "unknown user",
			err:  fmt.Errorf("recommend: %w", &recommend.UnknownUserError{UserID: 9}),
			want: map[string]any{"user_id": 9},
		},
		{
			name: "load error with column",
			err:  &ratings.LoadError{Source: "ratings.csv", Column: "movieId"},
			want: map[string]any{"source": "ratings.csv", "column": "movieId"},
		},
		{
			name: "request validation",
			err:  fmt.Errorf("%w: %w", recommend.ErrInvalidRequest, verr),
			want: map[string]any{"field": "Request.TopN", "tag": "min", "value": -1},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorDetails(tt.err))
		})
	}
}
