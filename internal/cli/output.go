// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/ratings"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/validation"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The request was well formed but could not be answered (unknown id, degenerate data)
	ExitCommandError = 2 // Bad flags, bad configuration, unreadable input tables
)

// Error codes reported in JSON output.
const (
	CodeUnknownUser         = "UNKNOWN_USER"
	CodeUnknownMovie        = "UNKNOWN_MOVIE"
	CodeDegenerateCatalog   = "DEGENERATE_CATALOG"
	CodeUnknownCatalogEntry = "UNKNOWN_CATALOG_ENTRY"
	CodeLoadError           = "LOAD_ERROR"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeConfigError         = "CONFIG_ERROR"
	CodeCanceled            = "CANCELED"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrConfig marks configuration failures returned by a Loader.
var ErrConfig = errors.New("configuration error")

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Classify maps an error to its JSON error code and process exit code.
func Classify(err error) (code string, exit int) {
	switch {
	case errors.Is(err, ErrConfig):
		return CodeConfigError, ExitCommandError
	case errors.Is(err, ratings.ErrLoad):
		return CodeLoadError, ExitCommandError
	case errors.Is(err, recommend.ErrInvalidRequest):
		return CodeInvalidRequest, ExitCommandError
	case errors.Is(err, recommend.ErrUnknownUser):
		return CodeUnknownUser, ExitFailure
	case errors.Is(err, recommend.ErrUnknownMovie):
		return CodeUnknownMovie, ExitFailure
	case errors.Is(err, recommend.ErrDegenerateCatalog):
		return CodeDegenerateCatalog, ExitFailure
	case errors.Is(err, catalog.ErrUnknownCatalogEntry):
		return CodeUnknownCatalogEntry, ExitFailure
	case recommend.Outcome(err) == recommend.OutcomeCanceled:
		return CodeCanceled, ExitFailure
	default:
		return CodeInternal, ExitFailure
	}
}

// errorDetails returns the structured context carried by typed errors, if any.
func errorDetails(err error) map[string]any {
	var (
		userErr    *recommend.UnknownUserError
		movieErr   *recommend.UnknownMovieError
		degenErr   *recommend.DegenerateCatalogError
		catalogErr *catalog.UnknownCatalogEntryError
		loadErr    *ratings.LoadError
		fieldErr   *validation.RequestValidationError
	)
	switch {
	case errors.As(err, &userErr):
		return map[string]any{"user_id": userErr.UserID}
	case errors.As(err, &movieErr):
		return map[string]any{"movie_id": movieErr.MovieID}
	case errors.As(err, &degenErr):
		return map[string]any{"movies": degenErr.Movies}
	case errors.As(err, &catalogErr):
		return map[string]any{"movie_id": catalogErr.MovieID}
	case errors.As(err, &loadErr):
		d := map[string]any{"source": loadErr.Source}
		if loadErr.Line > 0 {
			d["line"] = loadErr.Line
		}
		if loadErr.Column != "" {
			d["column"] = loadErr.Column
		}
		return d
	case errors.As(err, &fieldErr):
		return fieldErr.Details()
	default:
		return nil
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string    `json:"status"`               // "ok" or "error"
	Data      any       `json:"data,omitempty"`       // success payload
	Error     *CLIError `json:"error,omitempty"`      // error details
	RequestID string    `json:"request_id,omitempty"` // correlates with log lines
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs a successful result. In text mode render writes the
// human-readable form; in JSON mode data is wrapped in a CLIResponse.
func (f *OutputFormatter) Success(data any, requestID string, render func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:    "ok",
			Data:      data,
			RequestID: requestID,
		})
	}

	render(f.Writer)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.GetErrWriter(), "Details: %v\n", details)
	}
	return nil
}

// Fail writes err in the configured format and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := Classify(err)
	if writeErr := f.Error(code, err.Error(), errorDetails(err)); writeErr != nil {
		return WrapExitError(ExitFailure, "write output", writeErr)
	}
	return WrapExitError(exit, code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// It goes to ErrWriter so JSON output on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
