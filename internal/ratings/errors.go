// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package ratings

import (
	"errors"
	"fmt"
)

// Sentinel errors for input tables. Wrapped by *LoadError.
var (
	// ErrLoad matches every *LoadError via errors.Is.
	ErrLoad = errors.New("load error")

	// ErrMissingColumn indicates a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidID indicates an id cell that is not an integer.
	ErrInvalidID = errors.New("invalid id")

	// ErrEmptyInput indicates input without even a header row.
	ErrEmptyInput = errors.New("empty input")
)

// LoadError reports a malformed ratings or catalog table.
type LoadError struct {
	// Source names the table, usually a file path or table name.
	Source string

	// Line is the 1-based input line, or 0 when the problem is not tied to a row.
	Line int

	// Column is the offending column name, if any.
	Column string

	Err error
}

func (e *LoadError) Error() string {
	msg := "load " + e.Source
	if e.Line > 0 {
		msg = fmt.Sprintf("%s line %d", msg, e.Line)
	}
	if e.Column != "" {
		msg = fmt.Sprintf("%s column %q", msg, e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrLoad) match any LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}
