// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/movierec/internal/catalog"
)

// Sentinel errors. Each typed error below matches its sentinel via errors.Is.
var (
	ErrUnknownUser              = errors.New("unknown user")
	ErrUnknownMovie             = errors.New("unknown movie")
	ErrDegenerateCatalog        = errors.New("degenerate catalog")
	ErrFactorizationUnavailable = errors.New("factorization unavailable")
	ErrInvalidRequest           = errors.New("invalid request")
)

// UnknownUserError reports a user id absent from the ratings matrix.
type UnknownUserError struct {
	UserID int
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("unknown user %d", e.UserID)
}

func (e *UnknownUserError) Is(target error) bool { return target == ErrUnknownUser }

// UnknownMovieError reports a movie id absent from the ratings matrix.
type UnknownMovieError struct {
	MovieID int
}

func (e *UnknownMovieError) Error() string {
	return fmt.Sprintf("unknown movie %d", e.MovieID)
}

func (e *UnknownMovieError) Is(target error) bool { return target == ErrUnknownMovie }

// DegenerateCatalogError reports that similarity needs at least two rated movies.
type DegenerateCatalogError struct {
	Movies int
}

func (e *DegenerateCatalogError) Error() string {
	return fmt.Sprintf("degenerate catalog: item similarity needs at least 2 rated movies, have %d", e.Movies)
}

func (e *DegenerateCatalogError) Is(target error) bool { return target == ErrDegenerateCatalog }

// FactorizationUnavailableError explains why the factorization engine could not be built.
// It is a status, not a request failure: the service falls back to the classic engine.
type FactorizationUnavailableError struct {
	Reason string
	Err    error
}

func (e *FactorizationUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("factorization unavailable: %s: %v", e.Reason, e.Err)
	}
	return "factorization unavailable: " + e.Reason
}

func (e *FactorizationUnavailableError) Unwrap() error { return e.Err }

func (e *FactorizationUnavailableError) Is(target error) bool {
	return target == ErrFactorizationUnavailable
}

// Outcome labels used for metrics and CLI error codes.
const (
	OutcomeSuccess             = "success"
	OutcomeUnknownUser         = "unknown_user"
	OutcomeUnknownMovie        = "unknown_movie"
	OutcomeDegenerateCatalog   = "degenerate_catalog"
	OutcomeUnknownCatalogEntry = "unknown_catalog_entry"
	OutcomeInvalidRequest      = "invalid_request"
	OutcomeCanceled            = "canceled"
	OutcomeError               = "error"
)

// Outcome classifies err into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrUnknownUser):
		return OutcomeUnknownUser
	case errors.Is(err, ErrUnknownMovie):
		return OutcomeUnknownMovie
	case errors.Is(err, ErrDegenerateCatalog):
		return OutcomeDegenerateCatalog
	case errors.Is(err, catalog.ErrUnknownCatalogEntry):
		return OutcomeUnknownCatalogEntry
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeInvalidRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
