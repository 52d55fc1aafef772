// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package validation wraps go-playground/validator v10 with a thread-safe
// singleton and human-readable error messages.
//
// It validates recommendation requests and the loaded configuration:
//
//	type Request struct {
//	    TopN   int    `validate:"min=0"`
//	    Engine string `validate:"omitempty,oneof=classic nmf"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    fmt.Println(verr.Error()) // "TopN must be at least 0"
//	}
//
// Failures are reported under the INVALID_REQUEST code by the CLI.
package validation
