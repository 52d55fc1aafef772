// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package logging provides centralized zerolog-based logging for Movierec.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
// Components take a zerolog.Logger at construction. The composition root
// derives one per component from the global logger:
//
//	logger := logging.Component("nmf")
//	logger.Info().Int("rank", k).Msg("factorization fitted")
//
// Requests carry a UUID request ID through the context; Ctx attaches it:
//
//	ctx, id := logging.EnsureRequestID(ctx)
//	logging.Ctx(ctx, logger).Debug().Msg("ranking")
//
// # Configuration
//
// Environment Variables (through the config package):
//   - LOG_LEVEL: trace, debug, info, warn, error, disabled (default: info)
//   - LOG_FORMAT: json, console (default: console)
//   - LOG_CALLER: true/false - include caller info (default: false)
//
// Log output goes to stderr so command results on stdout remain parseable.
package logging
