// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package storage persists fitted factorization snapshots in BadgerDB.
//
// A snapshot is keyed by a fingerprint of the ratings matrix plus every
// parameter that affects the fit, so a hit always reproduces the factors a
// fresh fit would produce. Factor payloads are JSON encoded, gzip compressed,
// and verified against a SHA-256 checksum on load.
//
// # Storage Format
//
//	nmf_snapshot:<key> -> {"metadata": {...}, "data": <gzip(json{w, h})>}
//
// # Thread Safety
//
// BadgerStore is safe for concurrent use; Badger provides transactional
// isolation for every operation.
package storage
