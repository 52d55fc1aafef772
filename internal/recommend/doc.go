// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package recommend serves movie recommendations from a ratings matrix.
//
// # Engines
//
// Two engines score movies for a user:
//
//   - classic: item-item cosine similarity over the rating columns
//     (algorithms.ItemCF). It also answers similar-movie queries.
//   - nmf: a non-negative matrix factorization of the ratings
//     (algorithms.Factorization).
//
// The factorization is optional. When it cannot be built, because the data is
// too small for its rank or contains negative ratings, the Service answers nmf
// requests with the classic engine and reports the fallback in the Result.
//
// # Determinism
//
// Equal scores are ordered by ascending matrix index, which is ascending movie
// id. The factorization is seeded, so the same ratings and configuration give
// the same recommendations on every run.
//
// # Usage
//
//	classic := algorithms.NewItemCF(matrix, logger)
//	nmf, nmfErr := algorithms.NewFactorization(ctx, matrix, nmfCfg, snapshots, logger)
//
//	svc, err := recommend.NewService(cfg, catalog, recommend.Engines{
//	    Classic:          classic,
//	    Factorization:    nmf,
//	    FactorizationErr: nmfErr,
//	}, logger)
//
//	res, err := svc.RecommendForUser(ctx, recommend.Request{UserID: 1, TopN: 8})
//
// # Errors
//
// Typed errors match their sentinels with errors.Is; Outcome maps any error to
// the label used by metrics and the CLI exit code.
package recommend
