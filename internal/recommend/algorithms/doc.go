// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package algorithms implements the two recommendation engines.
//
// # Engines
//
// Classic (ItemCF): item-item collaborative filtering. Movies are columns of
// the user-by-movie rating matrix; ItemSimilarity holds their pairwise cosine
// similarity. A user's score vector is S·r, where r is the user's rating row.
// ItemCF also answers similar-item queries from a single row of S.
//
// Factorization: non-negative matrix factorization X ≈ W·H fitted by
// coordinate descent (FitNMF) from an NNDSVD or seeded random start. A
// user's preference vector is W[u]·H. The rank is clamped by EffectiveRank;
// matrices too small for a rank in [2, min(users, movies)) make the engine
// unavailable rather than failing the process.
//
// # Usage Example
//
//	classic := algorithms.NewItemCF(matrix, logger)
//	ids, err := classic.RecommendForUser(42, 10)
//
//	nmf, err := algorithms.NewFactorization(ctx, matrix, algorithms.DefaultNMFConfig(), nil, logger)
//	var unavailable *recommend.FactorizationUnavailableError
//	if errors.As(err, &unavailable) {
//	    // serve classic only
//	}
//
// # Ranking
//
// Both engines exclude movies the user rated above zero, sort by descending
// score, and break ties by ascending column (ascending movie id).
//
// # Thread Safety
//
// Engines copy the rating matrix at construction and never mutate state
// afterwards, so concurrent queries need no locking.
package algorithms
