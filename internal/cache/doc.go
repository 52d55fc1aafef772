// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package cache provides a thread-safe, generic LRU cache with TTL expiration.

The recommendation service memoizes ranked results here. Rating matrices are
immutable once built, so a cached result never goes stale; the TTL only bounds
how long rarely requested entries occupy memory.

# Usage

	results := cache.NewLRU[[]int](1024, 10*time.Minute)
	results.Add("recommend:classic:1:8", ids)
	if ids, ok := results.Get("recommend:classic:1:8"); ok {
	    // use ids
	}

# Thread Safety

All methods are safe for concurrent use. Get mutates recency order, so a
single mutex guards every operation.
*/
package cache
