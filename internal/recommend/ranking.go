// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"math"
	"sort"
)

// TopN ranks scores descending and returns the indices of the best topN,
// skipping any index for which exclude returns true.
// Equal scores keep ascending index order. NaN scores rank last.
func TopN(scores []float64, topN int, exclude func(int) bool) []int {
	if topN <= 0 {
		return []int{}
	}

	candidates := make([]int, 0, len(scores))
	for i := range scores {
		if exclude != nil && exclude(i) {
			continue
		}
		candidates = append(candidates, i)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		sa, sb := scores[candidates[a]], scores[candidates[b]]
		if math.IsNaN(sa) {
			return false
		}
		if math.IsNaN(sb) {
			return true
		}
		return sa > sb
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}
