// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package cli implements the movierec command tree.
//
// Commands receive their recommender through a Loader supplied by the
// composition root, so the tree can be exercised in tests with a fake Backend.
// Every command writes either human-readable text or a JSON envelope
// (--format json) and returns an *ExitError whose code main passes to os.Exit.
package cli
