// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/movierec/internal/recommend"
)

// SimilarOptions holds flags for the similar command.
type SimilarOptions struct {
	*RootOptions
	MovieID int
	TopN    int
}

// NewSimilarCommand creates the similar command.
func NewSimilarCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimilarOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "similar --movie <id>",
		Short: "List movies rated most like a given movie",
		Long: `List the movies whose rating columns are most similar to a given movie.
The movie itself is never included.

Example:
  movierec similar --movie 1 --top 6`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimilar(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.MovieID, "movie", "m", 0, "movie id (required)")
	cmd.Flags().IntVarP(&opts.TopN, "top", "n", 0, "number of movies (0 = configured default)")
	_ = cmd.MarkFlagRequired("movie")

	return cmd
}

func runSimilar(opts *SimilarOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	backend, err := opts.Backend(ctx)
	if err != nil {
		return f.Fail(err)
	}

	res, err := backend.SimilarItems(ctx, recommend.SimilarRequest{MovieID: opts.MovieID, TopN: opts.TopN})
	if err != nil {
		return f.Fail(err)
	}

	f.VerboseLog("request %s (cache hit: %t)", res.RequestID, res.CacheHit)
	return f.Success(res, res.RequestID, func(w io.Writer) {
		fmt.Fprintf(w, "Movies similar to %d\n", opts.MovieID)
		writeEntries(w, res.Items)
	})
}
