// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/recommend"
)

// RecommendOptions holds flags for the recommend command.
type RecommendOptions struct {
	*RootOptions
	UserID int
	TopN   int
	Engine string
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecommendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recommend --user <id>",
		Short: "Recommend movies a user has not rated",
		Long: `Recommend movies a user has not rated yet, best first.

Example:
  movierec recommend --user 1 --top 8
  movierec recommend --user 1 --engine nmf --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.UserID, "user", "u", 0, "user id (required)")
	cmd.Flags().IntVarP(&opts.TopN, "top", "n", 0, "number of movies (0 = configured default)")
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", "", "engine (classic|nmf, default from config)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runRecommend(opts *RecommendOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	backend, err := opts.Backend(ctx)
	if err != nil {
		return f.Fail(err)
	}

	req := recommend.Request{UserID: opts.UserID, TopN: opts.TopN}
	if opts.Engine != "" {
		engine, err := recommend.ParseEngine(opts.Engine)
		if err != nil {
			return f.Fail(err)
		}
		req.Engine = engine
	}

	res, err := backend.RecommendForUser(ctx, req)
	if err != nil {
		return f.Fail(err)
	}

	f.VerboseLog("request %s served by %s (cache hit: %t)", res.RequestID, res.Engine, res.CacheHit)
	return f.Success(res, res.RequestID, func(w io.Writer) {
		fmt.Fprintf(w, "Recommendations for user %d (engine: %s)\n", opts.UserID, res.Engine)
		writeFallback(w, res)
		writeEntries(w, res.Items)
	})
}

func writeFallback(w io.Writer, res *recommend.Result) {
	if res.Fallback() {
		fmt.Fprintf(w, "Note: %s engine unavailable, served by %s: %s\n", res.RequestedEngine, res.Engine, res.FallbackReason)
	}
}

func writeEntries(w io.Writer, items []catalog.Entry) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (no movies)")
		return
	}
	for i, e := range items {
		genres := strings.Join(e.GenreList(), ", ")
		if genres == "" {
			genres = "no genres"
		}
		fmt.Fprintf(w, "%3d. %s [%s] (id %d)\n", i+1, e.Title, genres, e.MovieID)
	}
}
