// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/movierec/internal/recommend"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show matrix dimensions and engine availability",
		Long: `Show the ratings matrix dimensions, which engines can serve requests,
and the fitted factorization parameters.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			backend, err := rootOpts.Backend(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}
			st := backend.Status()
			return f.Success(st, "", func(w io.Writer) { writeStatus(w, &st) })
		},
	}
}

func writeStatus(w io.Writer, st *recommend.Status) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Users:\t%d\n", st.Users)
	fmt.Fprintf(tw, "Rated movies:\t%d\n", st.Movies)
	fmt.Fprintf(tw, "Catalog size:\t%d\n", st.CatalogSize)
	fmt.Fprintf(tw, "Default engine:\t%s\n", st.DefaultEngine)
	_ = tw.Flush()

	fmt.Fprintln(w, "Engines:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range st.Engines {
		if e.Available {
			fmt.Fprintf(tw, "  %s\tavailable\n", e.Engine)
		} else {
			fmt.Fprintf(tw, "  %s\tunavailable\t%s\n", e.Engine, e.Reason)
		}
	}
	_ = tw.Flush()

	if fi := st.Factorization; fi != nil {
		converged := "converged"
		if !fi.Converged {
			converged = "not converged"
		}
		origin := "fitted"
		if fi.FromSnapshot {
			origin = "snapshot"
		}
		fmt.Fprintf(w, "Factorization: rank %d, %s init, %d iterations, %s, reconstruction error %.4f (%s)\n",
			fi.Rank, fi.Init, fi.Iterations, converged, fi.ReconstructionError, origin)
	}
	if c := st.Cache; c != nil {
		fmt.Fprintf(w, "Cache: %d entries, %d hits, %d misses\n", c.Size, c.Hits, c.Misses)
	}
}
