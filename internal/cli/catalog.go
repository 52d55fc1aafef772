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
)

// NewUsersCommand creates the users command.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "users",
		Short:         "List user ids in ascending order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			backend, err := rootOpts.Backend(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}
			users := backend.Users()
			return f.Success(users, "", func(w io.Writer) {
				for _, id := range users {
					fmt.Fprintln(w, id)
				}
			})
		},
	}
}

// NewMoviesCommand creates the movies command.
func NewMoviesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "movies",
		Short:         "List the movie catalog sorted by title",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			backend, err := rootOpts.Backend(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}
			movies := backend.Movies()
			return f.Success(movies, "", func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tGENRES")
				for _, m := range movies {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", m.MovieID, m.Title, m.Genres)
				}
				_ = tw.Flush()
			})
		},
	}
}
