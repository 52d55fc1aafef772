// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/recommend"
)

// Backend is what commands need from a constructed recommender.
// *recommend.Service implements it.
type Backend interface {
	RecommendForUser(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	SimilarItems(ctx context.Context, req recommend.SimilarRequest) (*recommend.Result, error)
	Status() recommend.Status
	Users() []int
	Movies() []catalog.Entry
}

// Loader builds the Backend once flags are parsed. Configuration failures
// should wrap ErrConfig; table failures surface as ratings.LoadError.
type Loader func(ctx context.Context, opts *RootOptions) (Backend, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"

	loader  Loader
	backend Backend
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the movierec CLI.
func NewRootCommand(loader Loader) *cobra.Command {
	opts := &RootOptions{loader: loader}

	cmd := &cobra.Command{
		Use:   "movierec",
		Short: "Movie recommendations from a ratings table",
		Long: `movierec recommends movies from a MovieLens-style ratings table.

The classic engine scores unseen movies by item-item cosine similarity.
The nmf engine scores them from a non-negative matrix factorization and
falls back to classic when the ratings cannot support one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: CONFIG_PATH or movierec.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewSimilarCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewMoviesCommand(opts))

	return cmd
}

// Backend returns the loaded backend, building it on first use.
func (o *RootOptions) Backend(ctx context.Context) (Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	if o.loader == nil {
		return nil, fmt.Errorf("%w: no loader configured", ErrConfig)
	}
	b, err := o.loader(ctx, o)
	if err != nil {
		return nil, err
	}
	o.backend = b
	return b, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
