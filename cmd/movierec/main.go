// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/cli"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{logOutput: stderr}
	defer a.close()

	cmd := cli.NewRootCommand(a.load)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	a.writeMetrics()
	return cli.GetExitCode(err)
}

// app owns the resources created while loading the backend.
type app struct {
	logOutput   io.Writer
	logger      zerolog.Logger
	metricsPath string
	cleanups    []func()
}

// load is the cli.Loader: configuration, logging, data, then engines.
func (a *app) load(ctx context.Context, opts *cli.RootOptions) (cli.Backend, error) {
	cfg, err := config.LoadWithKoanf(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrConfig, err)
	}
	a.metricsPath = cfg.Metrics.TextfilePath
	a.logger = initLogging(cfg, opts.Verbose, a.logOutput)

	a.logger.Debug().
		Str("source", cfg.Data.Source).
		Str("default_engine", cfg.Recommend.DefaultEngine).
		Bool("nmf_enabled", cfg.Recommend.NMF.Enabled).
		Msg("Configuration loaded")

	data, err := loadData(ctx, cfg, logging.Component("data"))
	if err != nil {
		return nil, err
	}

	svc, cleanup, err := initRecommend(ctx, cfg, data, logging.Component("engines"))
	if err != nil {
		return nil, err
	}
	a.cleanups = append(a.cleanups, cleanup)

	return svc, nil
}

// close runs cleanups in reverse order.
func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func (a *app) writeMetrics() {
	if a.metricsPath == "" {
		return
	}
	if err := metrics.WriteTextfile(a.metricsPath); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to write metrics textfile")
	}
}

//nolint:gocritic // zerolog.Logger is returned by value
func initLogging(cfg *config.Config, verbose bool, out io.Writer) zerolog.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if out == nil {
		out = os.Stderr
	}

	logging.Init(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    out,
	})
	return logging.Logger()
}
