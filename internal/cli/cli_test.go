// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/recommend"
)

type fakeBackend struct {
	lastRequest recommend.Request
	lastSimilar recommend.SimilarRequest
}

func (f *fakeBackend) RecommendForUser(_ context.Context, req recommend.Request) (*recommend.Result, error) {
	f.lastRequest = req
	if req.UserID != 1 {
		return nil, &recommend.UnknownUserError{UserID: req.UserID}
	}
	res := &recommend.Result{
		Items:           []catalog.Entry{{MovieID: 3, Title: "Heat (1995)", Genres: "Action|Crime"}},
		Engine:          recommend.EngineClassic,
		RequestedEngine: recommend.EngineClassic,
		RequestID:       "req-1",
	}
	if req.Engine == recommend.EngineNMF {
		res.RequestedEngine = recommend.EngineNMF
		res.FallbackReason = "factorization unavailable: negative ratings"
	}
	return res, nil
}

func (f *fakeBackend) SimilarItems(_ context.Context, req recommend.SimilarRequest) (*recommend.Result, error) {
	f.lastSimilar = req
	switch req.MovieID {
	case 1:
		return &recommend.Result{
			Items: []catalog.Entry{
				{MovieID: 2, Title: "Jumanji (1995)", Genres: "Adventure"},
				{MovieID: 3, Title: "Heat (1995)", Genres: "Action|Crime"},
			},
			Engine:          recommend.EngineClassic,
			RequestedEngine: recommend.EngineClassic,
			RequestID:       "req-2",
		}, nil
	case 7:
		return nil, &recommend.DegenerateCatalogError{Movies: 1}
	default:
		return nil, &recommend.UnknownMovieError{MovieID: req.MovieID}
	}
}

func (f *fakeBackend) Status() recommend.Status {
	return recommend.Status{
		Users:         2,
		Movies:        3,
		CatalogSize:   4,
		DefaultEngine: recommend.EngineClassic,
		Engines: []recommend.EngineStatus{
			{Engine: recommend.EngineClassic, Available: true},
			{Engine: recommend.EngineNMF, Available: false, Reason: "factorization unavailable: no ratings"},
		},
		Cache: &recommend.CacheStats{Hits: 1, Misses: 2, Size: 2},
	}
}

func (f *fakeBackend) Users() []int { return []int{1, 2} }

func (f *fakeBackend) Movies() []catalog.Entry {
	return []catalog.Entry{
		{MovieID: 4, Title: "Casino (1995)", Genres: "Crime|Drama"},
		{MovieID: 3, Title: "Heat (1995)", Genres: "Action|Crime"},
	}
}

// runCLI executes the root command with args against backend (or loadErr).
func runCLI(backend Backend, loadErr error, args ...string) (stdout, stderr string, err error) {
	loader := func(context.Context, *RootOptions) (Backend, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return backend, nil
	}

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand(loader)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

var errBoom = fmt.Errorf("boom")
