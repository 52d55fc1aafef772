// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/ratings"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// SnapshotStore persists fitted factors between runs. *storage.BadgerStore implements it.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*storage.FactorSnapshot, error)
	Save(ctx context.Context, snap *storage.FactorSnapshot) error
}

// Factorization recommends from a non-negative factorization of the rating matrix.
// It is immutable after NewFactorization and safe for concurrent use.
type Factorization struct {
	ratings *ratings.Matrix
	w       *mat.Dense
	h       *mat.Dense
	info    recommend.FactorizationInfo
}

var _ recommend.FactorizationRecommender = (*Factorization)(nil)

// NewFactorization fits (or restores from snapshots, which may be nil) the
// factors of a private copy of m.
//
// When the data cannot support a factorization it returns a
// *recommend.FactorizationUnavailableError; callers keep serving the classic
// engine. Context cancellation is returned as is.
//
//nolint:gocritic // NMFConfig and zerolog.Logger passed by value
func NewFactorization(ctx context.Context, m *ratings.Matrix, cfg NMFConfig, snapshots SnapshotStore, logger zerolog.Logger) (*Factorization, error) {
	owned := m.Clone()
	users, movies := owned.Dims()
	if owned.Empty() {
		return nil, &recommend.FactorizationUnavailableError{Reason: "no ratings"}
	}

	cfg = cfg.withDefaults()
	k := EffectiveRank(cfg.Rank, users, movies)
	if k < 2 || k >= min(users, movies) {
		return nil, &recommend.FactorizationUnavailableError{
			Reason: fmt.Sprintf("rank %d needs more than %d users and movies, have %d users and %d movies", k, k, users, movies),
		}
	}
	if hasNegative(owned.Dense()) {
		return nil, &recommend.FactorizationUnavailableError{Reason: "negative ratings", Err: ErrNegativeInput}
	}
	cfg.Rank = k

	key := SnapshotKey(owned.Fingerprint(), cfg)
	if snapshots != nil {
		if f := restoreSnapshot(ctx, snapshots, key, owned, cfg, logger); f != nil {
			return f, nil
		}
	}

	start := time.Now()
	factors, err := FitNMF(ctx, owned.Dense(), cfg)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &recommend.FactorizationUnavailableError{Reason: "fit failed", Err: err}
	}
	took := time.Since(start)

	metrics.RecordNMFFit(factors.Iterations, factors.ReconstructionError, factors.Converged)
	event := logger.Info()
	if !factors.Converged {
		event = logger.Warn()
	}
	event.
		Int("rank", k).
		Int("iterations", factors.Iterations).
		Bool("converged", factors.Converged).
		Float64("reconstruction_error", factors.ReconstructionError).
		Dur("took", took).
		Msg("Factorization fitted")

	f := &Factorization{
		ratings: owned,
		w:       factors.W,
		h:       factors.H,
		info: recommend.FactorizationInfo{
			Rank:                k,
			Iterations:          factors.Iterations,
			Converged:           factors.Converged,
			ReconstructionError: factors.ReconstructionError,
			Init:                string(cfg.Init),
			FitDuration:         took,
		},
	}

	if snapshots != nil {
		snap := f.snapshot(key)
		if err := snapshots.Save(ctx, snap); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to save factor snapshot")
		} else {
			logger.Debug().Str("key", key).Int64("size_bytes", snap.Metadata.SizeBytes).Msg("Factor snapshot saved")
		}
	}

	return f, nil
}

// restoreSnapshot returns nil when no usable snapshot exists; the caller then fits.
//
//nolint:gocritic // NMFConfig and zerolog.Logger passed by value
func restoreSnapshot(ctx context.Context, snapshots SnapshotStore, key string, m *ratings.Matrix, cfg NMFConfig, logger zerolog.Logger) *Factorization {
	snap, err := snapshots.Load(ctx, key)
	switch {
	case errors.Is(err, storage.ErrSnapshotNotFound):
		metrics.RecordSnapshotLookup("miss")
		return nil
	case err != nil:
		metrics.RecordSnapshotLookup("error")
		logger.Warn().Err(err).Str("key", key).Msg("Ignoring unreadable factor snapshot")
		return nil
	}

	users, movies := m.Dims()
	meta := snap.Metadata
	if meta.Users != users || meta.Movies != movies || meta.Rank != cfg.Rank ||
		len(snap.W) != users*meta.Rank || len(snap.H) != meta.Rank*movies {
		metrics.RecordSnapshotLookup("error")
		logger.Warn().Str("key", key).Msg("Ignoring factor snapshot with mismatched shape")
		return nil
	}

	metrics.RecordSnapshotLookup("hit")
	logger.Info().
		Str("key", key).
		Int("rank", meta.Rank).
		Time("saved_at", meta.SavedAt).
		Msg("Factorization restored from snapshot")

	return &Factorization{
		ratings: m,
		w:       mat.NewDense(users, meta.Rank, snap.W),
		h:       mat.NewDense(meta.Rank, movies, snap.H),
		info: recommend.FactorizationInfo{
			Rank:                meta.Rank,
			Iterations:          meta.Iterations,
			Converged:           meta.Converged,
			ReconstructionError: meta.ReconstructionError,
			Init:                meta.Init,
			FromSnapshot:        true,
			FitDuration:         time.Duration(meta.FitDurationMS) * time.Millisecond,
		},
	}
}

func (f *Factorization) snapshot(key string) *storage.FactorSnapshot {
	users, movies := f.ratings.Dims()
	return &storage.FactorSnapshot{
		Metadata: storage.SnapshotMetadata{
			Key:                 key,
			Users:               users,
			Movies:              movies,
			Rank:                f.info.Rank,
			Iterations:          f.info.Iterations,
			Converged:           f.info.Converged,
			ReconstructionError: f.info.ReconstructionError,
			Init:                f.info.Init,
			FitDurationMS:       f.info.FitDuration.Milliseconds(),
		},
		W: append([]float64(nil), f.w.RawMatrix().Data...),
		H: append([]float64(nil), f.h.RawMatrix().Data...),
	}
}

// SnapshotKey identifies a fit by the matrix fingerprint and every parameter that affects it.
//
//nolint:gocritic // NMFConfig passed by value
func SnapshotKey(fingerprint uint64, cfg NMFConfig) string {
	return fmt.Sprintf("%016x/k%d/it%d/tol%g/%s/seed%d/shuffle=%t",
		fingerprint, cfg.Rank, cfg.MaxIterations, cfg.Tolerance, cfg.Init, cfg.Seed, cfg.Shuffle)
}

// RecommendForUser returns up to topN unrated movie ids ranked by W[u]·H.
func (f *Factorization) RecommendForUser(userID, topN int) ([]int, error) {
	row, ok := f.ratings.UserIndex(userID)
	if !ok {
		return nil, &recommend.UnknownUserError{UserID: userID}
	}

	var pref mat.VecDense
	pref.MulVec(f.h.T(), f.w.RowView(row))

	r := f.ratings.UserRow(row)
	ranked := recommend.TopN(pref.RawVector().Data, topN, func(j int) bool { return r[j] > 0 })
	return f.ratings.MovieIDsAt(ranked), nil
}

// Info describes the fitted factorization.
func (f *Factorization) Info() recommend.FactorizationInfo {
	return f.info
}
