// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NMFInit selects how the factor matrices are seeded.
type NMFInit string

const (
	// InitNNDSVD seeds from a non-negative double SVD. Zeros stay zero.
	InitNNDSVD NMFInit = "nndsvd"

	// InitNNDSVDA is NNDSVD with zeros replaced by the mean of the input.
	InitNNDSVDA NMFInit = "nndsvda"

	// InitRandom draws |N(0,1)| scaled by sqrt(mean/rank) from the seeded generator.
	InitRandom NMFInit = "random"
)

// nndsvdEpsilon clears numerically negligible NNDSVD entries.
const nndsvdEpsilon = 1e-6

var (
	// ErrNegativeInput is returned when the matrix to factor has negative entries.
	ErrNegativeInput = errors.New("matrix has negative entries")

	// ErrInvalidRank is returned when the rank does not fit the matrix.
	ErrInvalidRank = errors.New("invalid factorization rank")
)

// NMFConfig contains configuration for non-negative matrix factorization.
type NMFConfig struct {
	// Rank is the number of latent components before clamping (see EffectiveRank).
	Rank int

	// MaxIterations bounds the coordinate descent. Reaching it is not an error.
	MaxIterations int

	// Tolerance stops the fit once the projected gradient falls to this
	// fraction of its first-iteration value.
	Tolerance float64

	Init NMFInit

	// Seed drives random initialization and coordinate shuffling.
	Seed int64

	// Shuffle randomizes the coordinate update order each pass.
	Shuffle bool
}

// DefaultNMFConfig returns the default factorization configuration.
func DefaultNMFConfig() NMFConfig {
	return NMFConfig{
		Rank:          15,
		MaxIterations: 500,
		Tolerance:     1e-4,
		Init:          InitNNDSVDA,
		Seed:          42,
		Shuffle:       false,
	}
}

func (c NMFConfig) withDefaults() NMFConfig {
	d := DefaultNMFConfig()
	if c.Rank <= 0 {
		c.Rank = d.Rank
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Init == "" {
		c.Init = d.Init
	}
	return c
}

// EffectiveRank clamps rank to the data: min(rank, max(2, min(users, movies)-1)).
func EffectiveRank(rank, users, movies int) int {
	return min(rank, max(2, min(users, movies)-1))
}

// Factors is a fitted factorization X ≈ W·H with W (users x rank) and H (rank x movies).
type Factors struct {
	W *mat.Dense
	H *mat.Dense

	Iterations          int
	Converged           bool
	ReconstructionError float64
}

// FitNMF factors the non-negative matrix x using cfg.Rank components exactly.
//
// The solver is cyclic coordinate descent on the Frobenius objective,
// alternating W and H passes. It stops when the summed projected gradient
// drops to Tolerance times its first-iteration value, or after MaxIterations.
// Identical input and configuration produce identical factors.
//
//nolint:gocritic // NMFConfig passed by value like the other algorithm configs
func FitNMF(ctx context.Context, x mat.Matrix, cfg NMFConfig) (*Factors, error) {
	cfg = cfg.withDefaults()
	rows, cols := x.Dims()
	k := cfg.Rank
	if k < 1 || k > min(rows, cols) {
		return nil, fmt.Errorf("%w: %d for a %dx%d matrix", ErrInvalidRank, k, rows, cols)
	}
	if hasNegative(x) {
		return nil, ErrNegativeInput
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible seeding, not security

	w, h, err := initFactors(x, k, cfg.Init, rng)
	if err != nil {
		return nil, err
	}

	ht := mat.DenseCopyOf(h.T())
	xt := mat.DenseCopyOf(x.T())

	f := &Factors{}
	var violationInit float64
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		violation := updateCoordinates(w, ht, x, cfg.Shuffle, rng)
		violation += updateCoordinates(ht, w, xt, cfg.Shuffle, rng)
		f.Iterations = iter

		if iter == 1 {
			violationInit = violation
		}
		if violationInit == 0 || violation/violationInit <= cfg.Tolerance {
			f.Converged = true
			break
		}
	}

	f.W = w
	f.H = mat.DenseCopyOf(ht.T())
	f.ReconstructionError = reconstructionError(x, f.W, f.H)
	return f, nil
}

// updateCoordinates runs one coordinate descent pass over w for x ≈ w·htᵀ,
// holding ht fixed, and returns the L1 norm of the projected gradient.
func updateCoordinates(w, ht *mat.Dense, x mat.Matrix, shuffle bool, rng *rand.Rand) float64 {
	_, k := ht.Dims()
	rows, _ := w.Dims()

	var hht, xht mat.Dense
	hht.Mul(ht.T(), ht)
	xht.Mul(x, ht)

	var order []int
	if shuffle {
		order = rng.Perm(k)
	} else {
		order = make([]int, k)
		for t := range order {
			order[t] = t
		}
	}

	var violation float64
	for _, t := range order {
		hess := hht.At(t, t)
		for i := 0; i < rows; i++ {
			grad := -xht.At(i, t)
			for r := 0; r < k; r++ {
				grad += hht.At(t, r) * w.At(i, r)
			}

			pg := grad
			if w.At(i, t) == 0 {
				pg = math.Min(0, grad)
			}
			violation += math.Abs(pg)

			if hess != 0 {
				w.Set(i, t, math.Max(w.At(i, t)-grad/hess, 0))
			}
		}
	}
	return violation
}

func initFactors(x mat.Matrix, k int, init NMFInit, rng *rand.Rand) (w, h *mat.Dense, err error) {
	rows, cols := x.Dims()
	avg := mat.Sum(x) / float64(rows*cols)

	switch init {
	case InitRandom:
		scale := math.Sqrt(avg / float64(k))
		h = mat.NewDense(k, cols, nil)
		w = mat.NewDense(rows, k, nil)
		h.Apply(func(_, _ int, _ float64) float64 { return math.Abs(scale * rng.NormFloat64()) }, h)
		w.Apply(func(_, _ int, _ float64) float64 { return math.Abs(scale * rng.NormFloat64()) }, w)
		return w, h, nil

	case InitNNDSVD, InitNNDSVDA:
		w, h, err = nndsvd(x, k)
		if err != nil {
			return nil, nil, err
		}
		if init == InitNNDSVDA {
			fillZeros(w, avg)
			fillZeros(h, avg)
		}
		return w, h, nil

	default:
		return nil, nil, fmt.Errorf("unknown NMF init %q: must be one of nndsvd, nndsvda, random", init)
	}
}

// nndsvd seeds W and H from the leading k singular triplets, keeping for each
// triplet the sign-part (positive or negative) with the larger norm product.
func nndsvd(x mat.Matrix, k int) (w, h *mat.Dense, err error) {
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, nil, errors.New("nndsvd: singular value decomposition failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	rows, cols := x.Dims()
	w = mat.NewDense(rows, k, nil)
	h = mat.NewDense(k, cols, nil)

	lead := math.Sqrt(s[0])
	for i := 0; i < rows; i++ {
		w.Set(i, 0, lead*math.Abs(u.At(i, 0)))
	}
	for j := 0; j < cols; j++ {
		h.Set(0, j, lead*math.Abs(v.At(j, 0)))
	}

	for c := 1; c < k; c++ {
		xp, xn := splitSigns(mat.Col(nil, c, &u))
		yp, yn := splitSigns(mat.Col(nil, c, &v))

		xpNorm, ypNorm := floats.Norm(xp, 2), floats.Norm(yp, 2)
		xnNorm, ynNorm := floats.Norm(xn, 2), floats.Norm(yn, 2)

		uc, vc, uNorm, vNorm := xn, yn, xnNorm, ynNorm
		sigma := xnNorm * ynNorm
		if pos := xpNorm * ypNorm; pos > sigma {
			uc, vc, uNorm, vNorm = xp, yp, xpNorm, ypNorm
			sigma = pos
		}
		if sigma == 0 {
			continue
		}

		lbd := math.Sqrt(s[c] * sigma)
		for i, val := range uc {
			w.Set(i, c, lbd*val/uNorm)
		}
		for j, val := range vc {
			h.Set(c, j, lbd*val/vNorm)
		}
	}

	clearBelow(w, nndsvdEpsilon)
	clearBelow(h, nndsvdEpsilon)
	return w, h, nil
}

// splitSigns returns max(v, 0) and |min(v, 0)|.
func splitSigns(v []float64) (pos, neg []float64) {
	pos = make([]float64, len(v))
	neg = make([]float64, len(v))
	for i, x := range v {
		if x > 0 {
			pos[i] = x
		} else {
			neg[i] = -x
		}
	}
	return pos, neg
}

func clearBelow(m *mat.Dense, eps float64) {
	m.Apply(func(_, _ int, v float64) float64 {
		if v < eps {
			return 0
		}
		return v
	}, m)
}

func fillZeros(m *mat.Dense, value float64) {
	m.Apply(func(_, _ int, v float64) float64 {
		if v == 0 {
			return value
		}
		return v
	}, m)
}

func hasNegative(x mat.Matrix) bool {
	rows, cols := x.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if x.At(i, j) < 0 {
				return true
			}
		}
	}
	return false
}

// reconstructionError is the Frobenius norm of x - w·h.
func reconstructionError(x mat.Matrix, w, h *mat.Dense) float64 {
	var residual mat.Dense
	residual.Mul(w, h)
	residual.Sub(x, &residual)
	return mat.Norm(&residual, 2)
}
