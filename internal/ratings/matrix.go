// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package ratings

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// Matrix is the dense user-by-movie rating matrix.
// It is safe for concurrent reads; nothing mutates it after NewMatrix returns.
type Matrix struct {
	// data is nil when there are no users or no movies; gonum rejects zero-sized dense matrices.
	data *mat.Dense

	userIDs  []int
	movieIDs []int

	userIndex  map[int]int
	movieIndex map[int]int
}

type cellKey struct {
	user  int
	movie int
}

// NewMatrix builds the matrix from rating records.
// Rows follow ascending user id and columns ascending movie id.
func NewMatrix(records []Rating, policy DuplicatePolicy) (*Matrix, BuildStats, error) {
	policy, err := ParseDuplicatePolicy(string(policy))
	if err != nil {
		return nil, BuildStats{}, err
	}

	users := make(map[int]struct{})
	movies := make(map[int]struct{})
	for _, r := range records {
		users[r.UserID] = struct{}{}
		movies[r.MovieID] = struct{}{}
	}

	m := &Matrix{
		userIDs:  sortedKeys(users),
		movieIDs: sortedKeys(movies),
	}
	m.userIndex = indexOf(m.userIDs)
	m.movieIndex = indexOf(m.movieIDs)

	stats := BuildStats{
		Records: len(records),
		Users:   len(m.userIDs),
		Movies:  len(m.movieIDs),
	}

	if len(m.userIDs) == 0 || len(m.movieIDs) == 0 {
		return m, stats, nil
	}
	m.data = mat.NewDense(len(m.userIDs), len(m.movieIDs), nil)

	switch policy {
	case DuplicateMean:
		sums := make(map[cellKey]float64, len(records))
		counts := make(map[cellKey]int, len(records))
		for _, r := range records {
			k := cellKey{user: m.userIndex[r.UserID], movie: m.movieIndex[r.MovieID]}
			sums[k] += r.Value
			counts[k]++
		}
		for k, sum := range sums {
			n := counts[k]
			if n > 1 {
				stats.Duplicates += n - 1
			}
			m.data.Set(k.user, k.movie, sum/float64(n))
		}
	default:
		seen := make(map[cellKey]struct{}, len(records))
		for _, r := range records {
			k := cellKey{user: m.userIndex[r.UserID], movie: m.movieIndex[r.MovieID]}
			if _, dup := seen[k]; dup {
				stats.Duplicates++
			}
			seen[k] = struct{}{}
			m.data.Set(k.user, k.movie, r.Value)
		}
	}

	return m, stats, nil
}

// Dims returns the number of users (rows) and movies (columns).
func (m *Matrix) Dims() (users, movies int) {
	return len(m.userIDs), len(m.movieIDs)
}

// Empty reports whether the matrix has no cells.
func (m *Matrix) Empty() bool {
	return m.data == nil
}

// UserIDs returns the row ids in order.
func (m *Matrix) UserIDs() []int {
	return append([]int(nil), m.userIDs...)
}

// MovieIDs returns the column ids in order.
func (m *Matrix) MovieIDs() []int {
	return append([]int(nil), m.movieIDs...)
}

// UserIndex maps a user id to its row.
func (m *Matrix) UserIndex(userID int) (int, bool) {
	i, ok := m.userIndex[userID]
	return i, ok
}

// MovieIndex maps a movie id to its column.
func (m *Matrix) MovieIndex(movieID int) (int, bool) {
	j, ok := m.movieIndex[movieID]
	return j, ok
}

// MovieIDsAt maps column indices to movie ids, preserving order.
func (m *Matrix) MovieIDsAt(columns []int) []int {
	out := make([]int, len(columns))
	for i, j := range columns {
		out[i] = m.movieIDs[j]
	}
	return out
}

// At returns cell (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// UserRow returns a copy of row i.
func (m *Matrix) UserRow(i int) []float64 {
	return mat.Row(nil, i, m.data)
}

// Dense exposes the matrix as a read-only gonum view, or nil when Empty.
func (m *Matrix) Dense() mat.Matrix {
	if m.data == nil {
		return nil
	}
	return m.data
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{
		userIDs:    m.UserIDs(),
		movieIDs:   m.MovieIDs(),
		userIndex:  make(map[int]int, len(m.userIndex)),
		movieIndex: make(map[int]int, len(m.movieIndex)),
	}
	for k, v := range m.userIndex {
		c.userIndex[k] = v
	}
	for k, v := range m.movieIndex {
		c.movieIndex[k] = v
	}
	if m.data != nil {
		c.data = mat.DenseCopyOf(m.data)
	}
	return c
}

// Fingerprint hashes the ids and every cell. Equal matrices hash equally.
func (m *Matrix) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = d.Write(buf[:])
	}

	writeInt(len(m.userIDs))
	writeInt(len(m.movieIDs))
	for _, id := range m.userIDs {
		writeInt(id)
	}
	for _, id := range m.movieIDs {
		writeInt(id)
	}
	if m.data != nil {
		rows, cols := m.data.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(m.data.At(i, j)))
				_, _ = d.Write(buf[:])
			}
		}
	}

	return d.Sum64()
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func indexOf(ids []int) map[int]int {
	index := make(map[int]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return index
}
