// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const snapshotKeyPrefix = "nmf_snapshot:"

var (
	// ErrSnapshotNotFound is returned by Load when no snapshot exists for the key.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrChecksumMismatch is returned by Load when stored factors fail verification.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)

// SnapshotMetadata describes a stored factorization.
type SnapshotMetadata struct {
	// Key identifies the ratings matrix and fit configuration the factors belong to.
	Key string `json:"key"`

	Users  int `json:"users"`
	Movies int `json:"movies"`
	Rank   int `json:"rank"`

	Iterations          int     `json:"iterations"`
	Converged           bool    `json:"converged"`
	ReconstructionError float64 `json:"reconstruction_error"`
	Init                string  `json:"init"`

	FitDurationMS int64     `json:"fit_duration_ms"`
	SavedAt       time.Time `json:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed factor payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// FactorSnapshot is a fitted factorization in row-major form:
// W is Users x Rank and H is Rank x Movies.
type FactorSnapshot struct {
	Metadata SnapshotMetadata
	W        []float64
	H        []float64
}

type factorPayload struct {
	W []float64 `json:"w"`
	H []float64 `json:"h"`
}

type storedSnapshot struct {
	Metadata SnapshotMetadata `json:"metadata"`
	Data     []byte           `json:"data"`
}

// BadgerStore persists factor snapshots in BadgerDB so repeated runs over
// unchanged ratings skip the fit.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// OpenBadgerStore opens (or creates) a Badger database in dir.
// The returned store closes the database on Close.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store %s: %w", dir, err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStore wraps an already open database. Close leaves it open.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Save stores snap under snap.Metadata.Key, replacing any previous snapshot.
// Checksum, SizeBytes and SavedAt are filled in.
func (s *BadgerStore) Save(ctx context.Context, snap *FactorSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta := snap.Metadata
	if meta.Key == "" {
		return fmt.Errorf("save snapshot: empty key")
	}
	if len(snap.W) != meta.Users*meta.Rank || len(snap.H) != meta.Rank*meta.Movies {
		return fmt.Errorf("save snapshot %s: factor sizes %d/%d do not match %dx%d rank %d",
			meta.Key, len(snap.W), len(snap.H), meta.Users, meta.Movies, meta.Rank)
	}

	raw, err := json.Marshal(factorPayload{W: snap.W, H: snap.H})
	if err != nil {
		return fmt.Errorf("encode factors: %w", err)
	}

	hash := sha256.Sum256(raw)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress factors: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	data, err := json.Marshal(storedSnapshot{Metadata: meta, Data: compressed.Bytes()})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKeyPrefix+meta.Key), data)
	})
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", meta.Key, err)
	}

	snap.Metadata = meta
	return nil
}

// Load returns the snapshot stored under key.
func (s *BadgerStore) Load(ctx context.Context, key string) (*FactorSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stored storedSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(stored.Data))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %s: %w", key, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after full read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %s: %w", key, err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != stored.Metadata.Checksum {
		return nil, fmt.Errorf("%w: %s: expected %s, got %s", ErrChecksumMismatch, key, stored.Metadata.Checksum, checksum)
	}

	var payload factorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode factors %s: %w", key, err)
	}

	meta := stored.Metadata
	if len(payload.W) != meta.Users*meta.Rank || len(payload.H) != meta.Rank*meta.Movies {
		return nil, fmt.Errorf("%w: %s: factor sizes do not match metadata", ErrChecksumMismatch, key)
	}

	return &FactorSnapshot{Metadata: meta, W: payload.W, H: payload.H}, nil
}

// List returns metadata for every stored snapshot, newest first.
func (s *BadgerStore) List(ctx context.Context) ([]SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []SnapshotMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(snapshotKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var stored storedSnapshot
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			})
			if err != nil {
				continue
			}
			out = append(out, stored.Metadata)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

// Delete removes the snapshot stored under key. Missing keys are not an error.
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(snapshotKeyPrefix + key))
	})
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

// Prune keeps the newest keep snapshots and deletes the rest.
// It returns the number deleted.
func (s *BadgerStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	snapshots, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(snapshots) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, meta := range snapshots[keep:] {
		if err := s.Delete(ctx, meta.Key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
