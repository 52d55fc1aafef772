// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

func newTestStore(t *testing.T) (*BadgerStore, *badger.DB) {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db), db
}

func testSnapshot(key string) *FactorSnapshot {
	return &FactorSnapshot{
		Metadata: SnapshotMetadata{
			Key:                 key,
			Users:               3,
			Movies:              2,
			Rank:                2,
			Iterations:          17,
			Converged:           true,
			ReconstructionError: 0.25,
			Init:                "nndsvda",
			FitDurationMS:       4,
		},
		W: []float64{1, 0, 0.5, 0.5, 0, 1},
		H: []float64{2, 0, 0, 3},
	}
}

func TestBadgerStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	snap := testSnapshot("abc")
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap.Metadata.Checksum == "" {
		t.Error("Save() should fill in the checksum")
	}
	if snap.Metadata.SizeBytes <= 0 {
		t.Error("Save() should fill in the compressed size")
	}
	if snap.Metadata.SavedAt.IsZero() {
		t.Error("Save() should fill in SavedAt")
	}

	got, err := store.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Metadata.Iterations != 17 || !got.Metadata.Converged || got.Metadata.Init != "nndsvda" {
		t.Errorf("Load() metadata = %+v", got.Metadata)
	}
	for i, v := range snap.W {
		if got.W[i] != v {
			t.Errorf("W[%d] = %v, want %v", i, got.W[i], v)
		}
	}
	for i, v := range snap.H {
		if got.H[i] != v {
			t.Errorf("H[%d] = %v, want %v", i, got.H[i], v)
		}
	}
}

func TestBadgerStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "missing")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Load() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestBadgerStore_SaveValidates(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*FactorSnapshot)
	}{
		{"empty key", func(s *FactorSnapshot) { s.Metadata.Key = "" }},
		{"short W", func(s *FactorSnapshot) { s.W = s.W[:4] }},
		{"wrong rank", func(s *FactorSnapshot) { s.Metadata.Rank = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot("k")
			tt.mutate(snap)
			if err := store.Save(ctx, snap); err == nil {
				t.Error("Save() expected error")
			}
		})
	}
}

func TestBadgerStore_ChecksumValidation(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot("tampered")); err != nil {
		t.Fatal(err)
	}

	// Rewrite the metadata checksum to simulate corruption.
	err := db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKeyPrefix + "tampered"))
		if err != nil {
			return err
		}
		var stored storedSnapshot
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &stored) }); err != nil {
			return err
		}
		stored.Metadata.Checksum = "deadbeef"
		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		return txn.Set([]byte(snapshotKeyPrefix+"tampered"), data)
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Load(ctx, "tampered")
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Load() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestBadgerStore_ListDeletePrune(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, testSnapshot(key)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() len = %d, want 3", len(list))
	}
	if list[0].Key != "c" {
		t.Errorf("List()[0] = %q, want newest snapshot c", list[0].Key)
	}

	deleted, err := store.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted = %d, want 1", deleted)
	}
	if _, err := store.Load(ctx, "a"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("oldest snapshot should be pruned, Load() error = %v", err)
	}

	if err := store.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "never-saved"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}

	list, _ = store.List(ctx)
	if len(list) != 1 || list[0].Key != "c" {
		t.Errorf("List() after delete = %+v, want only c", list)
	}
}

func TestBadgerStore_CanceledContext(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, testSnapshot("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
	if _, err := store.Load(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestOpenBadgerStore(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	if err := store.Save(context.Background(), testSnapshot("disk")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()

	if _, err := reopened.Load(context.Background(), "disk"); err != nil {
		t.Errorf("Load() after reopen error = %v", err)
	}
}
