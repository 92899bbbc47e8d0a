// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/cinematch/internal/logging"
)

func newTestBadgerStore(t *testing.T, keep int) (*BadgerStore, *badger.DB) {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("badger.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db, keep, logging.Nop()), db
}

func TestBadgerStore_LoadEmpty(t *testing.T) {
	t.Parallel()

	s, _ := newTestBadgerStore(t, 2)
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Load() error = %v, want ErrArtifactNotFound", err)
	}
}

func TestBadgerStore_SaveLoad(t *testing.T) {
	t.Parallel()

	s, _ := newTestBadgerStore(t, 2)
	want := buildTestModel(t, testRecords())

	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameModel(t, got, want)
	if s.Backend() != "badger" {
		t.Errorf("Backend() = %q", s.Backend())
	}
}

func TestBadgerStore_CorruptChunk(t *testing.T) {
	t.Parallel()

	s, db := newTestBadgerStore(t, 2)
	m := buildTestModel(t, testRecords())
	if err := s.Save(context.Background(), m); err != nil {
		t.Fatal(err)
	}

	err := db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(m.Metadata.Version, ArtifactIndex, 0), []byte("not gzip"))
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(context.Background()); !errors.Is(err, ErrArtifactCorrupt) {
		t.Errorf("Load() error = %v, want ErrArtifactCorrupt", err)
	}
}

func TestBadgerStore_PrunesOldVersions(t *testing.T) {
	t.Parallel()

	s, _ := newTestBadgerStore(t, 2)
	var last string
	for i := 0; i < 4; i++ {
		m := buildTestModel(t, testRecords())
		if err := s.Save(context.Background(), m); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
		last = m.Metadata.Version
	}

	versions, err := s.Versions()
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 2 {
		t.Errorf("versions = %v, want 2 kept", versions)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Metadata.Version != last {
		t.Errorf("Load() version = %s, want %s", got.Metadata.Version, last)
	}
}
