// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Key layout:
//
//	model:current                       -> version
//	model:gen:<version>:manifest        -> manifest JSON
//	model:gen:<version>:<artifact>:<n>  -> payload chunk n
const (
	badgerCurrentKey = "model:current"
	badgerGenPrefix  = "model:gen:"

	// badgerChunkSize keeps each value well below Badger's per-transaction
	// size limit.
	badgerChunkSize = 1 << 20
)

// BadgerStore stores artifact sets in BadgerDB.
type BadgerStore struct {
	db   *badger.DB
	keep int
	log  zerolog.Logger
	own  bool

	mu sync.Mutex
}

// OpenBadgerStore opens (or creates) a Badger database at path.
func OpenBadgerStore(path string, keep int, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	logger.Info().Str("path", path).Msg("Model artifact database opened")
	s := NewBadgerStore(db, keep, logger)
	s.own = true
	return s, nil
}

// NewBadgerStore wraps an open database. The caller keeps ownership of db.
func NewBadgerStore(db *badger.DB, keep int, logger zerolog.Logger) *BadgerStore {
	if keep < 1 {
		keep = 1
	}
	return &BadgerStore{db: db, keep: keep, log: logger}
}

// Backend returns "badger".
func (s *BadgerStore) Backend() string { return "badger" }

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if s.own {
		return s.db.Close()
	}
	return nil
}

// Load reads the set the current pointer references. The whole read runs in
// one read transaction, so a concurrent save cannot interleave with it.
func (s *BadgerStore) Load(ctx context.Context) (*recommend.Model, error) {
	var model *recommend.Model

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerCurrentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrArtifactNotFound
		}
		if err != nil {
			return fmt.Errorf("get pointer: %w", err)
		}
		version, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read pointer: %w", err)
		}

		item, err = txn.Get(manifestKey(string(version)))
		if err != nil {
			return fmt.Errorf("%w: generation %s manifest: %w", ErrArtifactCorrupt, version, err)
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		manifest, err := decodeManifest(data)
		if err != nil {
			return err
		}

		model, err = decodeModel(manifest, func(name string) ([]byte, error) {
			return readChunks(ctx, txn, string(version), name, manifest.Artifacts[name])
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return model, nil
}

func readChunks(ctx context.Context, txn *badger.Txn, version, name string, info ArtifactInfo) ([]byte, error) {
	payload := make([]byte, 0, info.SizeBytes)
	for n := 0; n < info.Chunks; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := txn.Get(chunkKey(version, name, n))
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %w", ErrArtifactCorrupt, n, err)
		}
		if err := item.Value(func(val []byte) error {
			payload = append(payload, val...)
			return nil
		}); err != nil {
			return nil, fmt.Errorf("read chunk %d: %w", n, err)
		}
	}
	if int64(len(payload)) != info.SizeBytes {
		return nil, fmt.Errorf("%w: %d bytes, manifest says %d", ErrArtifactCorrupt, len(payload), info.SizeBytes)
	}
	return payload, nil
}

// Save stages the artifact chunks under the new version, then commits the
// manifest and the pointer in a single transaction. Staged chunks are not
// reachable until that commit.
func (s *BadgerStore) Save(ctx context.Context, model *recommend.Model) error {
	set, err := encodeModel(model)
	if err != nil {
		return err
	}
	version := model.Metadata.Version
	if version == "" {
		return errors.New("save model: empty version")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wb := s.db.NewWriteBatch()
	if err := stageChunks(ctx, wb, set, version); err != nil {
		wb.Cancel()
		return err
	}
	if err := wb.Flush(); err != nil {
		s.dropVersion(version)
		return fmt.Errorf("flush staged artifacts: %w", err)
	}

	manifest, err := encodeManifest(set.manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	var previous []string
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry(manifestKey(version), manifest)); err != nil {
			return err
		}
		if err := txn.SetEntry(badger.NewEntry([]byte(badgerCurrentKey), []byte(version))); err != nil {
			return err
		}
		previous, err = listVersions(txn)
		return err
	})
	if err != nil {
		s.dropVersion(version)
		return fmt.Errorf("commit model artifacts: %w", err)
	}

	s.log.Info().
		Str("version", version).
		Int("items", model.Metadata.ItemCount).
		Msg("Model artifacts saved")

	s.prune(version, previous)
	return nil
}

// stageChunks writes each payload as fixed-size chunks and records the chunk
// count in the manifest.
func stageChunks(ctx context.Context, wb *badger.WriteBatch, set *encodedSet, version string) error {
	for _, name := range ArtifactNames {
		payload := set.payloads[name]
		chunks := 0
		for off := 0; off < len(payload) || chunks == 0; off += badgerChunkSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := min(off+badgerChunkSize, len(payload))
			if err := wb.Set(chunkKey(version, name, chunks), payload[off:end]); err != nil {
				return fmt.Errorf("stage %s: %w", name, err)
			}
			chunks++
		}
		info := set.manifest.Artifacts[name]
		info.Chunks = chunks
		set.manifest.Artifacts[name] = info
	}
	return nil
}

// Versions lists versions with a committed manifest.
func (s *BadgerStore) Versions() ([]string, error) {
	var versions []string
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		versions, err = listVersions(txn)
		return err
	})
	return versions, err
}

func listVersions(txn *badger.Txn) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var versions []string
	prefix := []byte(badgerGenPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := string(it.Item().Key())
		if version, ok := strings.CutSuffix(strings.TrimPrefix(key, badgerGenPrefix), ":manifest"); ok && version != "" {
			versions = append(versions, version)
		}
	}
	return versions, nil
}

// prune drops all but keep versions, newest first by save time.
func (s *BadgerStore) prune(current string, versions []string) {
	if len(versions) <= s.keep {
		return
	}

	type gen struct {
		version string
		saved   int64
	}
	gens := make([]gen, 0, len(versions))
	_ = s.db.View(func(txn *badger.Txn) error { //nolint:errcheck // unreadable manifests sort last and are pruned
		for _, v := range versions {
			g := gen{version: v}
			if item, err := txn.Get(manifestKey(v)); err == nil {
				if data, err := item.ValueCopy(nil); err == nil {
					if m, err := decodeManifest(data); err == nil {
						g.saved = m.SavedAt.UnixNano()
					}
				}
			}
			gens = append(gens, g)
		}
		return nil
	})

	sort.SliceStable(gens, func(i, j int) bool { return gens[i].saved > gens[j].saved })

	kept := 1
	for _, g := range gens {
		if g.version == current {
			continue
		}
		if kept < s.keep {
			kept++
			continue
		}
		s.dropVersion(g.version)
	}
}

func (s *BadgerStore) dropVersion(version string) {
	if err := s.deletePrefix([]byte(badgerGenPrefix + version + ":")); err != nil {
		s.log.Warn().Err(err).Str("version", version).Msg("Failed to prune model generation")
		return
	}
	s.log.Debug().Str("version", version).Msg("Pruned model generation")
}

// deletePrefix removes every key under prefix.
func (s *BadgerStore) deletePrefix(prefix []byte) error {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			wb.Cancel()
			return err
		}
	}
	return wb.Flush()
}

func manifestKey(version string) []byte {
	return []byte(badgerGenPrefix + version + ":manifest")
}

func chunkKey(version, name string, n int) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%06d", badgerGenPrefix, version, name, n))
}
