// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
)

const (
	currentFile    = "CURRENT"
	generationsDir = "generations"
	manifestFile   = "manifest.json"
	artifactSuffix = ".gob.gz"
	stagingPrefix  = ".staging-"
)

// FileStore stores artifact sets as generation directories selected by a
// CURRENT pointer file.
type FileStore struct {
	dir  string
	keep int
	log  zerolog.Logger

	// mu serialises writers within the process. Readers need no lock.
	mu sync.Mutex
}

// NewFileStore creates the store directory if needed. keep is the number of
// generations retained after a save (at least 1).
func NewFileStore(dir string, keep int, logger zerolog.Logger) (*FileStore, error) {
	if keep < 1 {
		keep = 1
	}
	if err := os.MkdirAll(filepath.Join(dir, generationsDir), 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create model directory: %w", err)
	}
	return &FileStore{dir: dir, keep: keep, log: logger}, nil
}

// Backend returns "file".
func (s *FileStore) Backend() string { return "file" }

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// Dir returns the store root.
func (s *FileStore) Dir() string { return s.dir }

// Current returns the version CURRENT points at.
func (s *FileStore) Current() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, currentFile)) //nolint:gosec // path is built from the configured model directory
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrArtifactNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read pointer: %w", err)
	}
	version := strings.TrimSpace(string(data))
	if version == "" || strings.ContainsAny(version, `/\`) || version == "." || version == ".." {
		return "", fmt.Errorf("%w: invalid pointer %q", ErrArtifactCorrupt, version)
	}
	return version, nil
}

// Load reads the generation CURRENT points at.
func (s *FileStore) Load(ctx context.Context) (*recommend.Model, error) {
	version, err := s.Current()
	if err != nil {
		return nil, err
	}
	genDir := s.generationPath(version)

	data, err := os.ReadFile(filepath.Join(genDir, manifestFile)) //nolint:gosec // path is built from the configured model directory
	if err != nil {
		return nil, fmt.Errorf("%w: generation %s: %w", ErrArtifactCorrupt, version, err)
	}
	manifest, err := decodeManifest(data)
	if err != nil {
		return nil, fmt.Errorf("generation %s: %w", version, err)
	}

	model, err := decodeModel(manifest, func(name string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := os.ReadFile(filepath.Join(genDir, name+artifactSuffix)) //nolint:gosec // fixed artifact names
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, fmt.Errorf("generation %s: %w", version, err)
	}
	return model, nil
}

// Save writes model as a new generation and points CURRENT at it. The
// generation is staged under a temporary name and renamed into place, so the
// generation directory is complete before CURRENT can reference it.
func (s *FileStore) Save(ctx context.Context, model *recommend.Model) error {
	set, err := encodeModel(model)
	if err != nil {
		return err
	}
	version := model.Metadata.Version
	if version == "" || strings.ContainsAny(version, `/\`) {
		return fmt.Errorf("save model: invalid version %q", version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staging, err := os.MkdirTemp(filepath.Join(s.dir, generationsDir), stagingPrefix)
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging) //nolint:errcheck // best-effort cleanup of a failed save
		}
	}()

	for _, name := range ArtifactNames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFileSync(filepath.Join(staging, name+artifactSuffix), set.payloads[name]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	manifest, err := encodeManifest(set.manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := writeFileSync(filepath.Join(staging, manifestFile), manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	genDir := s.generationPath(version)
	if err := os.Rename(staging, genDir); err != nil {
		return fmt.Errorf("commit generation: %w", err)
	}
	committed = true

	if err := s.swapPointer(version); err != nil {
		return err
	}

	s.log.Info().
		Str("version", version).
		Str("path", genDir).
		Int("items", model.Metadata.ItemCount).
		Msg("Model artifacts saved")

	s.prune(version)
	return nil
}

// swapPointer replaces CURRENT atomically.
func (s *FileStore) swapPointer(version string) error {
	tmp, err := os.CreateTemp(s.dir, currentFile+".tmp-")
	if err != nil {
		return fmt.Errorf("create pointer: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.WriteString(version + "\n"); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write pointer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync pointer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close pointer: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, currentFile)); err != nil {
		return fmt.Errorf("swap pointer: %w", err)
	}
	syncDir(s.dir)
	return nil
}

// Generations lists stored generation versions, newest first by manifest
// save time. Generations with an unreadable manifest sort last.
func (s *FileStore) Generations() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, generationsDir))
	if err != nil {
		return nil, fmt.Errorf("read generations: %w", err)
	}

	type gen struct {
		version string
		saved   int64
	}
	gens := make([]gen, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), stagingPrefix) {
			continue
		}
		g := gen{version: entry.Name()}
		data, err := os.ReadFile(filepath.Join(s.generationPath(entry.Name()), manifestFile)) //nolint:gosec // path is built from the configured model directory
		if err == nil {
			if m, err := decodeManifest(data); err == nil {
				g.saved = m.SavedAt.UnixNano()
			}
		}
		gens = append(gens, g)
	}
	sort.SliceStable(gens, func(i, j int) bool {
		if gens[i].saved != gens[j].saved {
			return gens[i].saved > gens[j].saved
		}
		return gens[i].version > gens[j].version
	})

	out := make([]string, len(gens))
	for i, g := range gens {
		out[i] = g.version
	}
	return out, nil
}

// prune removes generations beyond keep, never the current one.
func (s *FileStore) prune(current string) {
	gens, err := s.Generations()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to list model generations")
		return
	}

	kept := 1
	for _, version := range gens {
		if version == current {
			continue
		}
		if kept < s.keep {
			kept++
			continue
		}
		if err := os.RemoveAll(s.generationPath(version)); err != nil {
			s.log.Warn().Err(err).Str("version", version).Msg("Failed to prune model generation")
			continue
		}
		s.log.Debug().Str("version", version).Msg("Pruned model generation")
	}
}

func (s *FileStore) generationPath(version string) string {
	return filepath.Join(s.dir, generationsDir, version)
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640) //nolint:gosec // path is inside the staging directory
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close() //nolint:errcheck // sync error takes precedence
		return err
	}
	return f.Close()
}

// syncDir flushes a directory entry update. Not all platforms support it.
func syncDir(dir string) {
	d, err := os.Open(dir) //nolint:gosec // configured model directory
	if err != nil {
		return
	}
	_ = d.Sync()  //nolint:errcheck // unsupported on some platforms
	_ = d.Close() //nolint:errcheck // read-only handle
}
