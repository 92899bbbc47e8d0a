// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// Artifact names. They are fixed so stores written by one build can be read
// by another.
const (
	ArtifactVectorizer = "tfidf_vectorizer"
	ArtifactIndex      = "indices_mapping"
	ArtifactSimilarity = "cosine_sim_matrix"
)

// ArtifactNames lists the artifacts in write order.
var ArtifactNames = []string{ArtifactVectorizer, ArtifactIndex, ArtifactSimilarity}

// manifestFormat is bumped when the artifact encoding changes.
const manifestFormat = 1

var (
	// ErrArtifactNotFound means no complete artifact set has been saved.
	ErrArtifactNotFound = errors.New("model artifacts not found")

	// ErrArtifactCorrupt means an artifact set exists but cannot be used.
	ErrArtifactCorrupt = errors.New("model artifacts corrupt")
)

// ArtifactStore persists complete artifact sets. Load returns the most
// recently saved complete set.
type ArtifactStore interface {
	Load(ctx context.Context) (*recommend.Model, error)
	Save(ctx context.Context, model *recommend.Model) error
	Backend() string
	Close() error
}

// ArtifactInfo describes one stored artifact.
type ArtifactInfo struct {
	Checksum  string `json:"checksum"`
	SizeBytes int64  `json:"size_bytes"`

	// Chunks is the number of value chunks (Badger only).
	Chunks int `json:"chunks,omitempty"`
}

// Manifest describes a stored artifact set.
type Manifest struct {
	Format    int                     `json:"format"`
	Metadata  recommend.ModelMetadata `json:"metadata"`
	SavedAt   time.Time               `json:"saved_at"`
	Artifacts map[string]ArtifactInfo `json:"artifacts"`
}

func (m *Manifest) validate() error {
	if m.Format != manifestFormat {
		return fmt.Errorf("%w: manifest format %d, want %d", ErrArtifactCorrupt, m.Format, manifestFormat)
	}
	if m.Metadata.Version == "" {
		return fmt.Errorf("%w: manifest has no version", ErrArtifactCorrupt)
	}
	for _, name := range ArtifactNames {
		if _, ok := m.Artifacts[name]; !ok {
			return fmt.Errorf("%w: manifest missing %s", ErrArtifactCorrupt, name)
		}
	}
	return nil
}

func encodeManifest(m *Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func decodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %w", ErrArtifactCorrupt, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// encodedSet is a model serialised for storage.
type encodedSet struct {
	manifest *Manifest
	payloads map[string][]byte
}

// encodeModel gob-encodes and compresses each artifact.
func encodeModel(model *recommend.Model) (*encodedSet, error) {
	if !model.Complete() {
		return nil, errors.New("encode model: artifacts incomplete")
	}
	values := map[string]interface{}{
		ArtifactVectorizer: model.Vectorizer,
		ArtifactIndex:      model.Index,
		ArtifactSimilarity: model.Similarity,
	}

	set := &encodedSet{
		manifest: &Manifest{
			Format:    manifestFormat,
			Metadata:  model.Metadata,
			SavedAt:   time.Now().UTC(),
			Artifacts: make(map[string]ArtifactInfo, len(ArtifactNames)),
		},
		payloads: make(map[string][]byte, len(ArtifactNames)),
	}
	for _, name := range ArtifactNames {
		payload, checksum, err := encodeArtifact(values[name])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		set.payloads[name] = payload
		set.manifest.Artifacts[name] = ArtifactInfo{Checksum: checksum, SizeBytes: int64(len(payload))}
	}
	return set, nil
}

// encodeArtifact returns the compressed gob encoding of v and the SHA-256 of
// the uncompressed bytes.
func encodeArtifact(v interface{}) ([]byte, string, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(v); err != nil {
		return nil, "", fmt.Errorf("gob encode: %w", err)
	}
	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, "", fmt.Errorf("compress: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize compression: %w", err)
	}
	return compressed.Bytes(), hex.EncodeToString(hash[:]), nil
}

// decodeArtifact reverses encodeArtifact, verifying the checksum.
func decodeArtifact(payload []byte, checksum string, target interface{}) error {
	gzr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: decompress: %w", ErrArtifactCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return fmt.Errorf("%w: read decompressed data: %w", ErrArtifactCorrupt, err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != checksum {
		return fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrArtifactCorrupt, checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return fmt.Errorf("%w: gob decode: %w", ErrArtifactCorrupt, err)
	}
	return nil
}

// decodeModel assembles a model from a manifest and a payload reader.
func decodeModel(m *Manifest, read func(name string) ([]byte, error)) (*recommend.Model, error) {
	model := &recommend.Model{
		Vectorizer: &algorithms.TFIDFState{},
		Index:      &recommend.TitleIndex{},
		Similarity: &algorithms.SimilarityMatrix{},
		Metadata:   m.Metadata,
	}
	targets := map[string]interface{}{
		ArtifactVectorizer: model.Vectorizer,
		ArtifactIndex:      model.Index,
		ArtifactSimilarity: model.Similarity,
	}

	for _, name := range ArtifactNames {
		payload, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := decodeArtifact(payload, m.Artifacts[name].Checksum, targets[name]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := model.Similarity.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)
	}
	if model.Similarity.N != m.Metadata.ItemCount {
		return nil, fmt.Errorf("%w: similarity dimension %d, manifest item count %d",
			ErrArtifactCorrupt, model.Similarity.N, m.Metadata.ItemCount)
	}
	return model, nil
}
