// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

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
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Errors returned by the store.
var (
	ErrModelNotFound    = errors.New("model not found")
	ErrChecksumMismatch = errors.New("model checksum mismatch")
	ErrVersionExists    = errors.New("model version already exists")
)

const (
	modelExt = ".gob.gz"
	tempExt  = ".tmp"
)

// ModelMetadata describes one stored model artifact.
type ModelMetadata struct {
	// Name is the artifact name (e.g., "segmentation").
	Name string `json:"name"`

	// Version is the model version (monotonically increasing per name).
	Version int `json:"version"`

	// RunID identifies the training run that produced the artifact.
	// Artifacts from the same run share it.
	RunID string `json:"run_id"`

	TrainedAt time.Time `json:"trained_at"`
	SavedAt   time.Time `json:"saved_at"`

	// Records is the number of training rows.
	Records int `json:"records"`

	// Features is the width of the training feature vector.
	Features int `json:"features"`

	// Scores holds evaluation metrics such as train/test R².
	Scores map[string]float64 `json:"scores,omitempty"`

	// Checksum is the SHA-256 of the uncompressed gob payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// storedFile is the on-disk format for model files.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// Store persists trained model artifacts as versioned files in one directory.
// Files are named {name}_v{version}.gob.gz and are written through a temp
// file that is hard-linked into place, so readers never observe a partial
// artifact and an existing version is never overwritten.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// NewStore opens (creating if needed) a model store at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scanModels(true); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}

	return s, nil
}

// scanModels rebuilds the latest version of every artifact from the files on
// disk. With cleanup set it also removes temp files left behind by an
// interrupted save; that is only safe before any save in this process and
// while no other process is writing.
//
// Several processes may share one directory (thrive serve and thrive train),
// so the map is rebuilt whenever a caller needs the latest version.
// Callers must hold s.mu for writing, or own s exclusively.
func (s *Store) scanModels(cleanup bool) error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	versions := make(map[string]int, len(s.versions))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), tempExt) {
			if cleanup {
				_ = os.Remove(filepath.Join(s.baseDir, entry.Name())) //nolint:errcheck // best-effort cleanup
			}
			continue
		}

		name, version, ok := parseEntry(entry.Name())
		if !ok {
			continue
		}
		if current, seen := versions[name]; !seen || version > current {
			versions[name] = version
		}
	}

	s.versions = versions
	return nil
}

// refresh rescans the directory, keeping the cached versions if the scan
// fails. Callers must hold s.mu for writing.
func (s *Store) refresh() {
	_ = s.scanModels(false) //nolint:errcheck // a failed rescan keeps the cached versions
}

// versionsOf lists every version of name on disk, newest first.
func (s *Store) versionsOf(name string) ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, v, ok := parseEntry(entry.Name())
		if ok && n == name {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// parseEntry splits "segmentation_v3.gob.gz" into ("segmentation", 3).
func parseEntry(filename string) (name string, version int, ok bool) {
	if !strings.HasSuffix(filename, modelExt) {
		return "", 0, false
	}
	name, version = parseModelFilename(strings.TrimSuffix(filename, modelExt))
	return name, version, name != ""
}

// parseModelFilename extracts the artifact name and version from "name_v1".
func parseModelFilename(name string) (modelName string, version int) {
	idx := strings.LastIndex(name, "_v")
	if idx < 1 {
		return "", 0
	}

	if _, err := fmt.Sscanf(name[idx+2:], "%d", &version); err != nil || version < 1 {
		return "", 0
	}

	return name[:idx], version
}

// NextVersion returns the version a new save of name should use. It rescans
// the directory first, so versions written by another process are not reused.
func (s *Store) NextVersion(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	return s.versions[name] + 1
}

// Save stores data under name and version. The payload is gob encoded,
// checksummed, gzip compressed and written atomically. Saving a version that
// is already on disk returns an error wrapping ErrVersionExists.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data interface{}, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if version < 1 {
		return fmt.Errorf("invalid model version %d", version)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()
	meta.Name = name
	meta.Version = version

	s.mu.Lock()
	defer s.mu.Unlock()

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := s.writeAtomic(s.modelPath(name, version), sf); err != nil {
		return err
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}

	return nil
}

// writeAtomic writes sf to a temp file in the store directory, syncs it and
// links it to path. The link fails if path exists.
func (s *Store) writeAtomic(path string, sf storedFile) (err error) {
	tmp, err := os.CreateTemp(s.baseDir, filepath.Base(path)+".*"+tempExt)
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()        //nolint:errcheck // already failing
			_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	if err = gob.NewEncoder(tmp).Encode(sf); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync model file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err = os.Link(tmpName, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrVersionExists, filepath.Base(path))
		}
		return fmt.Errorf("link model file: %w", err)
	}
	_ = os.Remove(tmpName) //nolint:errcheck // the artifact is in place; a leftover temp file is cleaned on next open
	return nil
}

// Load decodes a model into target. Version 0 loads the latest version on
// disk, including one saved by another process since the store was opened.
// A name or version with no file returns an error wrapping ErrModelNotFound.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if version == 0 {
		s.mu.Lock()
		s.refresh()
		latest, ok := s.versions[name]
		s.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
		version = latest
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := readStoredFile(s.modelPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: %s v%d expected %s, got %s",
			ErrChecksumMismatch, name, version, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return &sf.Metadata, nil
}

func readStoredFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory and artifact name
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return &sf, nil
}

// ListModels returns metadata for the latest version of every stored model,
// sorted by name. Unreadable files are skipped.
func (s *Store) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()

	var out []ModelMetadata
	for name, version := range s.versions {
		sf, err := readStoredFile(s.modelPath(name, version))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Prune removes old versions of name, keeping the newest keepVersions.
// It returns how many files were removed.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if keepVersions < 1 {
		keepVersions = 1
	}
	if _, ok := s.versions[name]; !ok {
		return 0, nil
	}

	versions, err := s.versionsOf(name)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := keepVersions; i < len(versions); i++ {
		if err := os.Remove(s.modelPath(name, versions[i])); err == nil {
			removed++
		}
	}

	return removed, nil
}

// modelPath returns the file path for a model.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, modelExt))
}
