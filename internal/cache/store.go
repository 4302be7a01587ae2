// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is the content-addressed store that gates expensive paper
// analysis behind a fingerprint lookup.
package cache

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// Fingerprint derives the cache key from a paper's identity fields. Two
// records with the same title, URL, and submission timestamp always map to
// the same fingerprint regardless of any other field.
func Fingerprint(title, url string, submitted time.Time) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(url))
	h.Write([]byte{0})
	h.Write([]byte(submitted.UTC().Format(time.RFC3339)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// FingerprintRecord is Fingerprint applied to a PaperRecord.
func FingerprintRecord(p types.PaperRecord) string {
	return Fingerprint(p.Title, p.URL, p.Submitted)
}

// Store persists one AnalysisResult per fingerprint, one file per entry.
// Entries are write-once in practice (identity fields never change) and
// are never evicted. A concurrently starting run reading the same
// directory sees last-writer-wins per fingerprint.
type Store struct {
	dir string
}

// NewStore opens the cache directory, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Get loads the cached result for a fingerprint. The second return value
// reports whether an entry exists; a missing entry is not an error.
func (s *Store) Get(fingerprint string) (types.AnalysisResult, bool, error) {
	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		if os.IsNotExist(err) {
			return types.AnalysisResult{}, false, nil
		}
		return types.AnalysisResult{}, false, fmt.Errorf("reading cache entry %s: %w", fingerprint, err)
	}

	var result types.AnalysisResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return types.AnalysisResult{}, false, fmt.Errorf("parsing cache entry %s: %w", fingerprint, err)
	}
	return result, true, nil
}

// Put persists a result under its fingerprint. The write goes through a
// temp file and rename so a crashed run never leaves a torn entry.
func (s *Store) Put(fingerprint string, result types.AnalysisResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling cache entry %s: %w", fingerprint, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache entry %s: %w", fingerprint, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing cache entry %s: %w", fingerprint, closeErr)
	}

	if err := os.Rename(tmpPath, s.path(fingerprint)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming cache entry %s: %w", fingerprint, err)
	}
	return nil
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".yaml")
}
