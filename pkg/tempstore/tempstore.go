// Package tempstore manages the process-wide directory of extracted
// preview images. Files are published atomically (write to a hidden temp
// name, then rename) so a concurrent garbage collection pass never
// observes a half-written preview.
package tempstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDirName is the managed directory created under os.TempDir when no
// override is configured.
const DefaultDirName = "procreate_meta"

type Store struct {
	dir string
}

// Open ensures the managed directory exists. An empty dir selects the
// default location.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), DefaultDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tempstore: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Publish writes data under the given name and makes it visible in one
// step: the bytes land in a ".tmp" sibling first and are renamed into
// place only after the write has completed.
func (s *Store) Publish(name string, data []byte) (string, error) {
	final := filepath.Join(s.dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("tempstore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("tempstore: publish %s: %w", final, err)
	}
	return final, nil
}

// Purge deletes managed files whose modification time is older than the
// given age and returns the number removed. Published previews and stale
// ".tmp" leftovers are both collected; anything else in the directory is
// left alone.
func (s *Store) Purge(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("tempstore: list %s: %w", s.dir, err)
	}
	cutoff := time.Now().Add(-olderThan)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !managed(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

func managed(name string) bool {
	return strings.HasSuffix(name, ".png") || strings.HasSuffix(name, ".tmp")
}
