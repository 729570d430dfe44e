// Package usage keeps per-application launch counts and persists them to a
// small JSON file.
//
// The file is a single object mapping entry IDs to non-negative counts:
//
//	{"firefox.desktop":5,"org.gnome.Nautilus.desktop":1}
//
// Every [Store.Increment] rewrites the whole file through a temp file and
// rename, so a crash loses at most the increment in flight.
package usage

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/calvinalkan/shofi/internal/fs"
)

// FileName is the name of the usage file inside the data directory.
const FileName = "usage.json"

// Store is an in-memory view of the usage file. Not safe for concurrent use.
type Store struct {
	fs     fs.FS
	path   string
	counts map[string]int
}

// New returns an empty store that persists to path.
func New(fsys fs.FS, path string) *Store {
	if fsys == nil {
		panic("fs is nil")
	}

	return &Store{fs: fsys, path: path, counts: make(map[string]int)}
}

// Load reads the usage file at path.
//
// It always returns a usable store. A missing file yields an empty store
// and no error. An unreadable or malformed file yields an empty store and
// an error wrapping [ErrCorrupt], meant to be logged, not acted on. Negative
// counts are dropped and reported the same way while the valid ones are
// kept.
func Load(fsys fs.FS, path string) (*Store, error) {
	s := New(fsys, path)

	data, err := fsys.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}

	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var raw map[string]int

	if err := json.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}

	var dropped []string

	for id, n := range raw {
		if n < 0 {
			dropped = append(dropped, id)

			continue
		}

		if n > 0 {
			s.counts[id] = n
		}
	}

	if len(dropped) > 0 {
		return s, fmt.Errorf("%w: %s: negative counts for %q", ErrCorrupt, path, dropped)
	}

	return s, nil
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Count returns the launch count for id, 0 if it was never launched.
func (s *Store) Count(id string) int {
	return s.counts[id]
}

// Counts returns a copy of all non-zero counts.
func (s *Store) Counts() map[string]int {
	return maps.Clone(s.counts)
}

// Increment bumps the count for id and persists the whole map.
//
// The in-memory count is updated even when persisting fails; the returned
// error then wraps [ErrPersist].
func (s *Store) Increment(id string) error {
	s.counts[id]++

	return s.flush()
}

func (s *Store) flush() error {
	data, err := json.Marshal(s.counts)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := s.fs.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}
