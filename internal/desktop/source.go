// Package desktop reads XDG desktop entry files and serves them as an
// application source for the registry.
package desktop

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/shofi/internal/fs"
	"github.com/calvinalkan/shofi/internal/registry"
)

const desktopExt = ".desktop"

// Source lists .desktop files below a location, recursively.
type Source struct {
	fs    fs.FS
	check ExecChecker
}

// NewSource returns a Source reading through fsys. check decides TryExec
// availability; nil uses [IsExecutable].
func NewSource(fsys fs.FS, check ExecChecker) *Source {
	if fsys == nil {
		panic("fs is nil")
	}

	return &Source{fs: fsys, check: check}
}

// ListEntries implements [registry.Source].
//
// The desktop file ID of <dir>/a/b.desktop is "a-b.desktop". Entries that
// are not of Type=Application are left out silently. Unreadable
// subdirectories and broken files are reported as results with Err set.
func (s *Source) ListEntries(loc registry.Location) ([]registry.Result, error) {
	root := filepath.Clean(loc.Dir)

	entries, err := s.fs.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	var results []registry.Result

	s.walk(root, root, entries, &results)

	return results, nil
}

func (s *Source) walk(root, dir string, entries []os.DirEntry, results *[]registry.Result) {
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			children, err := s.fs.ReadDir(path)
			if err != nil {
				*results = append(*results, registry.Result{Path: path, Err: fmt.Errorf("read dir: %w", err)})

				continue
			}

			s.walk(root, path, children, results)

			continue
		}

		if !strings.HasSuffix(entry.Name(), desktopExt) {
			continue
		}

		desc, err := s.load(root, path)
		if errors.Is(err, ErrNotApplication) {
			continue
		}

		if err != nil {
			*results = append(*results, registry.Result{Path: path, Err: err})

			continue
		}

		*results = append(*results, registry.Result{Path: path, Descriptor: desc})
	}
}

func (s *Source) load(root, path string) (*registry.Descriptor, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return Parse(data, FileID(root, path), path, s.check)
}

// FileID returns the desktop file ID of path relative to root.
func FileID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}

	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}

// Compile-time interface check.
var _ registry.Source = (*Source)(nil)
