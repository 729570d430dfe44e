// Package fs provides filesystem abstractions for testing and fault injection.
//
// The main types are:
//   - [FS]: interface for the filesystem operations shofi needs
//   - [Real]: production implementation using [os] and atomic writes
//   - [Chaos]: testing implementation that injects failures
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("usage.json")
//	if err != nil {
//	    return err
//	}
//
//	err = fsys.WriteFileAtomic("usage.json", data)
package fs

import (
	"os"
)

// FS defines filesystem operations for reading, writing, and listing files.
//
// Two implementations are provided:
//   - [Real]: production use, wraps [os] package
//   - [Chaos]: testing use, injects failures
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so a crash never leaves a partial file.
	// The previous content stays intact if the write fails.
	WriteFileAtomic(path string, data []byte) error

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	// Entries are sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	// Returns [os.ErrNotExist] if file doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
