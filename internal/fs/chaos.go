package fs

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate    float64 // Fail ReadFile with EIO
	WriteFailRate   float64 // Fail WriteFileAtomic with EIO; target stays untouched
	ReadDirFailRate float64 // Fail ReadDir with EIO
	MkdirFailRate   float64 // Fail MkdirAll with EACCES
	StatFailRate    float64 // Fail Stat/Exists with EIO
}

// PathState tracks the fault state of a path for consistent error injection.
type PathState int

const (
	// PathNormal means no persistent fault. Only rates apply.
	// This is the zero value, so untracked paths are normal.
	PathNormal PathState = iota
	// PathIOError is sticky: every operation on the path returns EIO.
	PathIOError
	// PathReadOnly is sticky for writes: WriteFileAtomic and MkdirAll return EROFS.
	PathReadOnly
	// PathNoPermission is sticky: every operation on the path returns EACCES.
	PathNoPermission
)

// Chaos wraps an [FS] and injects failures.
//
// Failures come from two places: per-operation rates drawn from a seeded
// source, and sticky per-path states set with [Chaos.SetPathState]. A
// sticky state applies to the path and everything below it.
//
// Safe for concurrent use.
type Chaos struct {
	fs     FS
	config ChaosConfig

	mu     sync.Mutex
	rng    *rand.Rand
	states map[string]PathState
	counts map[string]int
}

// NewChaos returns a [Chaos] over fs. The same seed yields the same
// sequence of injected faults.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	if fs == nil {
		panic("fs is nil")
	}

	return &Chaos{
		fs:     fs,
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
		states: make(map[string]PathState),
		counts: make(map[string]int),
	}
}

// SetPathState marks path (and everything below it) with a sticky fault.
// PathNormal clears it.
func (c *Chaos) SetPathState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path = filepath.Clean(path)
	if state == PathNormal {
		delete(c.states, path)

		return
	}

	c.states[path] = state
}

// InjectedCount returns how many faults were injected for op ("read",
// "write", "readdir", "mkdir", "stat").
func (c *Chaos) InjectedCount(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[op]
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if err := c.fault("read", path, c.config.ReadFailRate, false); err != nil {
		return nil, err
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFileAtomic(path string, data []byte) error {
	if err := c.fault("write", path, c.config.WriteFailRate, true); err != nil {
		return err
	}

	return c.fs.WriteFileAtomic(path, data)
}

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if err := c.fault("readdir", path, c.config.ReadDirFailRate, false); err != nil {
		return nil, err
	}

	return c.fs.ReadDir(path)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	if err := c.fault("mkdir", path, c.config.MkdirFailRate, true); err != nil {
		return err
	}

	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	if err := c.fault("stat", path, c.config.StatFailRate, false); err != nil {
		return nil, err
	}

	return c.fs.Stat(path)
}

func (c *Chaos) Exists(path string) (bool, error) {
	if err := c.fault("stat", path, c.config.StatFailRate, false); err != nil {
		return false, err
	}

	return c.fs.Exists(path)
}

// fault decides whether op on path fails. Sticky states win over rates.
func (c *Chaos) fault(op, path string, rate float64, write bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errno error

	switch c.stateLocked(path) {
	case PathIOError:
		errno = syscall.EIO
	case PathNoPermission:
		errno = syscall.EACCES
	case PathReadOnly:
		if write {
			errno = syscall.EROFS
		}
	case PathNormal:
	}

	if errno == nil && rate > 0 && c.rng.Float64() < rate {
		errno = syscall.EIO
		if op == "mkdir" {
			errno = syscall.EACCES
		}
	}

	if errno == nil {
		return nil
	}

	c.counts[op]++

	return inject(op, path, &os.PathError{Op: op, Path: path, Err: errno})
}

// stateLocked returns the closest sticky state at or above path.
func (c *Chaos) stateLocked(path string) PathState {
	if len(c.states) == 0 {
		return PathNormal
	}

	path = filepath.Clean(path)

	for {
		if state, ok := c.states[path]; ok {
			return state
		}

		parent := filepath.Dir(path)
		if parent == path {
			return PathNormal
		}

		path = parent
	}
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
