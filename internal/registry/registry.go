// Package registry holds the deduplicated, sorted set of applications
// known to a launcher session.
//
// A [Registry] is built once from a [Source] and a priority-ordered list of
// [Location]s and is read-only afterwards.
package registry

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Registry is the read-only set of visible entries for a session.
type Registry struct {
	entries []Entry
	byID    map[string]int
}

// Build scans locations in order and returns the registry.
//
// The first descriptor seen for an ID claims it; later descriptors with
// the same ID are discarded, even when the first one is hidden. This lets a
// user-local NoDisplay/Hidden file mask a system entry.
//
// Unreadable descriptors and locations are logged and skipped. Build fails
// with [ErrNoSources] only when not a single location could be read.
func Build(source Source, locations []Location, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var (
		entries  []Entry
		claimed  = make(map[string]bool)
		readable int
	)

	for _, loc := range locations {
		results, err := source.ListEntries(loc)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				logger.Debug("Registry: location does not exist", "dir", loc.Dir)
			} else {
				logger.Warn("Registry: cannot read location", "dir", loc.Dir, "error", err)
			}

			continue
		}

		readable++

		for _, res := range results {
			if res.Err != nil {
				logger.Warn("Registry: skipped descriptor", "path", res.Path, "error", res.Err)

				continue
			}

			entry, err := newEntry(*res.Descriptor, loc, res.Path)
			if err != nil {
				logger.Warn("Registry: skipped descriptor", "path", res.Path, "error", err)

				continue
			}

			if claimed[entry.ID] {
				logger.Debug("Registry: shadowed duplicate", "id", entry.ID, "path", res.Path)

				continue
			}

			claimed[entry.ID] = true

			if !visible(*res.Descriptor) {
				logger.Debug("Registry: not displayed", "id", entry.ID, "path", res.Path)

				continue
			}

			entries = append(entries, entry)
		}
	}

	if readable == 0 {
		return nil, fmt.Errorf("%w (tried %d)", ErrNoSources, len(locations))
	}

	logger.Info("Registry: loaded entries", "count", len(entries), "locations", readable)

	return newSorted(entries), nil
}

// New returns a registry holding entries, deduplicated by ID (first wins)
// and sorted by name. Intended for sources that already produce entries.
func New(entries ...Entry) *Registry {
	seen := make(map[string]bool, len(entries))
	unique := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if seen[e.ID] {
			continue
		}

		seen[e.ID] = true
		unique = append(unique, e)
	}

	return newSorted(unique)
}

// Entries returns a copy of all entries in base order (name ascending,
// case-insensitive).
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Get returns the entry with the given ID.
func (r *Registry) Get(id string) (Entry, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}

	return r.entries[idx], true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

func newSorted(entries []Entry) *Registry {
	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		keys[e.ID] = FoldName(e.Name)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return strings.Compare(keys[a.ID], keys[b.ID])
	})

	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.ID] = i
	}

	return &Registry{entries: entries, byID: byID}
}

func visible(d Descriptor) bool {
	return !d.NoDisplay && !d.Hidden && !d.Unavailable
}

// newEntry builds the entry for d found at path in loc. path fills File
// when the descriptor does not carry one.
func newEntry(d Descriptor, loc Location, path string) (Entry, error) {
	id := d.ID
	if id == "" {
		id = d.Executable
	}

	if id == "" {
		return Entry{}, ErrNoIdentity
	}

	name := strings.TrimSpace(norm.NFC.String(d.Name))
	if name == "" {
		return Entry{}, ErrNoName
	}

	display := name
	if loc.Secondary() {
		display = fmt.Sprintf("%s (%s)", name, loc.Channel)
	}

	file := d.File
	if file == "" {
		file = path
	}

	return Entry{
		ID:          id,
		Name:        display,
		AppName:     name,
		Description: norm.NFC.String(d.Description),
		Executable:  d.Executable,
		Secondary:   loc.Secondary(),
		Exec:        d.Exec,
		Terminal:    d.Terminal,
		WorkDir:     d.WorkDir,
		Icon:        d.Icon,
		File:        file,
	}, nil
}

// FoldName returns the case-insensitive comparison key for s.
func FoldName(s string) string {
	return cases.Lower(language.Und).String(s)
}
