// Package rank orders registry entries for a query.
//
// [Rank] is pure: it never mutates its inputs and returns a fresh slice on
// every call. Identical arguments always produce identical output.
package rank

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/calvinalkan/shofi/internal/registry"
)

// DisplayCap is the number of entries shown for an empty query.
const DisplayCap = 10

// Counter returns the launch count of an entry ID. Unknown IDs count 0.
type Counter interface {
	Count(id string) int
}

// candidate is an entry together with its precomputed sort keys.
type candidate struct {
	entry  registry.Entry
	name   string // lowered
	usage  int
	prefix bool // name starts with the query
	inName bool // query occurs in name
}

// Rank returns entries ordered for query.
//
// An empty or whitespace-only query yields the [DisplayCap] most used
// entries, ties broken by name. Any other query is lowercased (but not
// trimmed) and matched as a substring against the name and the
// description. Matches are ordered by, in turn: name prefix match first,
// name match before description-only match, higher usage first, and
// finally name. Non-empty queries are not capped.
//
// A nil usage counts every entry as 0.
func Rank(entries []registry.Entry, usage Counter, query string) []registry.Entry {
	lower := cases.Lower(language.Und)

	countOf := func(id string) int {
		if usage == nil {
			return 0
		}

		return max(usage.Count(id), 0)
	}

	if strings.TrimSpace(query) == "" {
		all := make([]candidate, 0, len(entries))
		for _, e := range entries {
			all = append(all, candidate{entry: e, name: lower.String(e.Name), usage: countOf(e.ID)})
		}

		slices.SortStableFunc(all, func(a, b candidate) int {
			return cmp.Or(
				cmp.Compare(b.usage, a.usage),
				strings.Compare(a.name, b.name),
			)
		})

		return collect(all[:min(len(all), DisplayCap)])
	}

	q := lower.String(query)

	var matched []candidate

	for _, e := range entries {
		name := lower.String(e.Name)
		inName := strings.Contains(name, q)

		if !inName && !strings.Contains(lower.String(e.Description), q) {
			continue
		}

		matched = append(matched, candidate{
			entry:  e,
			name:   name,
			usage:  countOf(e.ID),
			prefix: strings.HasPrefix(name, q),
			inName: inName,
		})
	}

	slices.SortStableFunc(matched, func(a, b candidate) int {
		return cmp.Or(
			compareFirst(a.prefix, b.prefix),
			compareFirst(a.inName, b.inName),
			cmp.Compare(b.usage, a.usage),
			strings.Compare(a.name, b.name),
		)
	})

	return collect(matched)
}

// compareFirst orders true before false.
func compareFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func collect(cs []candidate) []registry.Entry {
	out := make([]registry.Entry, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.entry)
	}

	return out
}
