// Package naivetable is the plain hash-map backend (C3): a thin,
// serializable wrapper over an Offset -> Offset mapping, with no attempt at
// compactness. It exists as the baseline the PHF-backed tables are measured
// against.
package naivetable

import (
	"sort"

	"github.com/tidwall/hashmap"

	"github.com/bracketlut/bracketlut/bracket"
)

// Table is an unordered Offset->Offset map. Keys are unique by
// construction: Put overwrites any prior value for a key.
type Table struct {
	m *hashmap.Map[bracket.Offset, bracket.Offset]
}

// New creates an empty Table.
func New() *Table {
	return &Table{m: hashmap.New[bracket.Offset, bracket.Offset](0)}
}

// FromPairs builds a Table from a complete set of pairs.
func FromPairs(pairs []bracket.Pair) *Table {
	t := &Table{m: hashmap.New[bracket.Offset, bracket.Offset](len(pairs))}
	for _, p := range pairs {
		t.Put(p.Open, p.Close)
	}
	return t
}

// Put inserts or overwrites the value for k.
func (t *Table) Put(k, v bracket.Offset) {
	t.m.Set(k, v)
}

// Get returns the value for k, or false if k is absent.
func (t *Table) Get(k bracket.Offset) (bracket.Offset, bool) {
	return t.m.Get(k)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return t.m.Len()
}

// Entries returns every (key, value) pair, sorted by key, for diagnostics
// and deterministic serialization.
func (t *Table) Entries() []bracket.Pair {
	out := make([]bracket.Pair, 0, t.m.Len())
	t.m.Scan(func(k, v bracket.Offset) bool {
		out = append(out, bracket.Pair{Open: k, Close: v})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Open < out[j].Open })
	return out
}
