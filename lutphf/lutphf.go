// Package lutphf is the two-level lookup table: a primary CHD-built table
// indexing a 16-bit distance array over short pairs, plus a secondary
// CHD-built table — holding full-width distances — for long pairs and any
// short pair whose primary slot was evicted by a long key.
//
// A short key's primary slot is zeroed the moment any long key would also
// land there, so the sentinel always forces that key through the
// secondary, which holds its correct distance regardless of how many long
// keys collided with it.
package lutphf

import (
	"github.com/bracketlut/bracketlut/chd"
)

// PrimaryLambda is the load factor used for the primary table: λ=1 trades
// table size for fewer secondary conflicts.
const PrimaryLambda = 1

// SecondaryLambda is the load factor used for the secondary table.
const SecondaryLambda = chd.DefaultLambda

// sentinel is the reserved distance value meaning "consult secondary".
// Safe because every real pair has a distance of at least 1.
const sentinel = 0

// Table is the built two-level PHF.
type Table struct {
	Primary     chd.State
	PrimaryDist []uint16

	Secondary     chd.State
	SecondaryDist []uint64
}

// Build constructs a Table from the short/long split produced by the pair
// extractor. shortKeys/shortValues and longKeys/longValues must be
// index-aligned (shortValues[i] is the distance for shortKeys[i], etc).
func Build(shortKeys []uint64, shortValues []uint16, longKeys []uint64, longValues []uint64) (*Table, error) {
	primary, err := chd.Build(shortKeys, PrimaryLambda)
	if err != nil {
		return nil, err
	}

	dist16 := make([]uint16, len(shortKeys))
	copy(dist16, shortValues)

	// evictedAt[keyIndex] records the distance a short key had before a
	// long key's would-be slot knocked it out.
	evictedAt := make(map[int]uint16)

	if len(primary.Map) > 0 {
		for _, lk := range longKeys {
			slot := primary.Slot(lk)
			if slot >= uint64(len(primary.Map)) {
				continue
			}
			keyIdx := primary.Map[slot]
			if keyIdx < 0 {
				continue
			}
			if dist16[keyIdx] != 0 {
				evictedAt[int(keyIdx)] = dist16[keyIdx]
			}
			dist16[keyIdx] = sentinel
		}
	}

	var secondaryKeys []uint64
	var secondaryValues []uint64
	for i, k := range shortKeys {
		if dist16[i] == sentinel {
			secondaryKeys = append(secondaryKeys, k)
			secondaryValues = append(secondaryValues, uint64(evictedAt[i]))
		}
	}
	secondaryKeys = append(secondaryKeys, longKeys...)
	secondaryValues = append(secondaryValues, longValues...)

	secondary, err := chd.Build(secondaryKeys, SecondaryLambda)
	if err != nil {
		return nil, err
	}

	primaryDist := make([]uint16, len(primary.Map))
	for slot, keyIdx := range primary.Map {
		if keyIdx < 0 {
			continue
		}
		primaryDist[slot] = dist16[keyIdx]
	}

	secondaryDist := make([]uint64, len(secondary.Map))
	for slot, keyIdx := range secondary.Map {
		if keyIdx < 0 {
			continue
		}
		secondaryDist[slot] = secondaryValues[keyIdx]
	}

	return &Table{
		Primary:       *primary,
		PrimaryDist:   primaryDist,
		Secondary:     *secondary,
		SecondaryDist: secondaryDist,
	}, nil
}

// Lookup returns open+distance for open, or false if open is not resolvable
// by either level. Only keys present at Build time yield meaningful
// results.
func (t *Table) Lookup(open uint64) (uint64, bool) {
	if len(t.PrimaryDist) > 0 {
		slot := t.Primary.Slot(open)
		if slot < uint64(len(t.PrimaryDist)) {
			if d := t.PrimaryDist[slot]; d != sentinel {
				return open + uint64(d), true
			}
		}
	}
	if len(t.SecondaryDist) > 0 {
		slot := t.Secondary.Slot(open)
		if slot < uint64(len(t.SecondaryDist)) {
			if d := t.SecondaryDist[slot]; d != 0 {
				return open + d, true
			}
		}
	}
	return 0, false
}

// NumPrimaryKeys is the number of short keys the primary table indexes.
func (t *Table) NumPrimaryKeys() int { return len(t.PrimaryDist) }

// NumSecondaryKeys is the number of keys (evicted short + long) the
// secondary table indexes.
func (t *Table) NumSecondaryKeys() int { return len(t.SecondaryDist) }
