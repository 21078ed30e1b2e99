// Package chd implements a CHD-style (compress-hash-displace) minimal
// perfect hash builder: keys are bucketed by a primary hash lane, and for
// each bucket (largest first) a pair of per-bucket displacements is
// searched until every key in the bucket lands on a distinct,
// previously-unclaimed slot.
package chd

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ErrUnsolvable is returned when no HashKey in the retry budget yields a
// collision-free assignment for every bucket.
var ErrUnsolvable = errors.New("chd: failed to solve perfect hash within retry budget")

// fixedSeedConstant seeds a deterministic pseudo-random HashKey stream so
// that builds are byte-for-byte reproducible across runs. It is a
// compile-time value, never a mutable global.
const fixedSeedConstant uint64 = 0xD1B54A32D192ED03

// DefaultLambda is the default load factor for a single-level table.
const DefaultLambda = 5

// DefaultMaxOuterRetries bounds how many distinct HashKeys Build will try
// before giving up with ErrUnsolvable.
const DefaultMaxOuterRetries = 64

// HashKey is an opaque 128-bit seed for the universal hash family.
type HashKey struct {
	Lo uint64
	Hi uint64
}

// Displacement is the per-bucket (d1, d2) pair found during construction.
type Displacement struct {
	D1 uint32
	D2 uint32
}

// HashTriple is the three independent lanes a key hashes to under a
// HashKey: g picks a bucket, (f1, f2) feed the displacement formula.
type HashTriple struct {
	F1 uint32
	F2 uint32
	G  uint32
}

// State is a built minimal perfect hash function over a fixed key set.
// Map[i] holds the index (0..N) of the key assigned to slot i; it is the
// caller's job to turn key indices into application values.
type State struct {
	HashKey       HashKey
	Displacements []Displacement
	Map           []int64
}

// Slot computes the slot a key occupies under this State. The result is
// meaningful only for keys that were present in the key set Build was
// called with.
func (s *State) Slot(key uint64) uint64 {
	n := uint64(len(s.Map))
	t := Hash(s.HashKey, key)
	b := len(s.Displacements)
	if b == 0 || n == 0 {
		return 0
	}
	d := s.Displacements[int(t.G)%b]
	return displace(t.F1, t.F2, d.D1, d.D2, n)
}

// KeyIndexAt looks up the key index stored for key. ok is false only for
// degenerate (empty) tables; querying a key outside the construction set
// is meaningless and not guarded against.
func (s *State) KeyIndexAt(key uint64) (int64, bool) {
	if len(s.Map) == 0 {
		return 0, false
	}
	slot := s.Slot(key)
	if slot >= uint64(len(s.Map)) {
		return 0, false
	}
	return s.Map[slot], true
}

// Hash computes the three hash lanes for key under hk using independent
// xxHash64 digests of the same salt, key, and a lane tag.
func Hash(hk HashKey, key uint64) HashTriple {
	return HashTriple{
		F1: uint32(laneHash(hk, key, 1)),
		F2: uint32(laneHash(hk, key, 2)),
		G:  uint32(laneHash(hk, key, 3)),
	}
}

func laneHash(hk HashKey, key uint64, lane byte) uint64 {
	var buf [17]byte
	binary.LittleEndian.PutUint64(buf[0:8], hk.Lo)
	binary.LittleEndian.PutUint64(buf[8:16], hk.Hi)
	buf[16] = lane
	var d xxhash.Digest
	d.Reset()
	d.Write(buf[:])
	var kb [8]byte
	binary.LittleEndian.PutUint64(kb[:], key)
	d.Write(kb[:])
	return d.Sum64()
}

// displace implements displace(f1,f2,d1,d2) = (d2 + f1*d1 + f2) mod n.
func displace(f1, f2, d1, d2 uint32, n uint64) uint64 {
	return (uint64(d2) + uint64(f1)*uint64(d1) + uint64(f2)) % n
}

type bucket struct {
	idx  int
	keys []int
}

// Build constructs a minimal perfect hash over keys with load factor
// lambda (keys per bucket). keys must be free of duplicates.
func Build(keys []uint64, lambda int) (*State, error) {
	return BuildWithRetries(keys, lambda, DefaultMaxOuterRetries)
}

// BuildWithRetries is Build with an explicit outer-retry cap, for callers
// that want to trade build time against the odds of hitting ErrUnsolvable.
func BuildWithRetries(keys []uint64, lambda int, maxOuterRetries int) (*State, error) {
	n := len(keys)
	if n == 0 {
		return &State{}, nil
	}
	if lambda < 1 {
		lambda = 1
	}

	seed := fixedSeedConstant
	for attempt := 0; attempt < maxOuterRetries; attempt++ {
		hk := nextHashKey(&seed)
		state, err := tryBuild(keys, lambda, hk)
		if err == nil {
			return state, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts over %d keys", ErrUnsolvable, maxOuterRetries, n)
}

// nextHashKey advances a splitmix64-based stream and returns the next
// HashKey. Deterministic: the same starting seed always yields the same
// sequence, which is what makes Build reproducible across runs.
func nextHashKey(seed *uint64) HashKey {
	next := func() uint64 {
		*seed += 0x9E3779B97F4A7C15
		z := *seed
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		return z
	}
	return HashKey{Lo: next(), Hi: next()}
}

func tryBuild(keys []uint64, lambda int, hk HashKey) (*State, error) {
	n := uint64(len(keys))
	numBuckets := (len(keys) + lambda - 1) / lambda
	if numBuckets == 0 {
		numBuckets = 1
	}

	hashes := make([]HashTriple, len(keys))
	for i, k := range keys {
		hashes[i] = Hash(hk, k)
	}

	buckets := make([]bucket, numBuckets)
	for i := range buckets {
		buckets[i].idx = i
	}
	for i, h := range hashes {
		b := int(h.G % uint32(numBuckets))
		buckets[b].keys = append(buckets[b].keys, i)
	}
	stableSortByDescendingSize(buckets)

	occupied := make([]int64, n)
	for i := range occupied {
		occupied[i] = -1
	}
	tryMap := make([]uint64, n)
	var generation uint64

	disps := make([]Displacement, numBuckets)

	type placement struct {
		slot   uint64
		keyIdx int
	}

	for _, b := range buckets {
		if len(b.keys) == 0 {
			continue
		}
		solved := false
		placements := make([]placement, 0, len(b.keys))
	search:
		for d1 := uint32(0); uint64(d1) < n; d1++ {
			for d2 := uint32(0); uint64(d2) < n; d2++ {
				generation++
				placements = placements[:0]
				ok := true
				for _, ki := range b.keys {
					h := hashes[ki]
					slot := displace(h.F1, h.F2, d1, d2, n)
					if occupied[slot] != -1 || tryMap[slot] == generation {
						ok = false
						break
					}
					tryMap[slot] = generation
					placements = append(placements, placement{slot: slot, keyIdx: ki})
				}
				if ok {
					for _, p := range placements {
						occupied[p.slot] = int64(p.keyIdx)
					}
					disps[b.idx] = Displacement{D1: d1, D2: d2}
					solved = true
					break search
				}
			}
		}
		if !solved {
			return nil, ErrUnsolvable
		}
	}

	return &State{HashKey: hk, Displacements: disps, Map: occupied}, nil
}

// stableSortByDescendingSize orders buckets largest-first, breaking ties by
// original bucket index, so that builds from the same input and seed are
// byte-identical across runs.
func stableSortByDescendingSize(buckets []bucket) {
	insertionSortStable(buckets, func(a, b bucket) bool {
		if len(a.keys) != len(b.keys) {
			return len(a.keys) > len(b.keys)
		}
		return a.idx < b.idx
	})
}

func insertionSortStable(a []bucket, less func(x, y bucket) bool) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && less(a[j], a[j-1]); j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
