// Package lut is the public facade over the three lookup-table backends:
// it wires the structural scanner (event), the pair extractor (bracket),
// the PHF builder (chd), the two-level table (lutphf), the naive table
// (naivetable), diagnostics, and the artifact codec into a single
// build/lookup/load/store surface a query engine can call directly.
package lut

import (
	"errors"
	"fmt"

	"github.com/bracketlut/bracketlut/artifact"
	"github.com/bracketlut/bracketlut/bracket"
	"github.com/bracketlut/bracketlut/chd"
	"github.com/bracketlut/bracketlut/diagnostics"
	"github.com/bracketlut/bracketlut/event"
	"github.com/bracketlut/bracketlut/lutphf"
	"github.com/bracketlut/bracketlut/naivetable"
)

// Backend selects which storage strategy a Table uses.
type Backend uint8

const (
	Naive Backend = iota
	Phf
	PhfDouble
)

func (b Backend) String() string {
	switch b {
	case Naive:
		return "naive"
	case Phf:
		return "phf"
	case PhfDouble:
		return "phf-double"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// ParseBackend accepts the CLI's "naive | phf | phf-double" spelling.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "naive":
		return Naive, nil
	case "phf":
		return Phf, nil
	case "phf-double":
		return PhfDouble, nil
	default:
		return 0, fmt.Errorf("lut: unknown backend %q", s)
	}
}

// ErrBuildFailed wraps any fatal error raised while constructing a table
// (InputError, UnmatchedBracket/UnclosedOpen, or PhfUnsolvable).
var ErrBuildFailed = errors.New("lut: build failed")

// singlePhf is the single-level Phf backend: one CHD-built minimal perfect
// hash over every pair, storing full-width distances directly (no
// short/long split, no sentinel — every in-domain key has a real unique
// slot).
type singlePhf struct {
	state chd.State
	dist  []uint64
}

func buildSinglePhf(keys []uint64, values []uint64) (*singlePhf, error) {
	st, err := chd.Build(keys, chd.DefaultLambda)
	if err != nil {
		return nil, err
	}
	dist := make([]uint64, len(st.Map))
	for slot, keyIdx := range st.Map {
		if keyIdx < 0 {
			continue
		}
		dist[slot] = values[keyIdx]
	}
	return &singlePhf{state: *st, dist: dist}, nil
}

func (s *singlePhf) lookup(open uint64) (uint64, bool) {
	if len(s.dist) == 0 {
		return 0, false
	}
	slot := s.state.Slot(open)
	if slot >= uint64(len(s.dist)) {
		return 0, false
	}
	return open + s.dist[slot], true
}

// Table is a built, immutable lookup table over a single document.
type Table struct {
	backend Backend
	pairs   []bracket.Pair

	naive  *naivetable.Table
	phf    *singlePhf
	double *lutphf.Table
}

// BuildFromInput scans data once, extracts every bracket pair, and builds
// the requested backend. It is a one-shot construction: the returned Table
// is immutable thereafter.
func BuildFromInput(data []byte, backend Backend) (*Table, error) {
	ex := bracket.NewExtractor()
	if err := ex.Run(event.NewScanner(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	t := &Table{backend: backend, pairs: ex.Pairs()}

	switch backend {
	case Naive:
		t.naive = naivetable.FromPairs(t.pairs)
	case Phf:
		keys := append(append([]uint64{}, ex.ShortKeys...), ex.LongKeys...)
		values := make([]uint64, 0, len(keys))
		for _, v := range ex.ShortValues {
			values = append(values, uint64(v))
		}
		values = append(values, ex.LongValues...)
		sp, err := buildSinglePhf(keys, values)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
		}
		t.phf = sp
	case PhfDouble:
		tbl, err := lutphf.Build(ex.ShortKeys, ex.ShortValues, ex.LongKeys, ex.LongValues)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
		}
		t.double = tbl
	default:
		return nil, fmt.Errorf("lut: unknown backend %v", backend)
	}
	return t, nil
}

// Backend reports which storage strategy this Table uses.
func (t *Table) Backend() Backend { return t.backend }

// Lookup is the sole hot-path operation: O(1) worst case across every
// backend.
func (t *Table) Lookup(open uint64) (uint64, bool) {
	switch t.backend {
	case Naive:
		return t.naive.Get(open)
	case Phf:
		return t.phf.lookup(open)
	case PhfDouble:
		return t.double.Lookup(open)
	default:
		return 0, false
	}
}

// Overview computes a read-only diagnostics snapshot of this Table.
func (t *Table) Overview() diagnostics.Overview {
	o := diagnostics.Overview{
		Backend:      t.backend.String(),
		EntryCount:   len(t.pairs),
		Distances:    diagnostics.ComputeDistanceStats(t.pairs),
		FirstEntries: diagnostics.FirstN(t.pairs, 10),
	}
	if env, err := t.toEnvelope(); err == nil {
		if buf, err := marshalEstimate(env, artifact.FormatJSON); err == nil {
			o.EstimatedJSON = uint64(buf)
		}
		if buf, err := marshalEstimate(env, artifact.FormatCBOR); err == nil {
			o.EstimatedCBOR = uint64(buf)
		}
	}
	return o
}

// Store persists the table to path; format is chosen by extension.
func (t *Table) Store(path string) error {
	env, err := t.toEnvelope()
	if err != nil {
		return err
	}
	return artifact.Write(path, env)
}

// Load restores a Table previously written by Store.
func Load(path string) (*Table, error) {
	env, err := artifact.Read(path)
	if err != nil {
		return nil, err
	}
	return fromEnvelope(env)
}

func (t *Table) toEnvelope() (artifact.Envelope, error) {
	env := artifact.Envelope{Version: artifact.Version}
	switch t.backend {
	case Naive:
		env.Backend = artifact.BackendNaive
		for _, p := range t.naive.Entries() {
			env.Naive = append(env.Naive, artifact.EntryWire{Open: p.Open, Close: p.Close})
		}
	case Phf:
		env.Backend = artifact.BackendPhf
		env.Phf = &artifact.PhfWire[uint64]{
			HashKey:       artifact.HashKeyWire{Lo: t.phf.state.HashKey.Lo, Hi: t.phf.state.HashKey.Hi},
			Displacements: wireDisplacements(t.phf.state.Displacements),
			Map:           t.phf.dist,
		}
	case PhfDouble:
		env.Backend = artifact.BackendPhfDouble
		env.Primary = &artifact.PhfWire[uint16]{
			HashKey:       artifact.HashKeyWire{Lo: t.double.Primary.HashKey.Lo, Hi: t.double.Primary.HashKey.Hi},
			Displacements: wireDisplacements(t.double.Primary.Displacements),
			Map:           t.double.PrimaryDist,
		}
		env.Secondary = &artifact.PhfWire[uint64]{
			HashKey:       artifact.HashKeyWire{Lo: t.double.Secondary.HashKey.Lo, Hi: t.double.Secondary.HashKey.Hi},
			Displacements: wireDisplacements(t.double.Secondary.Displacements),
			Map:           t.double.SecondaryDist,
		}
	default:
		return env, fmt.Errorf("lut: unknown backend %v", t.backend)
	}
	return env, nil
}

func fromEnvelope(env artifact.Envelope) (*Table, error) {
	t := &Table{}
	switch env.Backend {
	case artifact.BackendNaive:
		t.backend = Naive
		nt := naivetable.New()
		for _, e := range env.Naive {
			nt.Put(e.Open, e.Close)
			t.pairs = append(t.pairs, bracket.Pair{Open: e.Open, Close: e.Close})
		}
		t.naive = nt
	case artifact.BackendPhf:
		if env.Phf == nil {
			return nil, fmt.Errorf("%w: missing phf payload", artifact.ErrCorruptedArtifact)
		}
		t.backend = Phf
		t.phf = &singlePhf{
			state: chd.State{
				HashKey:       chd.HashKey{Lo: env.Phf.HashKey.Lo, Hi: env.Phf.HashKey.Hi},
				Displacements: stateDisplacements(env.Phf.Displacements),
				Map:           keyIndexPlaceholder(len(env.Phf.Map)),
			},
			dist: env.Phf.Map,
		}
	case artifact.BackendPhfDouble:
		if env.Primary == nil || env.Secondary == nil {
			return nil, fmt.Errorf("%w: missing phf-double payload", artifact.ErrCorruptedArtifact)
		}
		t.backend = PhfDouble
		t.double = &lutphf.Table{
			Primary: chd.State{
				HashKey:       chd.HashKey{Lo: env.Primary.HashKey.Lo, Hi: env.Primary.HashKey.Hi},
				Displacements: stateDisplacements(env.Primary.Displacements),
				Map:           keyIndexPlaceholder(len(env.Primary.Map)),
			},
			PrimaryDist: env.Primary.Map,
			Secondary: chd.State{
				HashKey:       chd.HashKey{Lo: env.Secondary.HashKey.Lo, Hi: env.Secondary.HashKey.Hi},
				Displacements: stateDisplacements(env.Secondary.Displacements),
				Map:           keyIndexPlaceholder(len(env.Secondary.Map)),
			},
			SecondaryDist: env.Secondary.Map,
		}
	default:
		return nil, fmt.Errorf("%w: unknown backend tag %d", artifact.ErrCorruptedArtifact, env.Backend)
	}
	return t, nil
}

// keyIndexPlaceholder fills a reconstructed chd.State's Map with slot
// indices rather than the original key indices: a deserialized table is
// only ever queried through Slot()+the distance array, never through
// KeyIndexAt, so the exact key-index bookkeeping doesn't need to survive
// the round trip.
func keyIndexPlaceholder(n int) []int64 {
	m := make([]int64, n)
	for i := range m {
		m[i] = int64(i)
	}
	return m
}

func wireDisplacements(ds []chd.Displacement) []artifact.DisplacementWire {
	out := make([]artifact.DisplacementWire, len(ds))
	for i, d := range ds {
		out[i] = artifact.DisplacementWire{D1: d.D1, D2: d.D2}
	}
	return out
}

func stateDisplacements(ds []artifact.DisplacementWire) []chd.Displacement {
	out := make([]chd.Displacement, len(ds))
	for i, d := range ds {
		out[i] = chd.Displacement{D1: d.D1, D2: d.D2}
	}
	return out
}

func marshalEstimate(env artifact.Envelope, format artifact.Format) (int, error) {
	return artifact.EstimateSize(env, format)
}
