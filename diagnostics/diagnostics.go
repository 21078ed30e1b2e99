// Package diagnostics computes read-only statistics over a built lookup
// table: entry counts, distance statistics, and estimated serialized
// sizes. Nothing here mutates the table it inspects.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bracketlut/bracketlut/bracket"
)

// DistanceStats summarizes the distance distribution of a set of pairs,
// using saturating subtraction so a hand-constructed, ill-formed table
// (close < open) can't underflow into a huge unsigned "min".
type DistanceStats struct {
	Count uint64
	Min   uint64
	Max   uint64
	Avg   float64
}

// ComputeDistanceStats walks pairs once and derives min/avg/max distance.
func ComputeDistanceStats(pairs []bracket.Pair) DistanceStats {
	var s DistanceStats
	if len(pairs) == 0 {
		return s
	}
	s.Count = uint64(len(pairs))
	s.Min = ^uint64(0)
	var sum uint64
	for _, p := range pairs {
		d := saturatingSub(p.Close, p.Open)
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
		sum += d
	}
	s.Avg = float64(sum) / float64(s.Count)
	return s
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Overview is a read-only snapshot suitable for the CLI's `stat` command and
// for programmatic callers.
type Overview struct {
	Backend       string
	EntryCount    int
	Distances     DistanceStats
	EstimatedJSON uint64
	EstimatedCBOR uint64
	FirstEntries  []bracket.Pair
}

// FirstN returns the first n pairs by open offset, ascending.
func FirstN(pairs []bracket.Pair, n int) []bracket.Pair {
	if len(pairs) == 0 {
		return nil
	}
	ordered := make([]bracket.Pair, len(pairs))
	copy(ordered, pairs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Open < ordered[j].Open })
	if n > len(ordered) {
		n = len(ordered)
	}
	return ordered[:n]
}

// String renders an Overview the way the CLI's `stat` command prints it.
func (o Overview) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "backend:    %s\n", o.Backend)
	fmt.Fprintf(&b, "entries:    %d\n", o.EntryCount)
	fmt.Fprintf(&b, "distance:   min=%d avg=%.1f max=%d\n", o.Distances.Min, o.Distances.Avg, o.Distances.Max)
	fmt.Fprintf(&b, "est. size:  json=%s cbor=%s\n",
		humanize.Bytes(o.EstimatedJSON), humanize.Bytes(o.EstimatedCBOR))
	fmt.Fprintf(&b, "first %d entries:\n", len(o.FirstEntries))
	for _, p := range o.FirstEntries {
		fmt.Fprintf(&b, "  %d -> %d (distance %d)\n", p.Open, p.Close, p.Distance())
	}
	return b.String()
}
