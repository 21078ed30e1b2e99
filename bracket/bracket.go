// Package bracket holds the data model shared by the structural scanner and
// the bracket-pair extractor: offsets, bracket kinds, and matched pairs.
package bracket

import "fmt"

// Offset is an absolute byte position within a scanned document.
type Offset = uint64

// ShortDistanceLimit is the distance threshold below which a pair is
// considered "short" and can be stored in a 16-bit field.
const ShortDistanceLimit = 1 << 16

// Kind discriminates between the two bracket families the scanner reports.
type Kind uint8

const (
	Square Kind = iota
	Curly
)

func (k Kind) String() string {
	switch k {
	case Square:
		return "[]"
	case Curly:
		return "{}"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// EventType distinguishes an opening delimiter from its closing counterpart.
type EventType uint8

const (
	Opening EventType = iota
	Closing
)

// Event is a single structural delimiter observed by the scanner, in
// document order.
type Event struct {
	Type   EventType
	Kind   Kind
	Offset Offset
}

// Pair is a matched open/close bracket. Distance is always >= 1.
type Pair struct {
	Open  Offset
	Close Offset
}

// Distance returns close - open.
func (p Pair) Distance() uint64 {
	return p.Close - p.Open
}

// IsShort reports whether the pair's distance fits in 16 bits.
func (p Pair) IsShort() bool {
	return p.Distance() < ShortDistanceLimit
}
