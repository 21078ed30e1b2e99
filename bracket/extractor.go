package bracket

import "errors"

// ErrUnmatchedClose is returned when a closing delimiter is observed with no
// corresponding open on the stack for its kind. Inputs are assumed to be
// syntactically valid JSON; this is a fatal, unrecoverable condition.
var ErrUnmatchedClose = errors.New("bracket: unmatched closing delimiter")

// ErrUnclosedOpen is returned by Run when a stack is non-empty at EOF.
var ErrUnclosedOpen = errors.New("bracket: unclosed opening delimiter at end of input")

// Source is the minimal pull interface the extractor needs from a
// structural scanner: one event at a time, in document order, or (zero,
// false, nil) at end of input.
type Source interface {
	Next() (Event, bool, error)
}

// Extractor maintains one offset stack per bracket kind and turns a stream
// of Events into matched Pairs, split into short and long buckets by
// distance.
type Extractor struct {
	stacks [2][]Offset

	ShortKeys   []Offset
	ShortValues []uint16
	LongKeys    []Offset
	LongValues  []uint64
}

// NewExtractor creates an empty Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run drains src to completion, populating the extractor's short/long
// buckets. It returns ErrUnmatchedClose or ErrUnclosedOpen on malformed
// input, or an error surfaced by src itself.
func (e *Extractor) Run(src Source) error {
	for {
		ev, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := e.feed(ev); err != nil {
			return err
		}
	}
	for k := range e.stacks {
		if len(e.stacks[k]) > 0 {
			return ErrUnclosedOpen
		}
	}
	return nil
}

func (e *Extractor) feed(ev Event) error {
	stack := &e.stacks[ev.Kind]
	switch ev.Type {
	case Opening:
		*stack = append(*stack, ev.Offset)
	case Closing:
		n := len(*stack)
		if n == 0 {
			return ErrUnmatchedClose
		}
		open := (*stack)[n-1]
		*stack = (*stack)[:n-1]
		e.emit(Pair{Open: open, Close: ev.Offset})
	}
	return nil
}

func (e *Extractor) emit(p Pair) {
	if p.IsShort() {
		e.ShortKeys = append(e.ShortKeys, p.Open)
		e.ShortValues = append(e.ShortValues, uint16(p.Distance()))
	} else {
		e.LongKeys = append(e.LongKeys, p.Open)
		e.LongValues = append(e.LongValues, p.Distance())
	}
}

// Pairs reconstructs every matched pair the extractor has seen, in no
// particular order. Used by diagnostics and the naive backend, which don't
// care about the short/long split.
func (e *Extractor) Pairs() []Pair {
	out := make([]Pair, 0, len(e.ShortKeys)+len(e.LongKeys))
	for i, k := range e.ShortKeys {
		out = append(out, Pair{Open: k, Close: k + uint64(e.ShortValues[i])})
	}
	for i, k := range e.LongKeys {
		out = append(out, Pair{Open: k, Close: k + e.LongValues[i]})
	}
	return out
}
