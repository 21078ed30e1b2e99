// Package event is the structural event source: a single-pass,
// non-restartable scanner that reports `{`, `}`, `[`, `]` bytes outside
// quoted strings, in document order, and suppresses everything else.
//
// A SIMD byte-classification pass could feed the extractor faster at scale;
// Scanner is the reference, byte-at-a-time implementation of the same
// interface.
package event

import (
	"errors"
	"fmt"

	"github.com/bracketlut/bracketlut/bracket"
)

// ErrUnexpectedEOF is returned by Next when the input ends inside a quoted
// string (a trailing, unterminated string literal).
var ErrUnexpectedEOF = errors.New("event: unexpected end of input inside string literal")

// Scanner walks a byte slice and yields bracket.Events. It is cheap to
// construct and holds no resources beyond the slice it was given.
type Scanner struct {
	data     []byte
	pos      int
	inString bool
}

// NewScanner wraps data for scanning. data is not copied or mutated; the
// caller must keep it alive and unchanged for the Scanner's lifetime.
func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Next returns the next structural event, or ok=false once the input is
// exhausted. A non-nil error is always fatal; the scanner must not be
// reused afterward.
func (s *Scanner) Next() (bracket.Event, bool, error) {
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		off := uint64(s.pos)
		s.pos++

		if s.inString {
			switch b {
			case '\\':
				// An escape consumes the following byte verbatim, including
				// a `"` that would otherwise close the string.
				if s.pos < len(s.data) {
					s.pos++
				}
			case '"':
				s.inString = false
			}
			continue
		}

		switch b {
		case '"':
			s.inString = true
		case '[':
			return bracket.Event{Type: bracket.Opening, Kind: bracket.Square, Offset: off}, true, nil
		case ']':
			return bracket.Event{Type: bracket.Closing, Kind: bracket.Square, Offset: off}, true, nil
		case '{':
			return bracket.Event{Type: bracket.Opening, Kind: bracket.Curly, Offset: off}, true, nil
		case '}':
			return bracket.Event{Type: bracket.Closing, Kind: bracket.Curly, Offset: off}, true, nil
		}
	}
	if s.inString {
		return bracket.Event{}, false, fmt.Errorf("%w at offset %d", ErrUnexpectedEOF, s.pos)
	}
	return bracket.Event{}, false, nil
}
