package bracket_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bracketlut/bracketlut/bracket"
	"github.com/bracketlut/bracketlut/event"
)

func extract(t *testing.T, input string) []bracket.Pair {
	t.Helper()
	ex := bracket.NewExtractor()
	require.NoError(t, ex.Run(event.NewScanner([]byte(input))))
	pairs := ex.Pairs()
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Close < pairs[j].Close })
	return pairs
}

func TestScenarioA(t *testing.T) {
	pairs := extract(t, `[]`)
	require.Equal(t, []bracket.Pair{{Open: 0, Close: 1}}, pairs)
}

func TestScenarioB(t *testing.T) {
	pairs := extract(t, `[[]]`)
	require.Equal(t, []bracket.Pair{{Open: 1, Close: 2}, {Open: 0, Close: 3}}, pairs)
}

func TestScenarioC(t *testing.T) {
	pairs := extract(t, `{"a":[1,2],"b":{}}`)
	require.Equal(t, []bracket.Pair{{Open: 5, Close: 9}, {Open: 15, Close: 16}, {Open: 0, Close: 17}}, pairs)
}

func TestScenarioD_BoundaryShortLong(t *testing.T) {
	// distance 65535 (stays short) then a second, separate short pair.
	filler := make([]byte, bracket.ShortDistanceLimit-2)
	for i := range filler {
		filler[i] = 'a'
	}
	input := "[" + string(filler) + "]" + "[]"
	ex := bracket.NewExtractor()
	require.NoError(t, ex.Run(event.NewScanner([]byte(input))))
	require.Len(t, ex.ShortKeys, 2)
	require.Empty(t, ex.LongKeys)
}

func TestScenarioE_LongPair(t *testing.T) {
	filler := make([]byte, 70000)
	for i := range filler {
		filler[i] = 'x'
	}
	input := "[" + string(filler) + "]"
	ex := bracket.NewExtractor()
	require.NoError(t, ex.Run(event.NewScanner([]byte(input))))
	require.Empty(t, ex.ShortKeys)
	require.Len(t, ex.LongKeys, 1)
	require.Equal(t, uint64(70001), ex.LongValues[0])
}

func TestScenarioF_EscapedBracketInString(t *testing.T) {
	input := `["\[not a bracket"]`
	pairs := extract(t, input)
	require.Equal(t, []bracket.Pair{{Open: 0, Close: uint64(len(input) - 1)}}, pairs)
}

func TestUnmatchedClose(t *testing.T) {
	ex := bracket.NewExtractor()
	err := ex.Run(event.NewScanner([]byte(`]`)))
	require.ErrorIs(t, err, bracket.ErrUnmatchedClose)
}

func TestUnclosedOpen(t *testing.T) {
	ex := bracket.NewExtractor()
	err := ex.Run(event.NewScanner([]byte(`[`)))
	require.ErrorIs(t, err, bracket.ErrUnclosedOpen)
}

func TestCompletenessMatchesBracketCount(t *testing.T) {
	input := `{"a":[1,[2,3],{}],"b":[]}`
	ex := bracket.NewExtractor()
	require.NoError(t, ex.Run(event.NewScanner([]byte(input))))
	var want int
	for _, b := range []byte(input) {
		if b == '{' || b == '[' {
			want++
		}
	}
	require.Equal(t, want, len(ex.ShortKeys)+len(ex.LongKeys))
}
