package lutphf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bracketlut/bracketlut/bracket"
	"github.com/bracketlut/bracketlut/event"
	"github.com/bracketlut/bracketlut/lutphf"
)

func build(t *testing.T, input string) (*lutphf.Table, *bracket.Extractor) {
	t.Helper()
	ex := bracket.NewExtractor()
	require.NoError(t, ex.Run(event.NewScanner([]byte(input))))
	tbl, err := lutphf.Build(ex.ShortKeys, ex.ShortValues, ex.LongKeys, ex.LongValues)
	require.NoError(t, err)
	return tbl, ex
}

func TestLookupSoundnessAllShort(t *testing.T) {
	tbl, ex := build(t, `{"a":[1,2],"b":{}}`)
	for _, p := range ex.Pairs() {
		got, ok := tbl.Lookup(p.Open)
		require.True(t, ok)
		require.Equal(t, p.Close, got)
	}
}

func TestLookupSoundnessWithLongPair(t *testing.T) {
	filler := make([]byte, 70000)
	for i := range filler {
		filler[i] = 'x'
	}
	input := `[` + string(filler) + `]` + `[1,2]`
	tbl, ex := build(t, input)
	for _, p := range ex.Pairs() {
		got, ok := tbl.Lookup(p.Open)
		require.True(t, ok)
		require.Equal(t, p.Close, got)
	}
	require.GreaterOrEqual(t, tbl.NumSecondaryKeys(), len(ex.LongKeys))
}

func TestMinimality(t *testing.T) {
	tbl, ex := build(t, `[[1,2,3],[4,5],{"a":1}]`)
	require.Equal(t, len(ex.ShortKeys), tbl.NumPrimaryKeys())
}

func TestEmptyInput(t *testing.T) {
	tbl, err := lutphf.Build(nil, nil, nil, nil)
	require.NoError(t, err)
	_, ok := tbl.Lookup(0)
	require.False(t, ok)
}
