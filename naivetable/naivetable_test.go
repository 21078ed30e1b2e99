package naivetable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bracketlut/bracketlut/bracket"
	"github.com/bracketlut/bracketlut/naivetable"
)

func TestPutGet(t *testing.T) {
	tbl := naivetable.New()
	tbl.Put(0, 17)
	tbl.Put(6, 10)
	v, ok := tbl.Get(0)
	require.True(t, ok)
	require.Equal(t, uint64(17), v)
	_, ok = tbl.Get(999)
	require.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	tbl := naivetable.New()
	tbl.Put(1, 2)
	tbl.Put(1, 3)
	v, ok := tbl.Get(1)
	require.True(t, ok)
	require.Equal(t, uint64(3), v)
}

func TestFromPairsAndEntries(t *testing.T) {
	pairs := []bracket.Pair{{Open: 6, Close: 10}, {Open: 0, Close: 17}, {Open: 15, Close: 16}}
	tbl := naivetable.FromPairs(pairs)
	require.Equal(t, 3, tbl.Len())
	entries := tbl.Entries()
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		require.Less(t, entries[i-1].Open, entries[i].Open)
	}
}

func TestEmptyTable(t *testing.T) {
	tbl := naivetable.New()
	require.Equal(t, 0, tbl.Len())
	_, ok := tbl.Get(0)
	require.False(t, ok)
}
