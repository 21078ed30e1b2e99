package lut_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bracketlut/bracketlut/lut"
)

var backends = []lut.Backend{lut.Naive, lut.Phf, lut.PhfDouble}

func TestScenariosAcrossBackends(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"A", `[]`},
		{"B", `[[]]`},
		{"C", `{"a":[1,2],"b":{}}`},
		{"F", `["\[not a bracket"]`},
	}
	for _, tc := range cases {
		for _, b := range backends {
			t.Run(tc.name+"/"+b.String(), func(t *testing.T) {
				tbl, err := lut.BuildFromInput([]byte(tc.input), b)
				require.NoError(t, err)
				got, ok := tbl.Lookup(0)
				require.True(t, ok)
				require.Equal(t, uint64(len(tc.input)-1), got)
			})
		}
	}
}

func TestScenarioE_LongPairAcrossBackends(t *testing.T) {
	filler := make([]byte, 70000)
	for i := range filler {
		filler[i] = 'z'
	}
	input := "[" + string(filler) + "]"
	for _, b := range backends {
		tbl, err := lut.BuildFromInput([]byte(input), b)
		require.NoError(t, err)
		got, ok := tbl.Lookup(0)
		require.True(t, ok)
		require.Equal(t, uint64(len(input)-1), got)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	input := `{"a":[1,2],"b":{}}`
	for _, b := range backends {
		for _, ext := range []string{".json", ".cbor"} {
			tbl, err := lut.BuildFromInput([]byte(input), b)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "table"+ext)
			require.NoError(t, tbl.Store(path))

			loaded, err := lut.Load(path)
			require.NoError(t, err)
			require.Equal(t, b, loaded.Backend())

			got, ok := loaded.Lookup(0)
			require.True(t, ok)
			require.Equal(t, uint64(len(input)-1), got)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	for _, b := range backends {
		tbl, err := lut.BuildFromInput([]byte{}, b)
		require.NoError(t, err)
		_, ok := tbl.Lookup(0)
		require.False(t, ok)
	}
}

func TestOverview(t *testing.T) {
	tbl, err := lut.BuildFromInput([]byte(`{"a":[1,2],"b":{}}`), lut.PhfDouble)
	require.NoError(t, err)
	ov := tbl.Overview()
	require.Equal(t, 3, ov.EntryCount)
	require.Contains(t, ov.String(), "phf-double")
}
