package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bracketlut/bracketlut/artifact"
)

func sampleEnvelope() artifact.Envelope {
	return artifact.Envelope{
		Version: artifact.Version,
		Backend: artifact.BackendPhfDouble,
		Primary: &artifact.PhfWire[uint16]{
			HashKey:       artifact.HashKeyWire{Lo: 1, Hi: 2},
			Displacements: []artifact.DisplacementWire{{D1: 3, D2: 4}},
			Map:           []uint16{10, 0, 20},
		},
		Secondary: &artifact.PhfWire[uint64]{
			HashKey:       artifact.HashKeyWire{Lo: 5, Hi: 6},
			Displacements: []artifact.DisplacementWire{{D1: 7, D2: 8}},
			Map:           []uint64{70001},
		},
	}
}

func TestRoundTripJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	env := sampleEnvelope()
	require.NoError(t, artifact.Write(path, env))
	got, err := artifact.Read(path)
	require.NoError(t, err)
	if diff := cmp.Diff(env, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.cbor")
	env := sampleEnvelope()
	require.NoError(t, artifact.Write(path, env))
	got, err := artifact.Read(path)
	require.NoError(t, err)
	if diff := cmp.Diff(env, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.txt")
	err := artifact.Write(path, sampleEnvelope())
	require.ErrorIs(t, err, artifact.ErrUnsupportedFormat)
}

func TestCorruptedArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := artifact.Read(path)
	require.ErrorIs(t, err, artifact.ErrCorruptedArtifact)
}
