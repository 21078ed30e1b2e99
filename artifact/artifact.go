// Package artifact is the serialization backend: it persists and restores
// any of the three lookup-table backends through a small, self-describing
// envelope, chosen by filename-extension hint.
//
// Binary encoding uses fxamacker/cbor/v2 for compact payloads; text
// encoding uses encoding/json, since "human-readable" is exactly what the
// standard library's codec already is. Writes go through natefinch/atomic
// so a crash mid-write never leaves a torn file on disk.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/natefinch/atomic"
)

// Version is the current envelope format version.
const Version = uint16(1)

// ErrUnsupportedFormat is returned when a path's extension names neither a
// known text nor binary format.
var ErrUnsupportedFormat = errors.New("artifact: unsupported file extension")

// ErrCorruptedArtifact is returned when a file decodes but the envelope is
// internally inconsistent, or fails to decode at all.
var ErrCorruptedArtifact = errors.New("artifact: corrupted artifact")

// Format is the on-disk encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatCBOR
)

// FormatFromPath selects a Format from path's extension, case-insensitively.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// BackendTag identifies which storage backend a payload holds.
type BackendTag uint8

const (
	BackendNaive BackendTag = iota
	BackendPhf
	BackendPhfDouble
)

// HashKeyWire is the wire form of a chd.HashKey.
type HashKeyWire struct {
	Lo uint64 `json:"lo" cbor:"lo"`
	Hi uint64 `json:"hi" cbor:"hi"`
}

// DisplacementWire is the wire form of a chd.Displacement.
type DisplacementWire struct {
	D1 uint32 `json:"d1" cbor:"d1"`
	D2 uint32 `json:"d2" cbor:"d2"`
}

// PhfWire is the wire form of a single chd.State plus its distance map,
// reused for both the single-level Phf backend and each level of
// PhfDouble.
type PhfWire[V any] struct {
	HashKey       HashKeyWire        `json:"hash_key" cbor:"hash_key"`
	Displacements []DisplacementWire `json:"displacements" cbor:"displacements"`
	Map           []V                `json:"map" cbor:"map"`
}

// EntryWire is a single naive-table (open, close) pair on the wire.
type EntryWire struct {
	Open  uint64 `json:"open" cbor:"open"`
	Close uint64 `json:"close" cbor:"close"`
}

// Envelope is the self-describing container persisted to disk. Only the
// payload fields matching Backend are populated: Naive, Phf, or both
// Primary and Secondary for BackendPhfDouble.
type Envelope struct {
	Version   uint16     `json:"version" cbor:"version"`
	Backend   BackendTag `json:"backend_tag" cbor:"backend_tag"`
	Naive     []EntryWire           `json:"naive,omitempty" cbor:"naive,omitempty"`
	Phf       *PhfWire[uint64]      `json:"phf,omitempty" cbor:"phf,omitempty"`
	Primary   *PhfWire[uint16]      `json:"primary,omitempty" cbor:"primary,omitempty"`
	Secondary *PhfWire[uint64]      `json:"secondary,omitempty" cbor:"secondary,omitempty"`
}

// Write encodes env in the format implied by path's extension and writes it
// atomically.
func Write(path string, env Envelope) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf []byte
	switch format {
	case FormatJSON:
		buf, err = json.MarshalIndent(env, "", "  ")
	case FormatCBOR:
		buf, err = cbor.Marshal(env)
	}
	if err != nil {
		return fmt.Errorf("artifact: encode: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return nil
}

// EstimateSize returns the length of a trial encoding of env in format,
// without touching disk.
func EstimateSize(env Envelope, format Format) (int, error) {
	switch format {
	case FormatJSON:
		buf, err := json.Marshal(env)
		return len(buf), err
	case FormatCBOR:
		buf, err := cbor.Marshal(env)
		return len(buf), err
	default:
		return 0, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
}

// Read loads and decodes an Envelope from path.
func Read(path string) (Envelope, error) {
	var env Envelope
	format, err := FormatFromPath(path)
	if err != nil {
		return env, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return env, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	switch format {
	case FormatJSON:
		err = json.Unmarshal(buf, &env)
	case FormatCBOR:
		err = cbor.Unmarshal(buf, &env)
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %s: %v", ErrCorruptedArtifact, path, err)
	}
	if env.Version == 0 || env.Version > Version {
		return Envelope{}, fmt.Errorf("%w: %s: unsupported version %d", ErrCorruptedArtifact, path, env.Version)
	}
	return env, nil
}
