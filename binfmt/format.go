package binfmt

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/dci/diag"
)

const (
	// Magic identifies dci binary streams (ASCII: "DCIB").
	Magic = 0x44434942
	// Version is the current stream format version (v1.0).
	Version = 0x00010000

	headerSize = 12
)

// Flags describe optional stream features.
type Flags uint8

const (
	// FlagChecksum marks a CRC32C trailer after the payload.
	FlagChecksum Flags = 1 << iota
)

var (
	// ErrBadMagic is returned when a stream does not start with Magic.
	ErrBadMagic = diag.New(diag.KindError, "invalid magic number")
	// ErrBadVersion is returned when a stream was written with another format version.
	ErrBadVersion = diag.New(diag.KindBadVersion, "unsupported format version")
	// ErrChecksum is returned when the payload checksum does not match.
	ErrChecksum = diag.New(diag.KindError, "checksum mismatch")
	// ErrCorrupt is returned when the stream structure is invalid.
	ErrCorrupt = diag.New(diag.KindError, "corrupt stream")
	// ErrClosed is returned when writing to a closed Writer.
	ErrClosed = diag.New(diag.KindError, "writer closed")
)

// Header is the fixed-size stream header.
type Header struct {
	Magic       uint32
	Version     uint32
	Compression Compression
	Flags       Flags
	Reserved    uint16
}

func (h Header) marshal() [headerSize]byte {
	var b [headerSize]byte
	binary.LittleEndian.PutUint32(b[0:], h.Magic)
	binary.LittleEndian.PutUint32(b[4:], h.Version)
	b[8] = byte(h.Compression)
	b[9] = byte(h.Flags)
	binary.LittleEndian.PutUint16(b[10:], h.Reserved)
	return b
}

// ReadHeader reads and validates a stream header without consuming the
// payload.
func ReadHeader(src io.Reader) (Header, error) {
	var hb [headerSize]byte
	if _, err := io.ReadFull(src, hb[:]); err != nil {
		return Header{}, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	return parseHeader(hb)
}

func parseHeader(b [headerSize]byte) (Header, error) {
	h := Header{
		Magic:       binary.LittleEndian.Uint32(b[0:]),
		Version:     binary.LittleEndian.Uint32(b[4:]),
		Compression: Compression(b[8]),
		Flags:       Flags(b[9]),
		Reserved:    binary.LittleEndian.Uint16(b[10:]),
	}
	if h.Magic != Magic {
		return h, fmt.Errorf("%w: got 0x%08x", ErrBadMagic, h.Magic)
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: got 0x%08x, want 0x%08x", ErrBadVersion, h.Version, Version)
	}
	if !h.Compression.valid() {
		return h, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, h.Compression)
	}
	return h, nil
}
