package binfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/dci/internal/conv"
	"github.com/hupe1980/dci/internal/hash"
)

// Reader decodes primitives from a framed stream. NewReader consumes exactly
// one stream from the source, so several streams may follow each other.
type Reader struct {
	header Header
	data   *bytes.Reader
	err    error
}

// NewReader reads and validates one stream from src.
func NewReader(src io.Reader) (*Reader, error) {
	h, err := ReadHeader(src)
	if err != nil {
		return nil, err
	}

	payload, err := readBlocks(src, h.Compression)
	if err != nil {
		return nil, err
	}

	if h.Flags&FlagChecksum != 0 {
		var trailer [4]byte
		if _, err := io.ReadFull(src, trailer[:]); err != nil {
			return nil, fmt.Errorf("%w: checksum: %v", ErrCorrupt, err)
		}
		want := binary.LittleEndian.Uint32(trailer[:])
		if got := hash.CRC32C(payload); got != want {
			return nil, fmt.Errorf("%w: got 0x%08x, want 0x%08x", ErrChecksum, got, want)
		}
	}

	return &Reader{header: h, data: bytes.NewReader(payload)}, nil
}

// Header returns the stream header.
func (r *Reader) Header() Header {
	return r.header
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

// Fail records err unless an error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Remaining returns the number of unread payload bytes.
func (r *Reader) Remaining() int {
	return r.data.Len()
}

func (r *Reader) fail(what string, err error) {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	r.Fail(fmt.Errorf("%w: %s: %v", ErrCorrupt, what, err))
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() uint8 {
	if r.err != nil {
		return 0
	}
	b, err := r.data.ReadByte()
	if err != nil {
		r.fail("uint8", err)
		return 0
	}
	return b
}

// Bool reads a bool.
func (r *Reader) Bool() bool {
	switch r.Uint8() {
	case 0:
		return false
	case 1:
		return true
	default:
		r.Fail(fmt.Errorf("%w: invalid bool", ErrCorrupt))
		return false
	}
}

// Uvarint reads an unsigned varint.
func (r *Reader) Uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(r.data)
	if err != nil {
		r.fail("uvarint", err)
		return 0
	}
	return v
}

// Varint reads a zig-zag signed varint.
func (r *Reader) Varint() int64 {
	if r.err != nil {
		return 0
	}
	v, err := binary.ReadVarint(r.data)
	if err != nil {
		r.fail("varint", err)
		return 0
	}
	return v
}

// Len reads a length and validates it against the remaining payload, given
// that every counted element occupies at least minElemSize bytes.
func (r *Reader) Len(minElemSize int) int {
	v := r.Uvarint()
	if r.err != nil {
		return 0
	}
	remaining := int64(r.data.Len())
	if minElemSize > 1 {
		remaining /= int64(minElemSize)
	} else if minElemSize <= 0 {
		remaining = -1
	}
	n, err := conv.CheckedLen(v, remaining)
	if err != nil {
		r.Fail(fmt.Errorf("%w: %v", ErrCorrupt, err))
		return 0
	}
	return n
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	var b [4]byte
	if !r.read(b[:], "uint32") {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() uint64 {
	var b [8]byte
	if !r.read(b[:], "uint64") {
		return 0
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Float64 reads an IEEE-754 float64.
func (r *Reader) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}

// Bytes reads a length-prefixed byte slice.
func (r *Reader) Bytes() []byte {
	n := r.Len(1)
	if r.err != nil || n == 0 {
		return nil
	}
	b := make([]byte, n)
	if !r.read(b, "bytes") {
		return nil
	}
	return b
}

// Str reads a length-prefixed string.
func (r *Reader) Str() string {
	return string(r.Bytes())
}

func (r *Reader) read(b []byte, what string) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r.data, b); err != nil {
		r.fail(what, err)
		return false
	}
	return true
}
