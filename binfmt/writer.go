package binfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/dci/internal/hash"
)

// WriterOption configures a Writer.
type WriterOption func(*writerOptions)

type writerOptions struct {
	compression Compression
	checksum    bool
}

// WithCompression sets the payload compression. Default: CompressionNone.
func WithCompression(c Compression) WriterOption {
	return func(o *writerOptions) {
		o.compression = c
	}
}

// WithChecksum enables or disables the CRC32C trailer. Default: enabled.
func WithChecksum(enabled bool) WriterOption {
	return func(o *writerOptions) {
		o.checksum = enabled
	}
}

// Writer encodes primitives into a buffered payload that Close frames and
// writes to the destination.
type Writer struct {
	dst     io.Writer
	opts    writerOptions
	buf     bytes.Buffer
	scratch [binary.MaxVarintLen64]byte
	err     error
	closed  bool
}

// NewWriter creates a Writer for dst.
func NewWriter(dst io.Writer, optFns ...WriterOption) *Writer {
	opts := writerOptions{
		compression: CompressionNone,
		checksum:    true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Writer{dst: dst, opts: opts}
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Fail records err unless an error is already recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Len returns the number of payload bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) ok() bool {
	if w.closed {
		w.Fail(ErrClosed)
	}
	return w.err == nil
}

// PutUint8 writes a single byte.
func (w *Writer) PutUint8(v uint8) {
	if w.ok() {
		w.buf.WriteByte(v)
	}
}

// PutBool writes a bool as one byte.
func (w *Writer) PutBool(v bool) {
	if v {
		w.PutUint8(1)
	} else {
		w.PutUint8(0)
	}
}

// PutUvarint writes an unsigned varint.
func (w *Writer) PutUvarint(v uint64) {
	if w.ok() {
		n := binary.PutUvarint(w.scratch[:], v)
		w.buf.Write(w.scratch[:n])
	}
}

// PutVarint writes a zig-zag signed varint.
func (w *Writer) PutVarint(v int64) {
	if w.ok() {
		n := binary.PutVarint(w.scratch[:], v)
		w.buf.Write(w.scratch[:n])
	}
}

// PutLen writes a non-negative length.
func (w *Writer) PutLen(n int) {
	if n < 0 {
		w.Fail(fmt.Errorf("%w: negative length %d", ErrCorrupt, n))
		return
	}
	w.PutUvarint(uint64(n))
}

// PutUint32 writes a little-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	if w.ok() {
		binary.LittleEndian.PutUint32(w.scratch[:4], v)
		w.buf.Write(w.scratch[:4])
	}
}

// PutUint64 writes a little-endian uint64.
func (w *Writer) PutUint64(v uint64) {
	if w.ok() {
		binary.LittleEndian.PutUint64(w.scratch[:8], v)
		w.buf.Write(w.scratch[:8])
	}
}

// PutFloat64 writes the IEEE-754 bits of v, so NaN payloads survive.
func (w *Writer) PutFloat64(v float64) {
	w.PutUint64(math.Float64bits(v))
}

// PutBytes writes a length-prefixed byte slice.
func (w *Writer) PutBytes(b []byte) {
	w.PutLen(len(b))
	if w.ok() {
		w.buf.Write(b)
	}
}

// PutString writes a length-prefixed string.
func (w *Writer) PutString(s string) {
	w.PutLen(len(s))
	if w.ok() {
		w.buf.WriteString(s)
	}
}

// Close frames the payload and writes it to the destination. It does not
// close the destination.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}

	h := Header{
		Magic:       Magic,
		Version:     Version,
		Compression: w.opts.compression,
	}
	if w.opts.checksum {
		h.Flags |= FlagChecksum
	}
	if !h.Compression.valid() {
		w.err = fmt.Errorf("%w: unknown compression %d", ErrCorrupt, h.Compression)
		return w.err
	}

	hb := h.marshal()
	if _, err := w.dst.Write(hb[:]); err != nil {
		w.err = err
		return err
	}
	payload := w.buf.Bytes()
	if err := writeBlocks(w.dst, payload, h.Compression); err != nil {
		w.err = err
		return err
	}
	if w.opts.checksum {
		var trailer [4]byte
		binary.LittleEndian.PutUint32(trailer[:], hash.CRC32C(payload))
		if _, err := w.dst.Write(trailer[:]); err != nil {
			w.err = err
			return err
		}
	}
	w.buf.Reset()
	return nil
}
