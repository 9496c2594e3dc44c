// Package binfmt implements the versioned binary stream format used to
// persist tables and their building blocks.
//
// A stream has three parts:
//
//	[Header 12B][Blocks...][Terminator 8B][CRC32C 4B, optional]
//
// The header carries a magic number, the format version, the compression
// algorithm of the payload blocks and flags. The payload is split into blocks
// of at most 256KB, each stored as
//
//	[UncompressedSize uint32][CompressedSize uint32][Data...]
//
// where CompressedSize 0 means the block is stored as-is. A block with
// UncompressedSize 0 terminates the payload. When FlagChecksum is set the
// CRC32C of the uncompressed payload follows the terminator.
//
// Readers refuse streams whose version differs from Version with
// ErrBadVersion; there is no forward or backward conversion.
//
// Writer and Reader encode primitives with sticky errors: after the first
// failure every further call is a no-op and Err reports the failure.
//
//	w := binfmt.NewWriter(f, binfmt.WithCompression(binfmt.CompressionZSTD))
//	w.PutString("name")
//	w.PutVarint(-42)
//	if err := w.Close(); err != nil { ... }
//
//	r, err := binfmt.NewReader(f)
//	name := r.Str()
//	n := r.Varint()
//	if err := r.Err(); err != nil { ... }
package binfmt
