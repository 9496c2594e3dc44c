package binfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression algorithm.
type Compression uint8

const (
	// CompressionNone stores blocks as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the string representation of the Compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

const (
	blockSize       = 256 * 1024
	blockHeaderSize = 8
	// maxBlockSize bounds allocations for untrusted block headers.
	maxBlockSize = 64 * 1024 * 1024
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressBlock returns data compressed with c, or nil if compression does
// not pay off.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var out []byte
	switch c {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, err
		}
		out = dst[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		out = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, nil
	}
	// Keep the raw block unless compression saves at least 10%.
	if len(out) == 0 || float64(len(out)) > float64(len(data))*0.9 {
		return nil, nil
	}
	return out, nil
}

func decompressBlock(data []byte, size int, c Compression) ([]byte, error) {
	result := make([]byte, size)
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(data, result)
		if err != nil {
			return nil, err
		}
		if n != size {
			return nil, errors.New("decompressed size mismatch")
		}
		return result, nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer putZstdDecoder(dec)
		decoded, err := dec.DecodeAll(data, result[:0])
		if err != nil {
			return nil, err
		}
		if len(decoded) != size {
			return nil, errors.New("decompressed size mismatch")
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("compressed block in stream without compression")
	}
}

// writeBlocks frames payload into blocks followed by the terminator.
func writeBlocks(w io.Writer, payload []byte, c Compression) error {
	var hdr [blockHeaderSize]byte
	for len(payload) > 0 {
		n := min(len(payload), blockSize)
		chunk := payload[:n]
		payload = payload[n:]

		compressed, err := compressBlock(chunk, c)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(hdr[0:], uint32(n)) //nolint:gosec // n <= blockSize
		binary.LittleEndian.PutUint32(hdr[4:], uint32(len(compressed)))
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		data := chunk
		if compressed != nil {
			data = compressed
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	clear(hdr[:])
	_, err := w.Write(hdr[:])
	return err
}

// readBlocks reads blocks up to and including the terminator and returns
// the concatenated payload.
func readBlocks(r io.Reader, c Compression) ([]byte, error) {
	var (
		hdr     [blockHeaderSize]byte
		payload []byte
	)
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: block header: %v", ErrCorrupt, err)
		}
		size := binary.LittleEndian.Uint32(hdr[0:])
		stored := binary.LittleEndian.Uint32(hdr[4:])
		if size == 0 {
			if stored != 0 {
				return nil, fmt.Errorf("%w: invalid terminator", ErrCorrupt)
			}
			return payload, nil
		}
		if size > maxBlockSize || stored > maxBlockSize {
			return nil, fmt.Errorf("%w: block size %d exceeds limit", ErrCorrupt, max(size, stored))
		}

		if stored == 0 {
			start := len(payload)
			payload = append(payload, make([]byte, size)...)
			if _, err := io.ReadFull(r, payload[start:]); err != nil {
				return nil, fmt.Errorf("%w: block data: %v", ErrCorrupt, err)
			}
			continue
		}

		data := make([]byte, stored)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("%w: block data: %v", ErrCorrupt, err)
		}
		block, err := decompressBlock(data, int(size), c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		payload = append(payload, block...)
	}
}
