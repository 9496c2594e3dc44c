// Package hash provides the hashing primitives used across dci.
//
// Collection keys and text contents are hashed with xxHash64
// (github.com/cespare/xxhash/v2). Equal content yields an equal hash in
// every process:
//
//	h := hash.String("column")
//
// Binary table streams carry a CRC32-Castagnoli trailer:
//
//	checksum := hash.CRC32C(payload)
package hash
