package hash

import "github.com/cespare/xxhash/v2"

// String returns the 64-bit xxHash of s.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bytes returns the 64-bit xxHash of b.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}
