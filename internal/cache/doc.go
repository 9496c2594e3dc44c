// Package cache provides a byte-bounded LRU cache for immutable blob
// contents. Memory held by the cache can be charged to a
// resource.Controller so cached bytes count against the global limit.
package cache
