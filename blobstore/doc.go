// Package blobstore stores named, immutable byte blobs for the table store.
//
// Implementations are safe for concurrent use:
//
//   - MemoryStore: in-process map, for tests and caches.
//   - LocalStore: one file per blob under a root directory. Reads are
//     memory-mapped; writes go to a temporary file that is synced and
//     renamed into place, so readers never see a partial blob.
//   - BoltStore: all blobs in a single bbolt database file.
//
// CachingStore wraps any of them and keeps recently read blobs in a
// byte-bounded LRU.
//
// Custom backends implement BlobStore:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // read
//	    Create(ctx, name) (WritableBlob, error)  // streaming write, visible on Close
//	    Put(ctx, name, data) error               // atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)      // sorted names
//	}
//
// Blob names are flat: they must be non-empty and must not contain path
// separators or "..".
package blobstore
