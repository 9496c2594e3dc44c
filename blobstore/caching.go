package blobstore

import (
	"context"

	"github.com/hupe1980/dci/internal/cache"
	"github.com/hupe1980/dci/resource"
)

// CachingStore wraps a BlobStore and keeps recently read blobs in memory.
// Writes and deletes through the CachingStore invalidate the cached copy;
// changes made to the inner store directly are not observed.
type CachingStore struct {
	inner BlobStore
	cache *cache.LRU
}

// NewCachingStore caches up to capacity bytes of blob contents. Cached
// bytes are charged to rc when it is not nil.
func NewCachingStore(inner BlobStore, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity, rc),
	}
}

// Open implements BlobStore.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(name); ok {
		return &memoryBlob{data: data}, nil
	}
	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, data)
	return &memoryBlob{data: data}, nil
}

// Create implements BlobStore.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Remove(name)
	return &invalidatingBlob{WritableBlob: w, invalidate: func() { s.cache.Remove(name) }}, nil
}

// Put implements BlobStore.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	defer s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete implements BlobStore.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	defer s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List implements BlobStore.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

type invalidatingBlob struct {
	WritableBlob
	invalidate func()
}

func (w *invalidatingBlob) Close() error {
	defer w.invalidate()
	return w.WritableBlob.Close()
}
