package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/dci/internal/fs"
	"github.com/hupe1980/dci/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]BlobStore {
	t.Helper()
	bolt, err := OpenBoltStore(filepath.Join(t.TempDir(), "blobs.db"), WithNoSync())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]BlobStore{
		"memory":  NewMemoryStore(),
		"local":   NewLocalStore(filepath.Join(t.TempDir(), "root")),
		"bolt":    bolt,
		"caching": NewCachingStore(NewMemoryStore(), 1<<20, nil),
	}
}

func TestBlobStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			data := []byte("hello world, this is a test blob")

			w, err := store.Create(ctx, "a.dci")
			require.NoError(t, err)
			n, err := w.Write(data)
			require.NoError(t, err)
			assert.Equal(t, len(data), n)
			require.NoError(t, w.Sync())
			require.NoError(t, w.Close())

			require.NoError(t, store.Put(ctx, "b.dci", []byte("0123456789")))
			require.NoError(t, store.Put(ctx, "other", nil))

			b, err := store.Open(ctx, "a.dci")
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), b.Size())

			buf := make([]byte, 5)
			n, err = b.ReadAt(ctx, buf, 6)
			require.NoError(t, err)
			assert.Equal(t, 5, n)
			assert.Equal(t, "world", string(buf))

			rc, err := b.ReadRange(ctx, 28, 100)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "blob", string(got))
			require.NoError(t, rc.Close())

			_, err = b.ReadRange(ctx, 100, 1)
			assert.ErrorIs(t, err, io.EOF)
			require.NoError(t, b.Close())

			all, err := ReadAll(ctx, store, "b.dci")
			require.NoError(t, err)
			assert.Equal(t, "0123456789", string(all))

			empty, err := ReadAll(ctx, store, "other")
			require.NoError(t, err)
			assert.Empty(t, empty)

			// Aborted writes leave the previous blob in place.
			w, err = store.Create(ctx, "a.dci")
			require.NoError(t, err)
			_, err = w.Write([]byte("junk"))
			require.NoError(t, err)
			require.NoError(t, w.Abort())
			require.NoError(t, w.Close())
			all, err = ReadAll(ctx, store, "a.dci")
			require.NoError(t, err)
			assert.Equal(t, data, all)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"a.dci", "b.dci", "other"}, names)
			names, err = store.List(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []string{"b.dci"}, names)

			// Overwrite replaces the content.
			require.NoError(t, store.Put(ctx, "b.dci", []byte("new")))
			all, err = ReadAll(ctx, store, "b.dci")
			require.NoError(t, err)
			assert.Equal(t, "new", string(all))

			require.NoError(t, store.Delete(ctx, "a.dci"))
			assert.ErrorIs(t, store.Delete(ctx, "a.dci"), ErrNotFound)
			_, err = store.Open(ctx, "a.dci")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestInvalidNames(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "..", "a/b", `a\b`, "../x"} {
				assert.ErrorIs(t, store.Put(ctx, bad, []byte("x")), ErrInvalidName, bad)
				_, err := store.Create(ctx, bad)
				assert.ErrorIs(t, err, ErrInvalidName, bad)
			}
		})
	}
}

func TestLocalStoreAtomicWrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	ffs := fs.NewFaultyFS(nil)
	store := NewLocalStore(root, WithFileSystem(ffs))

	require.NoError(t, store.Put(ctx, "t.dci", []byte("v1")))

	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"write", fs.Fault{FailAfterBytes: 0}},
		{"sync", fs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"rename", fs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ffs.ClearRules()
			ffs.AddRule(tmpInfix, tt.fault)

			w, err := store.Create(ctx, "t.dci")
			require.NoError(t, err)
			// Buffered writes may only fail on Close.
			_, _ = w.Write([]byte("v2-partial"))
			require.ErrorIs(t, w.Close(), fs.ErrInjected)

			got, err := ReadAll(ctx, store, "t.dci")
			require.NoError(t, err)
			assert.Equal(t, "v1", string(got))

			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary file removed")
		})
	}
}

func TestLocalStoreListSkipsTemporaryFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root, WithSync(false))

	w, err := store.Create(ctx, "pending.dci")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())

	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"pending.dci"}, names)
	assert.Equal(t, root, store.Root())
}

func TestLocalStoreMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCachingStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	rc := resource.NewController(resource.Config{})
	s := NewCachingStore(inner, 1<<10, rc)

	require.NoError(t, s.Put(ctx, "a", []byte("one")))

	for range 3 {
		data, err := ReadAll(ctx, s, "a")
		require.NoError(t, err)
		assert.Equal(t, "one", string(data))
	}
	hits, misses := s.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(3), rc.MemoryUsage())

	w, err := s.Create(ctx, "a")
	require.NoError(t, err)
	_, err = w.Write([]byte("two!"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := ReadAll(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, "two!", string(data))

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Open(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), rc.MemoryUsage())

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
