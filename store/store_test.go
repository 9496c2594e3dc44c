package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/blobstore"
	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/internal/fs"
	"github.com/hupe1980/dci/resource"
	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/testutil"
	"github.com/hupe1980/dci/value"
)

func randomTable(t *testing.T, seed int64, name string, records int) *table.Table {
	t.Helper()
	tbl, err := testutil.NewRNG(seed).Table(testutil.TableSpec{
		Name:    name,
		Records: records,
		Types:   testutil.AllTypes,
	})
	require.NoError(t, err)
	tbl.SetDescription("generated")
	require.NoError(t, tbl.SetAttribute("seed", "x"))
	return tbl
}

func backends(t *testing.T) map[string]blobstore.BlobStore {
	t.Helper()
	bolt, err := blobstore.OpenBoltStore(filepath.Join(t.TempDir(), "tables.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })
	return map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
		"bolt":   bolt,
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	for name, bs := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(bs, WithCompression(binfmt.CompressionZSTD))
			src := randomTable(t, 1, "orders", 40)

			require.NoError(t, s.Save(ctx, "orders", src))

			got, err := s.Load(ctx, "orders")
			require.NoError(t, err)
			testutil.AssertTablesEqual(t, src, got)

			ok, err := s.Exists(ctx, "orders")
			require.NoError(t, err)
			assert.True(t, ok)

			names, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"orders"}, names)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore())
	require.NoError(t, s.Save(ctx, "t", randomTable(t, 2, "t", 3)))

	latch := diag.NewLatch()
	got, err := s.Load(ctx, "t", table.WithReporter(latch))
	require.NoError(t, err)
	assert.Equal(t, "t", got.Name())

	require.Error(t, got.SetValue(99, 1, value.Int(1)))
	assert.NotEqual(t, diag.KindOK, latch.Kind())
}

func TestLoadNamesTable(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore())
	require.NoError(t, s.Save(ctx, "sales", table.New()))
	require.NoError(t, s.Save(ctx, "archive", randomTable(t, 1, "orders", 2)))

	tests := []struct {
		name string
		key  string
		opts []table.Option
		want string
	}{
		{"unnamed table", "sales", nil, "sales"},
		{"named table", "archive", nil, "archive"},
		{"option overrides", "archive", []table.Option{table.WithName("copy")}, "copy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Load(ctx, tt.key, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore())

	require.NoError(t, s.Save(ctx, "t", randomTable(t, 1, "t", 5)))
	second := randomTable(t, 2, "t", 8)
	require.NoError(t, s.Save(ctx, "t", second))

	got, err := s.Load(ctx, "t")
	require.NoError(t, err)
	testutil.AssertTablesEqual(t, second, got)
}

func TestSaveFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	faulty := fs.NewFaultyFS(fs.Default)
	bs := blobstore.NewLocalStore(t.TempDir(), blobstore.WithFileSystem(faulty))
	s := New(bs)

	first := randomTable(t, 1, "t", 5)
	require.NoError(t, s.Save(ctx, "t", first))

	faulty.AddRule("t.dci.tmp", fs.Fault{FailOnRename: true})
	err := s.Save(ctx, "t", randomTable(t, 2, "t", 9))
	require.ErrorIs(t, err, fs.ErrInjected)
	faulty.ClearRules()

	got, err := s.Load(ctx, "t")
	require.NoError(t, err)
	testutil.AssertTablesEqual(t, first, got)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore())

	_, err := s.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Equal(t, diag.KindBadPath, diag.KindOf(err))

	err = s.Delete(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Info(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore())

	for _, name := range []string{"", "a/b", "..", `a\b`} {
		err := s.Save(ctx, name, table.New())
		require.ErrorIs(t, err, ErrInvalidName, "name %q", name)
		assert.Equal(t, diag.KindBadArg, diag.KindOf(err))
	}

	err := s.Save(ctx, "t", nil)
	require.ErrorIs(t, err, ErrNilTable)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := New(bs)
	require.NoError(t, s.Save(ctx, "a", randomTable(t, 1, "a", 2)))
	require.NoError(t, s.Save(ctx, "b", randomTable(t, 2, "b", 2)))

	require.NoError(t, s.Delete(ctx, "a"))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	blobs, err := bs.List(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestListSortsNames(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := New(bs)
	for _, name := range []string{"a-b", "a", "c"} {
		require.NoError(t, s.Save(ctx, name, table.New()))
	}
	require.NoError(t, bs.Put(ctx, "notes.txt", []byte("x")))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a-b", "c"}, names)
}

func TestSuffix(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := New(bs, WithSuffix(".tbl"))
	require.NoError(t, s.Save(ctx, "t", table.New()))

	blobs, err := bs.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"t.tbl", "t.tbl.meta"}, blobs)
}

func TestInfo(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := New(bs, WithCompression(binfmt.CompressionLZ4))
	src := randomTable(t, 5, "t", 12)

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, s.Save(ctx, "t", src))

	e, err := s.Info(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "t", e.Name)
	assert.Equal(t, "generated", e.Description)
	assert.True(t, e.RecordBased)
	assert.Equal(t, 12, e.Records)
	require.Len(t, e.Columns, len(testutil.AllTypes))
	assert.Equal(t, Column{Name: "int3", Type: "Int"}, e.Columns[2])
	assert.Equal(t, "lz4", e.Compression)
	assert.True(t, e.Checksum)
	assert.Equal(t, uint32(binfmt.Version), e.Version)
	assert.True(t, e.SavedAt.After(before))

	data, err := blobstore.ReadAll(ctx, bs, "t.dci")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), e.Size)
}

func TestInfoWithoutCatalog(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := New(bs, WithCompression(binfmt.CompressionZSTD), WithChecksum(false))
	require.NoError(t, s.Save(ctx, "t", randomTable(t, 5, "t", 4)))
	require.NoError(t, bs.Delete(ctx, "t.dci.meta"))

	e, err := New(bs).Info(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, 4, e.Records)
	assert.Equal(t, "zstd", e.Compression)
	assert.False(t, e.Checksum)
	assert.True(t, e.SavedAt.IsZero())
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, bs.Put(ctx, "bad.dci", []byte("this is not a dci table")))

	_, err := New(bs).Load(ctx, "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, binfmt.ErrBadMagic)
	assert.Equal(t, diag.KindError, diag.KindOf(err))
}

func TestLoadMemoryLimit(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, New(bs).Save(ctx, "t", randomTable(t, 1, "t", 50)))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
	_, err := New(bs, WithController(rc)).Load(ctx, "t")
	require.ErrorIs(t, err, resource.ErrMemoryLimit)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rc := resource.NewController(resource.Config{MaxWorkers: 1})
	s := New(blobstore.NewMemoryStore(), WithController(rc))

	err := s.Save(ctx, "t", table.New())
	require.True(t, errors.Is(err, context.Canceled))
}

func TestControllerAccounting(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MaxWorkers: 2})
	s := New(blobstore.NewMemoryStore(), WithController(rc))

	require.NoError(t, s.Save(ctx, "t", randomTable(t, 1, "t", 10)))
	_, err := s.Load(ctx, "t")
	require.NoError(t, err)

	stats := rc.Stats()
	assert.Equal(t, int64(0), stats.WorkersBusy)
	assert.Equal(t, int64(0), stats.MemoryUsed)
	assert.Positive(t, stats.IOBytesTotal)
}
