package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/blobstore"
	"github.com/hupe1980/dci/resource"
	"github.com/hupe1980/dci/table"
)

// Store saves and loads named tables.
type Store struct {
	bs   blobstore.BlobStore
	opts options
}

// New creates a Store on top of bs.
func New(bs blobstore.BlobStore, optFns ...Option) *Store {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{bs: bs, opts: opts}
}

// BlobStore returns the underlying blob store.
func (s *Store) BlobStore() blobstore.BlobStore { return s.bs }

func (s *Store) blobName(name string) (string, error) {
	blob := name + s.opts.suffix
	if blobstore.ValidateName(name) != nil || blobstore.ValidateName(blob) != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return blob, nil
}

func notFound(name string, err error) error {
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
	}
	return err
}

// Save writes t under name, replacing any table of that name. On failure the
// previous table stays in place.
func (s *Store) Save(ctx context.Context, name string, t *table.Table) (err error) {
	start := time.Now()
	var size int64
	defer func() {
		records, columns := 0, 0
		if t != nil {
			records, columns = t.RecordCount(), t.ColumnCount()
		}
		s.opts.metrics.RecordSave(size, time.Since(start), err)
		s.opts.logger.LogSave(ctx, name, records, columns, err)
	}()

	blob, err := s.blobName(name)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNilTable
	}

	return s.opts.controller.Do(ctx, func(ctx context.Context) error {
		n, err := s.write(ctx, blob, t)
		if err != nil {
			return fmt.Errorf("store: save %s: %w", name, err)
		}
		size = n
		return s.putEntry(ctx, blob, newEntry(name, t, n, s.opts))
	})
}

func (s *Store) write(ctx context.Context, blob string, t *table.Table) (int64, error) {
	w, err := s.bs.Create(ctx, blob)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: resource.NewWriter(ctx, w, s.opts.controller)}
	if err := t.Encode(cw,
		binfmt.WithCompression(s.opts.compression),
		binfmt.WithChecksum(s.opts.checksum),
	); err != nil {
		_ = w.Abort()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

// Load reads the table stored under name. optFns configure the new table;
// its name is set to name unless an option overrides it.
func (s *Store) Load(ctx context.Context, name string, optFns ...table.Option) (t *table.Table, err error) {
	start := time.Now()
	var size int64
	defer func() {
		records, columns := 0, 0
		if t != nil {
			records, columns = t.RecordCount(), t.ColumnCount()
		}
		s.opts.metrics.RecordLoad(size, time.Since(start), err)
		s.opts.logger.LogLoad(ctx, name, records, columns, err)
	}()

	blob, err := s.blobName(name)
	if err != nil {
		return nil, err
	}

	err = s.opts.controller.Do(ctx, func(ctx context.Context) error {
		b, err := s.bs.Open(ctx, blob)
		if err != nil {
			return notFound(name, err)
		}
		defer b.Close()

		size = b.Size()
		if err := s.opts.controller.AcquireMemory(ctx, size); err != nil {
			return fmt.Errorf("store: load %s: %w", name, err)
		}
		defer s.opts.controller.ReleaseMemory(size)

		rc, err := b.ReadRange(ctx, 0, size)
		if err != nil {
			return fmt.Errorf("store: load %s: %w", name, err)
		}
		defer rc.Close()

		opts := append([]table.Option{table.WithName(name)}, optFns...)
		t, err = table.Decode(resource.NewReader(ctx, rc, s.opts.controller), opts...)
		if err != nil {
			return fmt.Errorf("store: load %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Exists reports whether a table is stored under name.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	blob, err := s.blobName(name)
	if err != nil {
		return false, err
	}
	b, err := s.bs.Open(ctx, blob)
	if errors.Is(err, blobstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, b.Close()
}

// Delete removes the table stored under name.
func (s *Store) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metrics.RecordDelete(time.Since(start), err)
		s.opts.logger.LogDelete(ctx, name, err)
	}()

	blob, err := s.blobName(name)
	if err != nil {
		return err
	}
	if err := s.bs.Delete(ctx, blob); err != nil {
		return notFound(name, err)
	}
	if err := s.bs.Delete(ctx, blob+metaSuffix); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}

// List returns the sorted names of all stored tables.
func (s *Store) List(ctx context.Context) ([]string, error) {
	blobs, err := s.bs.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(blobs))
	for _, b := range blobs {
		if name, ok := strings.CutSuffix(b, s.opts.suffix); ok && name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
