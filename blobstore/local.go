package blobstore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/hupe1980/dci/internal/fs"
	"github.com/hupe1980/dci/internal/mmap"
)

// tmpInfix marks in-flight writes; List skips such files.
const tmpInfix = ".tmp-"

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the filesystem used for writes, deletes and
// listings.
func WithFileSystem(fsys fs.FileSystem) LocalOption {
	return func(s *LocalStore) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithSync controls whether writes are fsynced before they become visible.
// Default: true.
func WithSync(enabled bool) LocalOption {
	return func(s *LocalStore) {
		s.sync = enabled
	}
}

// LocalStore implements BlobStore on a directory.
type LocalStore struct {
	root string
	fs   fs.FileSystem
	sync bool
	seq  atomic.Uint64
}

// NewLocalStore creates a LocalStore rooted at root. The directory is
// created on the first write.
func NewLocalStore(root string, optFns ...LocalOption) *LocalStore {
	s := &LocalStore{root: root, fs: fs.Default, sync: true}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Root returns the store directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, name), nil
}

// Open implements BlobStore. The file is memory-mapped.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessSequential)
	return &localBlob{m: m}, nil
}

// Create implements BlobStore. Data goes to a temporary file in the same
// directory which Close syncs and renames over the target.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return nil, err
	}
	tmpName := path + tmpInfix + strconv.Itoa(os.Getpid()) + "-" + strconv.FormatUint(s.seq.Add(1), 10)
	f, err := s.fs.OpenFile(tmpName, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{
		store:  s,
		f:      f,
		buf:    bufio.NewWriterSize(f, 256*1024),
		target: path,
	}, nil
}

// Put implements BlobStore.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Delete implements BlobStore.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return s.fs.Remove(path)
}

// List implements BlobStore. A missing root directory lists as empty.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.Contains(name, tmpInfix) || !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Close() error { return b.m.Close() }

func (b *localBlob) Size() int64 { return int64(b.m.Size()) }

func (b *localBlob) Bytes() ([]byte, error) {
	data := b.m.Bytes()
	if data == nil && b.m.Size() > 0 {
		return nil, mmap.ErrClosed
	}
	return data, nil
}

func (b *localBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	data, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	start, end, err := byteRange(int64(len(data)), off, length)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data[start:end])), nil
}

// localWritableBlob writes to a temporary file and renames it into place on
// Close. A failed write discards the file.
type localWritableBlob struct {
	store  *LocalStore
	f      fs.File
	buf    *bufio.Writer
	target string
	err    error
	closed bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.buf.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *localWritableBlob) Sync() error {
	if w.err != nil {
		return w.err
	}
	if err := w.buf.Flush(); err != nil {
		w.err = err
		return err
	}
	return w.f.Sync()
}

func (w *localWritableBlob) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.f.Close()
	return w.store.fs.Remove(w.f.Name())
}

func (w *localWritableBlob) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	tmpName := w.f.Name()
	err := w.commit()
	if err != nil {
		_ = w.store.fs.Remove(tmpName)
		w.err = fmt.Errorf("blobstore: write %s: %w", filepath.Base(w.target), err)
	}
	return w.err
}

func (w *localWritableBlob) commit() error {
	if w.err != nil {
		_ = w.f.Close()
		return w.err
	}
	if err := w.buf.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}
	if w.store.sync {
		if err := w.f.Sync(); err != nil {
			_ = w.f.Close()
			return err
		}
	}
	if err := w.f.Close(); err != nil {
		return err
	}
	if err := w.store.fs.Rename(w.f.Name(), w.target); err != nil {
		return err
	}
	if w.store.sync {
		syncDir(filepath.Dir(w.target))
	}
	return nil
}

// syncDir makes a rename durable on POSIX. Failures are ignored.
func syncDir(dir string) {
	if d, err := os.Open(dir); err == nil { //nolint:gosec // store root
		_ = d.Sync()
		_ = d.Close()
	}
}
