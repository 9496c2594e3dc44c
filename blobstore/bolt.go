package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var defaultBoltBucket = []byte("blobs")

// BoltOption configures a BoltStore.
type BoltOption func(*boltOptions)

type boltOptions struct {
	bucket  []byte
	timeout time.Duration
	noSync  bool
}

// WithBucket sets the bucket holding the blobs. Default: "blobs".
func WithBucket(name string) BoltOption {
	return func(o *boltOptions) {
		if name != "" {
			o.bucket = []byte(name)
		}
	}
}

// WithLockTimeout bounds the wait for the database file lock.
// Default: 10s.
func WithLockTimeout(d time.Duration) BoltOption {
	return func(o *boltOptions) {
		o.timeout = d
	}
}

// WithNoSync skips fsync on commit. Use it for tests only.
func WithNoSync() BoltOption {
	return func(o *boltOptions) {
		o.noSync = true
	}
}

// BoltStore keeps all blobs in one bbolt database.
type BoltStore struct {
	db     *bbolt.DB
	bucket []byte
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string, optFns ...BoltOption) (*BoltStore, error) {
	opts := boltOptions{bucket: defaultBoltBucket, timeout: 10 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}

	bopt := *bbolt.DefaultOptions
	bopt.Timeout = opts.timeout
	bopt.NoSync = opts.noSync
	db, err := bbolt.Open(path, 0o600, &bopt)
	if err != nil {
		return nil, fmt.Errorf("blobstore: open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(opts.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blobstore: create bucket: %w", err)
	}
	return &BoltStore{db: db, bucket: opts.bucket}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Open implements BlobStore. The blob holds a copy of the stored value.
func (s *BoltStore) Open(_ context.Context, name string) (Blob, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v, ok := lookup(tx.Bucket(s.bucket), []byte(name))
		if !ok {
			return ErrNotFound
		}
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &memoryBlob{data: data}, nil
}

// Create implements BlobStore. Writes are buffered and committed in one
// transaction on Close.
func (s *BoltStore) Create(_ context.Context, name string) (WritableBlob, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &memoryWritableBlob{commit: func(data []byte) error {
		return s.put(name, data)
	}}, nil
}

// Put implements BlobStore.
func (s *BoltStore) Put(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return s.put(name, data)
}

func (s *BoltStore) put(name string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// bbolt keeps a reference to the value until commit.
		return tx.Bucket(s.bucket).Put([]byte(name), data)
	})
}

// Delete implements BlobStore.
func (s *BoltStore) Delete(_ context.Context, name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		key := []byte(name)
		if _, ok := lookup(b, key); !ok {
			return ErrNotFound
		}
		return b.Delete(key)
	})
}

// lookup finds key in b. Unlike Bucket.Get it tells an empty value apart
// from a missing key.
func lookup(b *bbolt.Bucket, key []byte) ([]byte, bool) {
	k, v := b.Cursor().Seek(key)
	if k == nil || !bytes.Equal(k, key) {
		return nil, false
	}
	return v, true
}

// List implements BlobStore. Keys are stored sorted.
func (s *BoltStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	p := []byte(prefix)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	return names, err
}
