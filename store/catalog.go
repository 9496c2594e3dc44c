package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/blobstore"
	"github.com/hupe1980/dci/table"
)

// Column describes one stored column.
type Column struct {
	Name string `msgpack:"name"`
	Type string `msgpack:"type"`
}

// Entry is the catalog record kept next to each stored table.
type Entry struct {
	Name        string    `msgpack:"name"`
	Description string    `msgpack:"description,omitempty"`
	RecordBased bool      `msgpack:"record_based"`
	Records     int       `msgpack:"records"`
	Columns     []Column  `msgpack:"columns"`
	Compression string    `msgpack:"compression"`
	Checksum    bool      `msgpack:"checksum"`
	Size        int64     `msgpack:"size"`
	Version     uint32    `msgpack:"version"`
	SavedAt     time.Time `msgpack:"saved_at"`
}

func newEntry(name string, t *table.Table, size int64, opts options) Entry {
	e := Entry{
		Name:        name,
		Description: t.Description(),
		RecordBased: t.IsRecordBased(),
		Records:     t.RecordCount(),
		Columns:     make([]Column, 0, t.ColumnCount()),
		Compression: opts.compression.String(),
		Checksum:    opts.checksum,
		Size:        size,
		Version:     binfmt.Version,
		SavedAt:     time.Now().UTC(),
	}
	for _, fd := range t.FieldDefs().All() {
		e.Columns = append(e.Columns, Column{Name: fd.Name(), Type: fd.DataType().String()})
	}
	return e
}

func (s *Store) putEntry(ctx context.Context, blob string, e Entry) error {
	data, err := msgpack.Marshal(&e)
	if err != nil {
		return fmt.Errorf("store: encode catalog %s: %w", e.Name, err)
	}
	if err := s.bs.Put(ctx, blob+metaSuffix, data); err != nil {
		return fmt.Errorf("store: write catalog %s: %w", e.Name, err)
	}
	return nil
}

// Info returns the catalog entry of the table stored under name. Tables
// without a catalog entry are decoded to build one.
func (s *Store) Info(ctx context.Context, name string) (Entry, error) {
	blob, err := s.blobName(name)
	if err != nil {
		return Entry{}, err
	}
	data, err := blobstore.ReadAll(ctx, s.bs, blob+metaSuffix)
	switch {
	case err == nil:
		var e Entry
		if err := msgpack.Unmarshal(data, &e); err != nil {
			return Entry{}, fmt.Errorf("store: decode catalog %s: %w", name, err)
		}
		return e, nil
	case !errors.Is(err, blobstore.ErrNotFound):
		return Entry{}, err
	}

	t, err := s.Load(ctx, name)
	if err != nil {
		return Entry{}, err
	}
	b, err := s.bs.Open(ctx, blob)
	if err != nil {
		return Entry{}, notFound(name, err)
	}
	defer b.Close()
	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return Entry{}, err
	}
	defer rc.Close()
	h, err := binfmt.ReadHeader(rc)
	if err != nil {
		return Entry{}, err
	}

	e := newEntry(name, t, b.Size(), s.opts)
	e.Compression = h.Compression.String()
	e.Checksum = h.Flags&binfmt.FlagChecksum != 0
	e.Version = h.Version
	e.SavedAt = time.Time{}
	return e, nil
}
