package dci

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/blobstore"
	"github.com/hupe1980/dci/store"
	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

type (
	// Table is a set of typed columns, optionally organized in records.
	Table = table.Table
	// FieldDef describes a column.
	FieldDef = table.FieldDef
	// Variable holds the cells of a column.
	Variable = table.Variable
	// Record is a row view of a record-based table.
	Record = table.Record
	// Value is a scalar variant.
	Value = value.Value
	// DataType identifies the type of a column, vector or value.
	DataType = value.DataType
	// Vector is a copy-on-write array of values of one DataType.
	Vector = vector.Vector
	// Store keeps named tables in a blob store.
	Store = store.Store
)

// Data types.
const (
	TypeVoid        = value.TypeVoid
	TypeDouble      = value.TypeDouble
	TypeInt         = value.TypeInt
	TypeString      = value.TypeString
	TypeDateTime    = value.TypeDateTime
	TypeEnumeration = value.TypeEnumeration
	TypeValue       = value.TypeValue
	TypeByte        = value.TypeByte
)

// Value constructors.
var (
	Void   = value.Void
	Byte   = value.Byte
	Int    = value.Int
	Double = value.Double
	String = value.String
)

// NewTable creates an empty table.
func NewTable(opts ...table.Option) *Table {
	return table.New(opts...)
}

// OpenStore returns a Store that keeps tables as files in dir.
func OpenStore(dir string, opts ...store.Option) *Store {
	return store.New(blobstore.NewLocalStore(dir), opts...)
}

// SaveTableFile writes t to path. The file is replaced atomically.
func SaveTableFile(path string, t *Table, opts ...binfmt.WriterOption) error {
	ctx := context.Background()
	bs := blobstore.NewLocalStore(filepath.Dir(path))
	w, err := bs.Create(ctx, filepath.Base(path))
	if err != nil {
		return err
	}
	if err := t.Encode(w, opts...); err != nil {
		_ = w.Abort()
		return fmt.Errorf("dci: save %s: %w", path, err)
	}
	return w.Close()
}

// LoadTableFile reads a table written by SaveTableFile.
func LoadTableFile(path string, opts ...table.Option) (*Table, error) {
	ctx := context.Background()
	bs := blobstore.NewLocalStore(filepath.Dir(path))
	b, err := bs.Open(ctx, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	defer b.Close()
	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	t, err := table.Decode(rc, opts...)
	if err != nil {
		return nil, fmt.Errorf("dci: load %s: %w", path, err)
	}
	return t, nil
}
