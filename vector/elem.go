package vector

import (
	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/text"
	"github.com/hupe1980/dci/value"
)

// Elem is the set of element kinds a Typed vector can hold.
type Elem interface {
	uint8 | int64 | float64 | text.Text | value.Value
}

// elemOps bundles the per-kind behavior of an element type.
type elemOps[T Elem] struct {
	storage value.DataType
	minSize int
	share   func(T) T
	release func(*T)
	toValue func(T) value.Value
	from    func(value.Value) T
	save    func(*binfmt.Writer, T)
	load    func(*binfmt.Reader) T
}

func identity[T any](e T) T { return e }

func noRelease[T any](*T) {}

var (
	byteOps = elemOps[uint8]{
		storage: value.TypeByte,
		minSize: 1,
		share:   identity[uint8],
		release: noRelease[uint8],
		toValue: value.Byte,
		from:    value.Value.AsByte,
		save:    (*binfmt.Writer).PutUint8,
		load:    (*binfmt.Reader).Uint8,
	}
	intOps = elemOps[int64]{
		storage: value.TypeInt,
		minSize: 1,
		share:   identity[int64],
		release: noRelease[int64],
		toValue: value.Int,
		from:    value.Value.AsInt,
		save:    (*binfmt.Writer).PutVarint,
		load:    (*binfmt.Reader).Varint,
	}
	doubleOps = elemOps[float64]{
		storage: value.TypeDouble,
		minSize: 8,
		share:   identity[float64],
		release: noRelease[float64],
		toValue: value.Double,
		from:    value.Value.AsDouble,
		save:    (*binfmt.Writer).PutFloat64,
		load:    (*binfmt.Reader).Float64,
	}
	textOps = elemOps[text.Text]{
		storage: value.TypeString,
		minSize: 1,
		share:   text.Text.Copy,
		release: (*text.Text).Release,
		toValue: value.FromText,
		from:    func(v value.Value) text.Text { return v.AsText().Copy() },
		save:    func(w *binfmt.Writer, e text.Text) { e.Save(w) },
		load:    text.Load,
	}
	valueOps = elemOps[value.Value]{
		storage: value.TypeValue,
		minSize: 1,
		share:   value.Value.Copy,
		release: (*value.Value).Release,
		toValue: value.Value.Copy,
		from:    value.Value.Copy,
		save:    func(w *binfmt.Writer, e value.Value) { e.Save(w) },
		load:    value.Load,
	}
)

func opsFor[T Elem]() *elemOps[T] {
	var zero T
	var ops any
	switch any(zero).(type) {
	case uint8:
		ops = &byteOps
	case int64:
		ops = &intOps
	case float64:
		ops = &doubleOps
	case text.Text:
		ops = &textOps
	case value.Value:
		ops = &valueOps
	}
	return ops.(*elemOps[T])
}

// storageFits reports whether dt may tag a vector whose elements are stored
// as the given kind.
func storageFits(dt, storage value.DataType) bool {
	if !dt.Valid() {
		return false
	}
	if storage == value.TypeValue {
		return dt == value.TypeValue || dt == value.TypeVoid
	}
	return dt.Storage() == storage
}
