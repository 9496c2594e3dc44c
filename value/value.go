package value

import (
	"fmt"
	"math"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/text"
)

// Value is a scalar variant. The zero value is void.
//
// Value is assigned as a whole, so tag and payload never disagree. A string
// Value shares its text buffer with copies made by Copy.
type Value struct {
	tag DataType
	i   int64
	f   float64
	s   text.Text
}

// Void returns a void Value.
func Void() Value { return Value{} }

// Byte returns a byte Value.
func Byte(b uint8) Value { return Value{tag: TypeByte, i: int64(b)} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{tag: TypeInt, i: i} }

// Double returns a double Value.
func Double(f float64) Value { return Value{tag: TypeDouble, f: f} }

// String returns a text Value holding s.
func String(s string) Value { return Value{tag: TypeString, s: text.New(s)} }

// FromText returns a text Value sharing t's buffer.
func FromText(t text.Text) Value { return Value{tag: TypeString, s: t.Copy()} }

// Zero returns the zero Value stored by a column of type d: 0 for numeric
// storage, empty text for strings and void otherwise.
func Zero(d DataType) Value {
	switch d.Storage() {
	case TypeByte:
		return Byte(0)
	case TypeInt:
		return Int(0)
	case TypeDouble:
		return Double(0)
	case TypeString:
		return Value{tag: TypeString}
	default:
		return Void()
	}
}

// Type returns the tag.
func (v Value) Type() DataType { return v.tag }

// IsVoid reports whether v is void.
func (v Value) IsVoid() bool { return v.tag == TypeVoid }

// AsByte returns the byte payload, or 0 if v is not a byte.
func (v Value) AsByte() uint8 {
	if v.tag != TypeByte {
		return 0
	}
	return uint8(v.i) //nolint:gosec // constructed from uint8
}

// AsInt returns the integer payload, or 0 if v is not an integer.
func (v Value) AsInt() int64 {
	if v.tag != TypeInt {
		return 0
	}
	return v.i
}

// AsDouble returns the double payload, or 0 if v is not a double.
func (v Value) AsDouble() float64 {
	if v.tag != TypeDouble {
		return 0
	}
	return v.f
}

// AsText returns the text payload, or empty text if v is not text.
// The result is borrowed: it reads v's buffer without holding a share, so
// mutating it never changes v, but it must not be Released. Copy it to keep
// a counted share.
func (v Value) AsText() text.Text {
	if v.tag != TypeString {
		return text.Text{}
	}
	return v.s
}

// AsString returns the text payload as a Go string, or "" if v is not text.
func (v Value) AsString() string {
	return v.AsText().String()
}

// Copy returns a Value equal to v. Text payloads share the buffer.
func (v Value) Copy() Value {
	if v.tag == TypeString {
		v.s = v.s.Copy()
	}
	return v
}

// Release drops v's share of a text buffer and makes v void.
func (v *Value) Release() {
	v.s.Release()
	*v = Value{}
}

// Assign replaces v with a copy of o.
func (v *Value) Assign(o Value) {
	c := o.Copy()
	v.Release()
	*v = c
}

// Equal reports whether v and o have the same tag and identical payloads.
// Doubles compare by bit pattern, so NaN equals NaN.
func (v Value) Equal(o Value) bool {
	if v.tag != o.tag {
		return false
	}
	switch v.tag {
	case TypeByte, TypeInt:
		return v.i == o.i
	case TypeDouble:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case TypeString:
		return v.s.Equal(o.s)
	default:
		return true
	}
}

// GoString implements fmt.GoStringer for test diagnostics.
func (v Value) GoString() string {
	switch v.tag {
	case TypeByte:
		return fmt.Sprintf("value.Byte(%d)", v.AsByte())
	case TypeInt:
		return fmt.Sprintf("value.Int(%d)", v.i)
	case TypeDouble:
		return fmt.Sprintf("value.Double(%g)", v.f)
	case TypeString:
		return fmt.Sprintf("value.String(%q)", v.s.String())
	default:
		return "value.Void()"
	}
}

// Save persists v as a tag byte followed by the payload.
func (v Value) Save(w *binfmt.Writer) {
	w.PutUint8(uint8(v.tag))
	switch v.tag {
	case TypeByte:
		w.PutUint8(v.AsByte())
	case TypeInt:
		w.PutVarint(v.i)
	case TypeDouble:
		w.PutFloat64(v.f)
	case TypeString:
		v.s.Save(w)
	}
}

// Load reads a Value persisted by Save.
func Load(r *binfmt.Reader) Value {
	tag := DataType(r.Uint8())
	switch tag {
	case TypeVoid:
		return Void()
	case TypeByte:
		return Byte(r.Uint8())
	case TypeInt:
		return Int(r.Varint())
	case TypeDouble:
		return Double(r.Float64())
	case TypeString:
		return Value{tag: TypeString, s: text.Load(r)}
	default:
		r.Fail(fmt.Errorf("%w: invalid value tag %d", binfmt.ErrCorrupt, tag))
		return Void()
	}
}
