package vector

import (
	"fmt"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/text"
	"github.com/hupe1980/dci/value"
)

// impl is the type-erased view of a Typed vector.
type impl interface {
	Len() int
	Shared() bool
	ReDim(n int) error
	Remove(i int) error
	insertValue(i int, v value.Value) error
	valueAt(i int) value.Value
	setValue(i int, v value.Value) error
	redimValue(n int, init value.Value) error
	values() []value.Value
	clone() impl
	release()
	saveElems(w *binfmt.Writer)
	loadElems(r *binfmt.Reader) error
}

func (t *Typed[T]) valueAt(i int) value.Value {
	if i < 0 || i >= t.Len() {
		return value.Zero(t.dt)
	}
	return t.ops.toValue(t.At(i))
}

func (t *Typed[T]) setValue(i int, v value.Value) error {
	e := t.ops.from(v)
	err := t.Set(i, e)
	t.ops.release(&e)
	return err
}

func (t *Typed[T]) insertValue(i int, v value.Value) error {
	e := t.ops.from(v)
	err := t.Insert(i, e)
	t.ops.release(&e)
	return err
}

func (t *Typed[T]) redimValue(n int, init value.Value) error {
	e := t.ops.from(init)
	err := t.ReDimWith(n, e)
	t.ops.release(&e)
	return err
}

func (t *Typed[T]) values() []value.Value {
	out := make([]value.Value, t.Len())
	for i, e := range t.elems() {
		out[i] = t.ops.toValue(e)
	}
	return out
}

func (t *Typed[T]) clone() impl { return t.Copy() }

func (t *Typed[T]) release() { t.Release() }

// Vector is a copy-on-write vector whose element kind is chosen by its
// DataType. The zero value is an empty Void vector.
//
// Copy shares the backing store until either side writes. A Vector copied
// by plain assignment detaches on its first write, so writes through the
// copy never reach the original. Writes through the original after such an
// assignment are still visible through the copy; use Copy to share.
type Vector struct {
	dt   value.DataType
	impl impl
	// owner is the address of the Vector that last detached impl. Only
	// that Vector writes through impl in place.
	owner *Vector
}

func newImpl(dt value.DataType, n int) (impl, error) {
	switch {
	case !dt.Valid():
		return nil, fmt.Errorf("%w: %v", ErrInvalidType, dt)
	case dt == value.TypeVoid || dt == value.TypeValue:
		return NewTyped[value.Value](dt, n)
	case dt.Storage() == value.TypeByte:
		return NewTyped[uint8](dt, n)
	case dt.Storage() == value.TypeInt:
		return NewTyped[int64](dt, n)
	case dt.Storage() == value.TypeDouble:
		return NewTyped[float64](dt, n)
	default:
		return NewTyped[text.Text](dt, n)
	}
}

// New creates a vector of n zero elements of type dt.
func New(dt value.DataType, n int) (Vector, error) {
	im, err := newImpl(dt, n)
	if err != nil {
		return Vector{}, err
	}
	return Vector{dt: dt, impl: im}, nil
}

// FromValues creates a vector of type dt holding copies of vals.
func FromValues(dt value.DataType, vals ...value.Value) (Vector, error) {
	v, err := New(dt, 0)
	if err != nil {
		return Vector{}, err
	}
	for _, x := range vals {
		if !dt.Accepts(x.Type()) {
			return Vector{}, fmt.Errorf("%w: %v value in %v vector", ErrTypeMismatch, x.Type(), dt)
		}
	}
	im := v.own()
	for i, x := range vals {
		if err := im.setValue(i, x); err != nil {
			v.Release()
			return Vector{}, err
		}
	}
	return v, nil
}

// Wrap returns a Vector backed by a copy of t. The copy shares t's store.
func Wrap[T Elem](t *Typed[T]) Vector {
	c := t.Copy()
	return Vector{dt: c.dt, impl: c}
}

// As returns the typed view backing v. Mutations through the view are
// visible through v until v is copied or assigned. The second result is
// false if v is not stored as T.
func As[T Elem](v *Vector) (*Typed[T], bool) {
	t, ok := v.own().(*Typed[T])
	return t, ok
}

// own returns an impl that v may write in place, detaching v from any
// Vector it was assigned from.
func (v *Vector) own() impl {
	switch {
	case v.impl == nil:
		im, err := newImpl(v.dt, 0)
		if err != nil {
			im = &Typed[value.Value]{dt: v.dt, ops: &valueOps}
		}
		v.impl = im
	case v.owner != v:
		v.impl = v.impl.clone()
	}
	v.owner = v
	return v.impl
}

// Type returns the vector's DataType.
func (v *Vector) Type() value.DataType { return v.dt }

// Len returns the number of elements.
func (v *Vector) Len() int {
	if v.impl == nil {
		return 0
	}
	return v.impl.Len()
}

// Shared reports whether the backing store is shared with another vector.
func (v *Vector) Shared() bool {
	return v.impl != nil && v.impl.Shared()
}

// Accepts reports whether val may be stored in v.
func (v *Vector) Accepts(val value.Value) bool {
	return v.dt.Accepts(val.Type())
}

// At returns the element at i as a Value, or the zero Value of the vector's
// type if i is out of range.
func (v *Vector) At(i int) value.Value {
	if v.impl == nil {
		return value.Zero(v.dt)
	}
	return v.impl.valueAt(i)
}

// Set stores val at i, growing the vector if i is past the end.
func (v *Vector) Set(i int, val value.Value) error {
	if !v.Accepts(val) {
		return fmt.Errorf("%w: %v value in %v vector", ErrTypeMismatch, val.Type(), v.dt)
	}
	return v.own().setValue(i, val)
}

// ReDim resizes the vector to n elements. New elements are zero.
func (v *Vector) ReDim(n int) error {
	return v.own().ReDim(n)
}

// ReDimWith resizes the vector to n elements. New elements are copies of init.
func (v *Vector) ReDimWith(n int, init value.Value) error {
	if !v.Accepts(init) {
		return fmt.Errorf("%w: %v value in %v vector", ErrTypeMismatch, init.Type(), v.dt)
	}
	return v.own().redimValue(n, init)
}

// Insert stores val at i and shifts subsequent elements up. An i equal to
// Len appends.
func (v *Vector) Insert(i int, val value.Value) error {
	if !v.Accepts(val) {
		return fmt.Errorf("%w: %v value in %v vector", ErrTypeMismatch, val.Type(), v.dt)
	}
	return v.own().insertValue(i, val)
}

// Remove deletes the element at i and shifts subsequent elements down.
func (v *Vector) Remove(i int) error {
	return v.own().Remove(i)
}

// Values returns the elements as Values.
func (v *Vector) Values() []value.Value {
	if v.impl == nil {
		return nil
	}
	return v.impl.values()
}

// Copy returns a vector sharing v's backing store.
func (v *Vector) Copy() Vector {
	if v.impl == nil {
		return Vector{dt: v.dt}
	}
	return Vector{dt: v.dt, impl: v.impl.clone()}
}

// Release drops v's share of the backing store and empties v. The type is
// kept. A Vector that never wrote after a plain assignment holds no share
// of its own and only forgets the store.
func (v *Vector) Release() {
	if v.impl != nil && v.owner == v {
		v.impl.release()
	}
	v.impl, v.owner = nil, nil
}

// Equal reports whether v and o have the same type and equal elements.
func (v *Vector) Equal(o *Vector) bool {
	if v.dt != o.dt || v.Len() != o.Len() {
		return false
	}
	for i := range v.Len() {
		if !v.At(i).Equal(o.At(i)) {
			return false
		}
	}
	return true
}

// Save persists v.
func (v *Vector) Save(w *binfmt.Writer) {
	w.PutUint8(uint8(v.dt))
	if v.impl == nil {
		w.PutLen(0)
		return
	}
	v.impl.saveElems(w)
}

// Load reads a vector persisted by Vector.Save or Typed.Save.
func Load(r *binfmt.Reader) (Vector, error) {
	dt := value.DataType(r.Uint8())
	if err := r.Err(); err != nil {
		return Vector{}, err
	}
	v, err := New(dt, 0)
	if err != nil {
		r.Fail(fmt.Errorf("%w: %v", binfmt.ErrCorrupt, err))
		return Vector{}, r.Err()
	}
	if err := v.own().loadElems(r); err != nil {
		return Vector{}, err
	}
	return v, nil
}
