package vector

import (
	"fmt"
	"iter"
	"slices"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/handle"
	"github.com/hupe1980/dci/text"
	"github.com/hupe1980/dci/value"
)

type rep[T Elem] struct {
	handle.RefCounted
	data []T
}

func newRep[T Elem](data []T) *rep[T] {
	r := &rep[T]{data: data}
	r.Retain()
	r.SetOnDestroy(func() {
		release := opsFor[T]().release
		for i := range r.data {
			release(&r.data[i])
		}
		r.data = nil
	})
	return r
}

// Typed is a copy-on-write vector of T. The zero value is an empty vector
// tagged with T's natural DataType.
//
// A Typed copied by plain assignment detaches on its first write and holds
// no share of the original's store until then.
type Typed[T Elem] struct {
	dt  value.DataType
	ops *elemOps[T]
	r   *rep[T]
	// owner is the address of the Typed holding the counted share of r.
	owner *Typed[T]
}

// Typed vector kinds.
type (
	Bytes   = Typed[uint8]
	Ints    = Typed[int64]
	Doubles = Typed[float64]
	Strings = Typed[text.Text]
	Values  = Typed[value.Value]
)

// NewTyped creates a vector of n zero elements tagged with dt. dt must be
// stored as T.
func NewTyped[T Elem](dt value.DataType, n int) (*Typed[T], error) {
	ops := opsFor[T]()
	if !storageFits(dt, ops.storage) {
		return nil, fmt.Errorf("%w: %v cannot be stored as %v", ErrInvalidType, dt, ops.storage)
	}
	t := &Typed[T]{dt: dt, ops: ops}
	t.owner = t
	if err := t.ReDim(n); err != nil {
		return nil, err
	}
	return t, nil
}

func mustTyped[T Elem](dt value.DataType, n int) *Typed[T] {
	t, err := NewTyped[T](dt, n)
	if err != nil {
		panic(err)
	}
	return t
}

// NewBytes creates a Byte vector of n zeros. It panics if n is out of range.
func NewBytes(n int) *Bytes { return mustTyped[uint8](value.TypeByte, n) }

// NewInts creates an Int vector of n zeros. It panics if n is out of range.
func NewInts(n int) *Ints { return mustTyped[int64](value.TypeInt, n) }

// NewDoubles creates a Double vector of n zeros. It panics if n is out of range.
func NewDoubles(n int) *Doubles { return mustTyped[float64](value.TypeDouble, n) }

// NewStrings creates a String vector of n empty texts. It panics if n is out of range.
func NewStrings(n int) *Strings { return mustTyped[text.Text](value.TypeString, n) }

// NewValues creates a Value vector of n void values. It panics if n is out of range.
func NewValues(n int) *Values { return mustTyped[value.Value](value.TypeValue, n) }

// Of creates a vector tagged with the natural DataType of T holding a copy
// of elems.
func Of[T Elem](elems ...T) *Typed[T] {
	ops := opsFor[T]()
	t := mustTyped[T](ops.storage, 0)
	if len(elems) > 0 {
		data := make([]T, len(elems))
		for i, e := range elems {
			data[i] = ops.share(e)
		}
		t.r = newRep(data)
	}
	return t
}

// Type returns the vector's DataType.
func (t *Typed[T]) Type() value.DataType {
	if t.ops == nil {
		return opsFor[T]().storage
	}
	return t.dt
}

func (t *Typed[T]) init() {
	if t.ops == nil {
		t.ops = opsFor[T]()
		t.dt = t.ops.storage
	}
}

// Len returns the number of elements.
func (t *Typed[T]) Len() int {
	if t.r == nil {
		return 0
	}
	return len(t.r.data)
}

// Shared reports whether the backing store is shared with another vector.
func (t *Typed[T]) Shared() bool {
	return t.r != nil && t.r.RefCount() > 1
}

func (t *Typed[T]) elems() []T {
	if t.r == nil {
		return nil
	}
	return t.r.data
}

// counted reports whether t holds a share of its store.
func (t *Typed[T]) counted() bool { return t.owner == t }

// mutable returns a privately owned backing store, cloning if shared or if
// t was copied by assignment.
func (t *Typed[T]) mutable() *rep[T] {
	t.init()
	switch {
	case t.r == nil:
		t.r = newRep[T](nil)
	case !t.counted() || t.r.RefCount() > 1:
		old := t.r
		data := make([]T, len(old.data), cap(old.data))
		for i, e := range old.data {
			data[i] = t.ops.share(e)
		}
		t.r = newRep(data)
		if t.counted() {
			old.Release()
		}
	}
	t.owner = t
	return t.r
}

// At returns the element at i, or the zero element if i is out of range.
// Text elements are borrowed: Copy them before mutating or keeping them.
func (t *Typed[T]) At(i int) T {
	data := t.elems()
	if i < 0 || i >= len(data) {
		var zero T
		return zero
	}
	return data[i]
}

// Set stores a copy of e at i, growing the vector if i is past the end.
func (t *Typed[T]) Set(i int, e T) error {
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	if i >= MaxLen {
		return fmt.Errorf("%w: %d", ErrTooLarge, i+1)
	}
	if i >= t.Len() {
		t.grow(i+1, nil)
	}
	r := t.mutable()
	t.ops.release(&r.data[i])
	r.data[i] = t.ops.share(e)
	return nil
}

// ReDim resizes the vector to n elements. New elements are zero.
func (t *Typed[T]) ReDim(n int) error {
	return t.redim(n, nil)
}

// ReDimWith resizes the vector to n elements. New elements are copies of init.
func (t *Typed[T]) ReDimWith(n int, init T) error {
	return t.redim(n, &init)
}

func (t *Typed[T]) redim(n int, init *T) error {
	if n < 0 || n > MaxLen {
		return fmt.Errorf("%w: %d", ErrTooLarge, n)
	}
	switch cur := t.Len(); {
	case n > cur:
		t.grow(n, init)
	case n < cur:
		r := t.mutable()
		for i := n; i < cur; i++ {
			t.ops.release(&r.data[i])
		}
		clear(r.data[n:cur])
		r.data = r.data[:n]
	}
	return nil
}

func (t *Typed[T]) grow(n int, init *T) {
	r := t.mutable()
	cur := len(r.data)
	r.data = slices.Grow(r.data, n-cur)[:n]
	if init == nil {
		clear(r.data[cur:])
		return
	}
	for i := cur; i < n; i++ {
		r.data[i] = t.ops.share(*init)
	}
}

// Insert stores a copy of e at i and shifts subsequent elements up. An i
// equal to Len appends.
func (t *Typed[T]) Insert(i int, e T) error {
	if i < 0 || i > t.Len() {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	if t.Len() >= MaxLen {
		return fmt.Errorf("%w: %d", ErrTooLarge, t.Len()+1)
	}
	r := t.mutable()
	r.data = slices.Insert(r.data, i, t.ops.share(e))
	return nil
}

// Remove deletes the element at i and shifts subsequent elements down.
func (t *Typed[T]) Remove(i int) error {
	if i < 0 || i >= t.Len() {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	r := t.mutable()
	t.ops.release(&r.data[i])
	r.data = slices.Delete(r.data, i, i+1)
	return nil
}

// Copy returns a vector sharing t's backing store.
func (t *Typed[T]) Copy() *Typed[T] {
	t.init()
	if t.r != nil {
		t.r.Retain()
	}
	c := &Typed[T]{dt: t.dt, ops: t.ops, r: t.r}
	c.owner = c
	return c
}

// Release drops t's share of the backing store and empties t.
func (t *Typed[T]) Release() {
	if t.r != nil && t.counted() {
		t.r.Release()
	}
	t.r = nil
}

// Slice returns a copy of the elements. Text elements are borrowed.
func (t *Typed[T]) Slice() []T {
	return slices.Clone(t.elems())
}

// All iterates over index/element pairs.
func (t *Typed[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, e := range t.elems() {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Save persists t.
func (t *Typed[T]) Save(w *binfmt.Writer) {
	t.init()
	w.PutUint8(uint8(t.dt))
	t.saveElems(w)
}

func (t *Typed[T]) saveElems(w *binfmt.Writer) {
	data := t.elems()
	w.PutLen(len(data))
	for _, e := range data {
		t.ops.save(w, e)
	}
}

// LoadTyped reads a vector persisted by Typed.Save.
func LoadTyped[T Elem](r *binfmt.Reader) (*Typed[T], error) {
	dt := value.DataType(r.Uint8())
	if err := r.Err(); err != nil {
		return nil, err
	}
	t, err := NewTyped[T](dt, 0)
	if err != nil {
		return nil, err
	}
	if err := t.loadElems(r); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Typed[T]) loadElems(r *binfmt.Reader) error {
	n := r.Len(t.ops.minSize)
	if n > MaxLen {
		r.Fail(fmt.Errorf("%w: %d", ErrTooLarge, n))
	}
	if err := r.Err(); err != nil {
		return err
	}
	data := make([]T, n)
	for i := range data {
		data[i] = t.ops.load(r)
	}
	if err := r.Err(); err != nil {
		return err
	}
	t.Release()
	if n > 0 {
		t.r = newRep(data)
		t.owner = t
	}
	return nil
}
