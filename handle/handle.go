package handle

// Lifecycle is the capability set required from a referent: a comparable
// (pointer) type with reference counting.
type Lifecycle interface {
	comparable
	Retain()
	Release() bool
	RefCount() int64
}

// Handle is an owning reference to a Lifecycle object. The zero value is
// unbound.
type Handle[T Lifecycle] struct {
	ref T
}

// New returns a handle bound to ref, retaining it. A zero ref yields an
// unbound handle.
func New[T Lifecycle](ref T) Handle[T] {
	var zero T
	if ref != zero {
		ref.Retain()
	}
	return Handle[T]{ref: ref}
}

// Clone returns a second owning handle to the same referent.
func (h Handle[T]) Clone() Handle[T] {
	return New(h.ref)
}

// BindTo rebinds h to ref: ref is retained before the previous referent is
// released, so rebinding to the current referent is safe.
func (h *Handle[T]) BindTo(ref T) {
	var zero T
	if ref != zero {
		ref.Retain()
	}
	old := h.ref
	h.ref = ref
	if old != zero {
		old.Release()
	}
}

// Release drops the reference and unbinds h. Releasing an unbound handle is
// a no-op.
func (h *Handle[T]) Release() {
	var zero T
	if h.ref == zero {
		return
	}
	old := h.ref
	h.ref = zero
	old.Release()
}

// Get returns the referent, or the zero value of T if h is unbound.
func (h Handle[T]) Get() T {
	return h.ref
}

// IsBound reports whether h refers to an object.
func (h Handle[T]) IsBound() bool {
	var zero T
	return h.ref != zero
}

// Same reports whether h and o refer to the same object.
func (h Handle[T]) Same(o Handle[T]) bool {
	return h.ref == o.ref
}
