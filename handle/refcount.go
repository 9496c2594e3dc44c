package handle

import "sync/atomic"

// RefCounted is an embeddable reference counter.
// The zero value has a count of zero and no destroy hook.
type RefCounted struct {
	refs      atomic.Int64
	onDestroy func()
}

// Retain increments the reference count.
func (r *RefCounted) Retain() {
	r.refs.Add(1)
}

// Release decrements the reference count. When the count drops to zero the
// destroy hook runs once and Release returns true.
func (r *RefCounted) Release() bool {
	n := r.refs.Add(-1)
	if n == 0 {
		if f := r.onDestroy; f != nil {
			r.onDestroy = nil
			f()
		}
		return true
	}
	if n < 0 {
		panic("handle: release of unretained object")
	}
	return false
}

// RefCount returns the current reference count.
func (r *RefCounted) RefCount() int64 {
	return r.refs.Load()
}

// SetOnDestroy sets the hook invoked when the last reference is released.
func (r *RefCounted) SetOnDestroy(f func()) {
	r.onDestroy = f
}
