// Package handle provides reference-counted ownership.
//
// Objects that take part in shared ownership embed RefCounted. A Handle is an
// owning reference to such an object: creating or cloning a handle retains
// the referent, releasing or rebinding it releases the referent, and the last
// release runs the referent's destroy hook.
//
// Go assignment of a Handle value copies the reference without retaining it,
// the same way assigning a slice aliases its backing array. Use Clone to
// obtain an independent owning handle.
//
//	v := handle.New(obj)   // count 1
//	w := v.Clone()         // count 2
//	w.Release()            // count 1
//	v.Release()            // count 0, destroy hook runs
//
// Dereferencing an unbound handle returns the zero value of T; callers test
// IsBound first.
package handle
