// Package vector provides homogeneous, resizable, copy-on-write sequences.
//
// Typed[T] is a vector of one concrete element kind (byte, int64, float64,
// text.Text or value.Value) tagged with a value.DataType. Its backing store
// is reference-counted: Copy shares it in O(1) and every mutating method
// clones it first if it is shared. Read-only methods never clone. A vector
// copied by plain assignment clones on its first write.
//
// Vector is the type-erased form used by table columns. Its DataType decides
// which Typed instance backs it:
//
//	Byte                 -> Typed[uint8]
//	Int, Enumeration     -> Typed[int64]
//	Double, DateTime     -> Typed[float64]
//	String               -> Typed[text.Text]
//	Value, Void          -> Typed[value.Value]
//
// Indices are 0-based. Reading past the end returns the element type's zero
// value without error. Writing past the end grows the vector and fills the
// intervening slots with zero values:
//
//	v := vector.NewInts(0)
//	v.Set(2, 7) // v is [0 0 7]
package vector
