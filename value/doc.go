// Package value provides the scalar variant Value and the DataType codes
// shared by vectors and tables.
//
// A Value holds exactly one of void, byte, int64, float64 or text. Typed
// accessors never fail: reading through an accessor that does not match the
// tag returns that type's zero value and reports nothing.
//
//	v := value.Int(42)
//	v.AsInt()    // 42
//	v.AsDouble() // 0
//	v.AsString() // ""
package value
