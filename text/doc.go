// Package text provides Text, a byte string backed by a shared,
// reference-counted buffer.
//
// Copy shares the buffer in O(1). Each Text reads its own prefix of the
// buffer, and bytes already written are never changed, so a mutation through
// one Text is never seen through another:
//
//	a := text.New("time")
//	b := a.Copy()     // shares the buffer
//	b.ToUpper()       // b switches to a new buffer, a still reads "time"
//	c := a            // plain assignment behaves the same way
//	c.AppendString("s")
//
// Release returns the Text's share of the buffer; a released Text is empty.
package text
