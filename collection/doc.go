// Package collection provides Collection, an ordered container of
// reference-counted items with optional unique string keys.
//
// Positions are 1-based, so 0 is never a valid index and IndexOf uses it to
// signal a missing key. Keys are unique and looked up through a hash index
// in O(1) amortized time; inserting or removing in the middle shifts
// subsequent entries.
//
// The collection holds one reference to every item. Item and ItemByKey
// return a new owning handle the caller must Release; At and AtKey return
// borrowed references for short-lived use.
//
//	c := collection.New[*Column]()
//	_ = c.AddKeyed("time", col, 0)
//	h := c.ItemByKey("time")
//	defer h.Release()
package collection
