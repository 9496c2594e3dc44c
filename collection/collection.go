package collection

import (
	"fmt"
	"iter"
	"slices"

	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/handle"
	"github.com/hupe1980/dci/internal/hash"
	"github.com/hupe1980/dci/text"
)

var (
	// ErrDuplicateKey is returned when a key is already registered.
	ErrDuplicateKey = diag.New(diag.KindBadArg, "duplicate key")
	// ErrKeyNotFound is returned when a key is not registered.
	ErrKeyNotFound = diag.New(diag.KindBadArg, "key not found")
	// ErrIndexOutOfRange is returned for positions outside 1..Count.
	ErrIndexOutOfRange = diag.New(diag.KindBadArg, "index out of range")
	// ErrNilItem is returned when adding an unbound item.
	ErrNilItem = diag.New(diag.KindBadArg, "nil item")
	// ErrNotCloneable is returned when a prototype cannot be cloned.
	ErrNotCloneable = diag.New(diag.KindNotImpl, "item is not cloneable")
)

// Cloner is implemented by items that can produce an independent copy.
type Cloner[T any] interface {
	Clone() (T, error)
}

type entry[T handle.Lifecycle] struct {
	key  text.Text
	hash uint64
	item handle.Handle[T]
	pos  int
}

func (e *entry[T]) keyed() bool { return !e.key.IsEmpty() }

// Reader is the read-only view of a Collection.
type Reader[T handle.Lifecycle] interface {
	Count() int
	At(idx int) T
	AtKey(key string) T
	Item(idx int) handle.Handle[T]
	ItemByKey(key string) handle.Handle[T]
	IndexOf(key string) int
	KeyOf(idx int) string
	Exists(key string) bool
	All() iter.Seq2[int, T]
}

// Collection is an ordered, 1-based container of items with optional unique
// keys. The zero value is empty and ready to use.
type Collection[T handle.Lifecycle] struct {
	entries []*entry[T]
	index   map[uint64][]*entry[T]
}

// New creates an empty collection.
func New[T handle.Lifecycle]() *Collection[T] {
	return &Collection[T]{}
}

// Count returns the number of items.
func (c *Collection[T]) Count() int {
	return len(c.entries)
}

// Add inserts item without a key at position pos. A pos of 0 or past the end
// appends.
func (c *Collection[T]) Add(item T, pos int) error {
	return c.AddKeyed("", item, pos)
}

// AddKeyed inserts item under key at position pos. An empty key registers no
// key. It fails if key is already registered.
func (c *Collection[T]) AddKeyed(key string, item T, pos int) error {
	var zero T
	if item == zero {
		return ErrNilItem
	}
	if key != "" && c.lookup(key) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	c.insert(key, handle.New(item), pos)
	return nil
}

// AddNew creates an item with newFn and inserts it under key (may be empty)
// at position pos. It returns an owning handle to the new item, or an
// unbound handle and an error.
func (c *Collection[T]) AddNew(key string, newFn func() (T, error), pos int) (handle.Handle[T], error) {
	if key != "" && c.lookup(key) != nil {
		return handle.Handle[T]{}, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	item, err := newFn()
	if err != nil {
		return handle.Handle[T]{}, err
	}
	if err := c.AddKeyed(key, item, pos); err != nil {
		return handle.Handle[T]{}, err
	}
	return handle.New(item), nil
}

// AddNewFrom inserts a clone of proto under key (may be empty) at position
// pos. proto must implement Cloner[T].
func (c *Collection[T]) AddNewFrom(key string, proto T, pos int) (handle.Handle[T], error) {
	cl, ok := any(proto).(Cloner[T])
	if !ok {
		return handle.Handle[T]{}, ErrNotCloneable
	}
	return c.AddNew(key, cl.Clone, pos)
}

func (c *Collection[T]) insert(key string, h handle.Handle[T], pos int) {
	e := &entry[T]{item: h}
	if key != "" {
		e.key = text.New(key)
		e.hash = e.key.Hash()
		if c.index == nil {
			c.index = make(map[uint64][]*entry[T])
		}
		c.index[e.hash] = append(c.index[e.hash], e)
	}

	if pos <= 0 || pos > len(c.entries) {
		e.pos = len(c.entries) + 1
		c.entries = append(c.entries, e)
		return
	}
	c.entries = slices.Insert(c.entries, pos-1, e)
	c.renumber(pos - 1)
}

func (c *Collection[T]) renumber(from int) {
	for i := from; i < len(c.entries); i++ {
		c.entries[i].pos = i + 1
	}
}

func (c *Collection[T]) lookup(key string) *entry[T] {
	if key == "" || c.index == nil {
		return nil
	}
	for _, e := range c.index[hash.String(key)] {
		if e.key.String() == key {
			return e
		}
	}
	return nil
}

func (c *Collection[T]) unindex(e *entry[T]) {
	if !e.keyed() {
		return
	}
	bucket := c.index[e.hash]
	bucket = slices.DeleteFunc(bucket, func(x *entry[T]) bool { return x == e })
	if len(bucket) == 0 {
		delete(c.index, e.hash)
	} else {
		c.index[e.hash] = bucket
	}
	e.key.Release()
}

func (c *Collection[T]) entryAt(idx int) *entry[T] {
	if idx < 1 || idx > len(c.entries) {
		return nil
	}
	return c.entries[idx-1]
}

// Remove deletes the item at idx and shifts subsequent items down.
func (c *Collection[T]) Remove(idx int) error {
	e := c.entryAt(idx)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, idx)
	}
	c.removeEntry(e)
	return nil
}

// RemoveKey deletes the item registered under key.
func (c *Collection[T]) RemoveKey(key string) error {
	e := c.lookup(key)
	if e == nil {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	c.removeEntry(e)
	return nil
}

func (c *Collection[T]) removeEntry(e *entry[T]) {
	i := e.pos - 1
	c.unindex(e)
	c.entries = slices.Delete(c.entries, i, i+1)
	c.renumber(i)
	e.item.Release()
}

// Clear removes every item.
func (c *Collection[T]) Clear() {
	entries := c.entries
	c.entries = nil
	c.index = nil
	for _, e := range entries {
		e.key.Release()
		e.item.Release()
	}
}

// Rekey changes the key of the item at idx. An empty key unregisters it.
func (c *Collection[T]) Rekey(idx int, key string) error {
	e := c.entryAt(idx)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, idx)
	}
	if key != "" {
		if other := c.lookup(key); other != nil {
			if other == e {
				return nil
			}
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
	}
	c.unindex(e)
	e.key, e.hash = text.Text{}, 0
	if key != "" {
		e.key = text.New(key)
		e.hash = e.key.Hash()
		if c.index == nil {
			c.index = make(map[uint64][]*entry[T])
		}
		c.index[e.hash] = append(c.index[e.hash], e)
	}
	return nil
}

// Exists reports whether key is registered.
func (c *Collection[T]) Exists(key string) bool {
	return c.lookup(key) != nil
}

// IndexOf returns the position of key, or 0 if it is not registered.
func (c *Collection[T]) IndexOf(key string) int {
	if e := c.lookup(key); e != nil {
		return e.pos
	}
	return 0
}

// KeyOf returns the key at idx, or "" if there is none.
func (c *Collection[T]) KeyOf(idx int) string {
	if e := c.entryAt(idx); e != nil {
		return e.key.String()
	}
	return ""
}

// At returns a borrowed reference to the item at idx, or the zero value.
func (c *Collection[T]) At(idx int) T {
	if e := c.entryAt(idx); e != nil {
		return e.item.Get()
	}
	var zero T
	return zero
}

// AtKey returns a borrowed reference to the item under key, or the zero value.
func (c *Collection[T]) AtKey(key string) T {
	if e := c.lookup(key); e != nil {
		return e.item.Get()
	}
	var zero T
	return zero
}

// Item returns an owning handle to the item at idx, or an unbound handle.
func (c *Collection[T]) Item(idx int) handle.Handle[T] {
	if e := c.entryAt(idx); e != nil {
		return e.item.Clone()
	}
	return handle.Handle[T]{}
}

// ItemByKey returns an owning handle to the item under key, or an unbound
// handle.
func (c *Collection[T]) ItemByKey(key string) handle.Handle[T] {
	if e := c.lookup(key); e != nil {
		return e.item.Clone()
	}
	return handle.Handle[T]{}
}

// All iterates over 1-based positions and borrowed items.
func (c *Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, e := range c.entries {
			if !yield(i+1, e.item.Get()) {
				return
			}
		}
	}
}

// Keys iterates over 1-based positions and keys ("" for unkeyed items).
func (c *Collection[T]) Keys() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, e := range c.entries {
			if !yield(i+1, e.key.String()) {
				return
			}
		}
	}
}
