package table

import (
	"fmt"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/collection"
	"github.com/hupe1980/dci/handle"
)

// Attribute is a named string property of a table or field.
type Attribute struct {
	handle.RefCounted
	name  string
	value string
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// Value returns the attribute value.
func (a *Attribute) Value() string { return a.value }

// Object holds the name, description and attributes shared by tables and
// field definitions.
type Object struct {
	name        string
	description string
	attrs       collection.Collection[*Attribute]
}

// Name returns the object name.
func (o *Object) Name() string { return o.name }

// Description returns the object description.
func (o *Object) Description() string { return o.description }

// SetDescription sets the object description.
func (o *Object) SetDescription(d string) { o.description = d }

// Attributes returns a read-only view of the attributes.
func (o *Object) Attributes() collection.Reader[*Attribute] { return &o.attrs }

// Attribute returns the value of the named attribute.
func (o *Object) Attribute(name string) (string, bool) {
	a := o.attrs.AtKey(name)
	if a == nil {
		return "", false
	}
	return a.value, true
}

// SetAttribute creates or updates the named attribute.
func (o *Object) SetAttribute(name, val string) error {
	if name == "" {
		return ErrInvalidName
	}
	if a := o.attrs.AtKey(name); a != nil {
		a.value = val
		return nil
	}
	return o.attrs.AddKeyed(name, &Attribute{name: name, value: val}, 0)
}

// RemoveAttribute deletes the named attribute.
func (o *Object) RemoveAttribute(name string) error {
	return o.attrs.RemoveKey(name)
}

func (o *Object) copyFrom(src *Object) {
	o.name = src.name
	o.description = src.description
	o.attrs.Clear()
	for _, a := range src.attrs.All() {
		_ = o.attrs.AddKeyed(a.name, &Attribute{name: a.name, value: a.value}, 0)
	}
}

func (o *Object) save(w *binfmt.Writer) {
	w.PutString(o.name)
	w.PutString(o.description)
	w.PutLen(o.attrs.Count())
	for _, a := range o.attrs.All() {
		w.PutString(a.name)
		w.PutString(a.value)
	}
}

func (o *Object) load(r *binfmt.Reader) {
	o.name = r.Str()
	o.description = r.Str()
	n := r.Len(2)
	o.attrs.Clear()
	for range n {
		name, val := r.Str(), r.Str()
		if r.Err() != nil {
			return
		}
		if err := o.SetAttribute(name, val); err != nil {
			r.Fail(fmt.Errorf("%w: attribute %q: %v", binfmt.ErrCorrupt, name, err))
			return
		}
	}
}
