package table

import (
	"fmt"

	"github.com/hupe1980/dci/handle"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// Record is a view of one row of a record-based table. It owns no data.
type Record struct {
	handle.RefCounted

	table *Table
	id    uint64
	row   int
}

// TypeName implements diag.Source.
func (r *Record) TypeName() string { return "Record" }

// Name implements diag.Source. Records are unnamed.
func (r *Record) Name() string { return "" }

// IsStale reports whether the record's row has been removed.
func (r *Record) IsStale() bool {
	return r.table == nil || !r.table.live.Contains(r.id)
}

// Table returns the owning table, or nil if the record is stale.
func (r *Record) Table() *Table {
	if r.IsStale() {
		return nil
	}
	return r.table
}

// Index returns the 1-based row index, or 0 if the record is stale.
func (r *Record) Index() int {
	if r.IsStale() {
		return 0
	}
	return r.row
}

func (r *Record) check() error {
	if r.IsStale() {
		return ErrStaleRecord
	}
	return nil
}

func (r *Record) column(col int) (*Variable, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	v := r.table.variables.At(col)
	if v == nil {
		return nil, fmt.Errorf("%w: column %d", ErrIndexOutOfRange, col)
	}
	return v, nil
}

// Value returns the value of column col. A stale record or unknown column
// yields a void Value and a report.
func (r *Record) Value(col int) value.Value {
	v, err := r.column(col)
	if err != nil {
		_ = r.table.report(r, err)
		return value.Void()
	}
	return v.Value(r.row)
}

// ValueByKey returns the value of the named column.
func (r *Record) ValueByKey(key string) value.Value {
	return r.Value(r.colIndex(key))
}

// SetValue stores val in column col.
func (r *Record) SetValue(col int, val value.Value) error {
	v, err := r.column(col)
	if err != nil {
		return r.table.report(r, err)
	}
	return v.SetValue(r.row, val)
}

// SetValueByKey stores val in the named column.
func (r *Record) SetValueByKey(key string, val value.Value) error {
	return r.SetValue(r.colIndex(key), val)
}

func (r *Record) colIndex(key string) int {
	if r.table == nil {
		return 0
	}
	return r.table.variables.IndexOf(key)
}

// Values returns the row as a Value vector with one element per column.
func (r *Record) Values() vector.Vector {
	out, _ := vector.New(value.TypeValue, 0)
	if err := r.check(); err != nil {
		_ = r.table.report(r, err)
		return out
	}
	for i, v := range r.table.variables.All() {
		_ = out.Set(i-1, v.Value(r.row))
	}
	return out
}

// SetValues writes the whole row. vals must hold one element per column and
// every element must fit its column; nothing is written otherwise.
func (r *Record) SetValues(vals vector.Vector) error {
	if err := r.check(); err != nil {
		return r.table.report(r, err)
	}
	t := r.table
	if vals.Len() != t.ColumnCount() {
		return t.report(r, fmt.Errorf("%w: %d values for %d columns", ErrLengthMismatch, vals.Len(), t.ColumnCount()))
	}
	for i, fd := range t.fieldDefs.All() {
		if err := fd.CanSetValue(vals.At(i - 1)); err != nil {
			return t.report(r, err)
		}
	}
	for i, v := range t.variables.All() {
		if err := v.values.Set(r.row-1, vals.At(i-1)); err != nil {
			return t.report(r, err)
		}
	}
	return nil
}

// ValueAsString renders the value of column col.
func (r *Record) ValueAsString(col int) string {
	v, err := r.column(col)
	if err != nil {
		_ = r.table.report(r, err)
		return ""
	}
	return v.ValueAsString(r.row)
}

// ValuesAsString renders the whole row.
func (r *Record) ValuesAsString() []string {
	if err := r.check(); err != nil {
		_ = r.table.report(r, err)
		return nil
	}
	out := make([]string, 0, r.table.ColumnCount())
	for _, v := range r.table.variables.All() {
		out = append(out, v.ValueAsString(r.row))
	}
	return out
}
