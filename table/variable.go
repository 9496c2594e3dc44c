package table

import (
	"fmt"

	"github.com/hupe1980/dci/format"
	"github.com/hupe1980/dci/handle"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// Variable is the data of one column. Rows are 1-based.
type Variable struct {
	handle.RefCounted

	table    *Table
	fieldDef *FieldDef
	values   vector.Vector
}

// TypeName implements diag.Source.
func (v *Variable) TypeName() string { return "Variable" }

// Name returns the column name.
func (v *Variable) Name() string {
	if v.fieldDef == nil {
		return ""
	}
	return v.fieldDef.name
}

// Table returns the owning table, or nil once the column was removed.
func (v *Variable) Table() *Table { return v.table }

// FieldDef returns the column definition.
func (v *Variable) FieldDef() *FieldDef { return v.fieldDef }

// DataType returns the column type.
func (v *Variable) DataType() value.DataType { return v.values.Type() }

// Len returns the number of values in the column.
func (v *Variable) Len() int { return v.values.Len() }

// Values returns the column data. The result shares storage with the column
// until either side is modified.
func (v *Variable) Values() vector.Vector { return v.values.Copy() }

// SetValues replaces the column data. The vector type must equal the
// column type; in record-based tables its length must equal RecordCount.
func (v *Variable) SetValues(vals vector.Vector) error {
	if vals.Type() != v.DataType() {
		return v.table.report(v, fmt.Errorf("%w: %v vector for %v column %q", ErrTypeMismatch, vals.Type(), v.DataType(), v.Name()))
	}
	if t := v.table; t != nil && t.recordBased && vals.Len() != t.recordCount {
		return t.report(v, fmt.Errorf("%w: %d values for %d records", ErrLengthMismatch, vals.Len(), t.recordCount))
	}
	v.values.Release()
	v.values = vals.Copy()
	return nil
}

// ReDim resizes the column to n values. New values are the field's default.
// Record-based tables resize all columns together through Table.ReDim.
func (v *Variable) ReDim(n int) error {
	if t := v.table; t != nil && t.recordBased {
		return t.report(v, fmt.Errorf("%w: use Table.ReDim", ErrRecordBased))
	}
	var err error
	if v.fieldDef != nil {
		err = v.values.ReDimWith(n, v.fieldDef.defaultValue)
	} else {
		err = v.values.ReDim(n)
	}
	if err != nil {
		return v.table.report(v, err)
	}
	return nil
}

// Value returns the value at row, or the zero value of the column type if
// row is out of range.
func (v *Variable) Value(row int) value.Value {
	return v.values.At(row - 1)
}

// SetValue stores val at row. The value's tag must match the column type.
// Non-record-based columns grow to accommodate row; record-based columns
// reject rows past RecordCount.
func (v *Variable) SetValue(row int, val value.Value) error {
	if err := v.checkRow(row); err != nil {
		return v.table.report(v, err)
	}
	if v.fieldDef != nil {
		if err := v.fieldDef.CanSetValue(val); err != nil {
			return v.table.report(v, err)
		}
	}
	if err := v.values.Set(row-1, val); err != nil {
		return v.table.report(v, err)
	}
	return nil
}

func (v *Variable) checkRow(row int) error {
	if row < 1 {
		return fmt.Errorf("%w: row %d", ErrIndexOutOfRange, row)
	}
	if t := v.table; t != nil && t.recordBased && row > t.recordCount {
		return fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, row, t.recordCount)
	}
	return nil
}

// ValueAsString renders the value at row through the table's formatter.
// Enumeration cells render as the allowed value they index.
func (v *Variable) ValueAsString(row int) string {
	return v.formatCell(v.Value(row))
}

// ValuesAsString renders every value of the column.
func (v *Variable) ValuesAsString() []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = v.formatCell(v.values.At(i))
	}
	return out
}

// SetValueAsString parses s through the table's formatter and stores it at row.
func (v *Variable) SetValueAsString(row int, s string) error {
	val, err := v.parseCell(s)
	if err != nil {
		return v.table.report(v, err)
	}
	return v.SetValue(row, val)
}

func (v *Variable) formatter() format.Formatter {
	if v.table == nil {
		return format.Default()
	}
	return v.table.opts.formatter
}

func (v *Variable) formatCell(val value.Value) string {
	if fd := v.fieldDef; fd != nil && fd.dataType == value.TypeEnumeration && val.Type() == value.TypeInt {
		return format.FormatEnum(val.AsInt(), &fd.allowed)
	}
	return v.formatter().Format(val, v.DataType())
}

func (v *Variable) parseCell(s string) (value.Value, error) {
	if fd := v.fieldDef; fd != nil && fd.dataType == value.TypeEnumeration {
		idx, err := format.ParseEnum(s, &fd.allowed)
		if err != nil {
			return value.Void(), err
		}
		return value.Int(idx), nil
	}
	return v.formatter().Parse(s, v.DataType())
}
