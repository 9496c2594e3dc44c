package table

import (
	"fmt"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/handle"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// FieldDef describes a column: its data type, default value and the
// advisory min, max and allowed values. Min, max and allowed values are
// never enforced when cells are written.
type FieldDef struct {
	handle.RefCounted
	Object

	table        *Table
	variable     *Variable
	dataType     value.DataType
	defaultValue value.Value
	minValue     value.Value
	maxValue     value.Value
	allowed      vector.Vector
}

func newFieldDef(t *Table, name string) *FieldDef {
	fd := &FieldDef{table: t}
	fd.name = name
	fd.resetMetadata(value.TypeVoid)
	return fd
}

// allowedType is the element type of the allowed-values list: enumerations
// list their names, every other type lists values of its own type.
func allowedType(dt value.DataType) value.DataType {
	if dt == value.TypeEnumeration {
		return value.TypeString
	}
	return dt
}

func (fd *FieldDef) resetMetadata(dt value.DataType) {
	fd.dataType = dt
	fd.defaultValue.Release()
	fd.minValue.Release()
	fd.maxValue.Release()
	fd.defaultValue = value.Zero(dt)
	fd.minValue = value.Zero(dt)
	fd.maxValue = value.Zero(dt)
	fd.allowed.Release()
	fd.allowed, _ = vector.New(allowedType(dt), 0)
}

// TypeName implements diag.Source.
func (fd *FieldDef) TypeName() string { return "FieldDef" }

// Table returns the owning table, or nil once the column was removed.
func (fd *FieldDef) Table() *Table { return fd.table }

// Variable returns the column data paired with fd.
func (fd *FieldDef) Variable() *Variable { return fd.variable }

// SetName renames the column. Names are unique within a table.
func (fd *FieldDef) SetName(name string) error {
	if fd.table == nil {
		fd.name = name
		return nil
	}
	if err := fd.table.renameColumn(fd, name); err != nil {
		return fd.table.report(fd, err)
	}
	return nil
}

// DataType returns the column type.
func (fd *FieldDef) DataType() value.DataType { return fd.dataType }

// SetDataType changes the column type. The transition must be allowed by
// value.DataType.CanConvert. Changing to a different type resets every cell
// of the column, the default, min and max values to the new type's zero
// value and clears the allowed values. Values are not converted.
func (fd *FieldDef) SetDataType(dt value.DataType) error {
	if !fd.dataType.CanConvert(dt) {
		return fd.table.report(fd, fmt.Errorf("%w: %v to %v", ErrIllegalTypeChange, fd.dataType, dt))
	}
	if dt == fd.dataType {
		return nil
	}
	if v := fd.variable; v != nil {
		fresh, err := vector.New(dt, v.values.Len())
		if err != nil {
			return fd.table.report(fd, err)
		}
		v.values.Release()
		v.values = fresh
	}
	fd.resetMetadata(dt)
	return nil
}

// CanSetValue reports whether v may be stored in the column: its tag must
// match the column's storage type. Value columns accept any tag.
func (fd *FieldDef) CanSetValue(v value.Value) error {
	if !fd.dataType.Accepts(v.Type()) {
		return fmt.Errorf("%w: %v value for %v field %q", ErrTypeMismatch, v.Type(), fd.dataType, fd.name)
	}
	return nil
}

func (fd *FieldDef) setMeta(dst *value.Value, v value.Value) error {
	if err := fd.CanSetValue(v); err != nil {
		return fd.table.report(fd, err)
	}
	dst.Assign(v)
	return nil
}

// DefaultValue returns the value new rows receive.
func (fd *FieldDef) DefaultValue() value.Value { return fd.defaultValue.Copy() }

// SetDefaultValue sets the value new rows receive.
func (fd *FieldDef) SetDefaultValue(v value.Value) error { return fd.setMeta(&fd.defaultValue, v) }

// MinValue returns the advisory minimum.
func (fd *FieldDef) MinValue() value.Value { return fd.minValue.Copy() }

// SetMinValue sets the advisory minimum.
func (fd *FieldDef) SetMinValue(v value.Value) error { return fd.setMeta(&fd.minValue, v) }

// MaxValue returns the advisory maximum.
func (fd *FieldDef) MaxValue() value.Value { return fd.maxValue.Copy() }

// SetMaxValue sets the advisory maximum.
func (fd *FieldDef) SetMaxValue(v value.Value) error { return fd.setMeta(&fd.maxValue, v) }

// AllowedValues returns the advisory list of allowed values. For
// enumerations it holds the names of the enumeration members.
func (fd *FieldDef) AllowedValues() vector.Vector { return fd.allowed.Copy() }

// SetAllowedValues sets the advisory list of allowed values. Its type must
// equal the column type, or String for enumerations.
func (fd *FieldDef) SetAllowedValues(v vector.Vector) error {
	if want := allowedType(fd.dataType); v.Type() != want {
		return fd.table.report(fd, fmt.Errorf("%w: %v allowed values for %v field %q", ErrTypeMismatch, v.Type(), fd.dataType, fd.name))
	}
	fd.allowed.Release()
	fd.allowed = v.Copy()
	return nil
}

func (fd *FieldDef) copyFrom(src *FieldDef) {
	fd.Object.copyFrom(&src.Object)
	fd.resetMetadata(src.dataType)
	fd.defaultValue.Assign(src.defaultValue)
	fd.minValue.Assign(src.minValue)
	fd.maxValue.Assign(src.maxValue)
	fd.allowed.Release()
	fd.allowed = src.allowed.Copy()
}

func (fd *FieldDef) release() {
	fd.defaultValue.Release()
	fd.minValue.Release()
	fd.maxValue.Release()
	fd.allowed.Release()
	fd.attrs.Clear()
}

func (fd *FieldDef) save(w *binfmt.Writer) {
	fd.Object.save(w)
	w.PutUint8(uint8(fd.dataType))
	fd.defaultValue.Save(w)
	fd.minValue.Save(w)
	fd.maxValue.Save(w)
	fd.allowed.Save(w)
}

func (fd *FieldDef) load(r *binfmt.Reader) error {
	fd.Object.load(r)
	dt := value.DataType(r.Uint8())
	if err := r.Err(); err != nil {
		return err
	}
	if !dt.Valid() {
		return fmt.Errorf("%w: field %q has invalid type %d", binfmt.ErrCorrupt, fd.name, dt)
	}
	fd.resetMetadata(dt)
	for _, dst := range []*value.Value{&fd.defaultValue, &fd.minValue, &fd.maxValue} {
		v := value.Load(r)
		if err := r.Err(); err != nil {
			return err
		}
		if err := fd.CanSetValue(v); err != nil {
			return fmt.Errorf("%w: %v", binfmt.ErrCorrupt, err)
		}
		dst.Release()
		*dst = v
	}
	allowed, err := vector.Load(r)
	if err != nil {
		return err
	}
	if allowed.Type() != allowedType(dt) {
		return fmt.Errorf("%w: field %q has %v allowed values", binfmt.ErrCorrupt, fd.name, allowed.Type())
	}
	fd.allowed.Release()
	fd.allowed = allowed
	return nil
}
