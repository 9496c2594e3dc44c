package testutil

import (
	"fmt"
	"strings"

	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// AllTypes lists every column type in code order.
var AllTypes = []value.DataType{
	value.TypeVoid, value.TypeDouble, value.TypeInt, value.TypeString,
	value.TypeDateTime, value.TypeEnumeration, value.TypeValue, value.TypeByte,
}

// EnumNames are the allowed values of generated enumeration columns.
var EnumNames = []string{"low", "medium", "high"}

// TableSpec describes a random table.
type TableSpec struct {
	Name    string
	Records int
	// Types gives one column per entry. Columns are named after their type
	// and position, e.g. "int3".
	Types []value.DataType
	// MissingRate is the probability that a cell keeps its default value.
	MissingRate float64
	// Skew draws Int and String cells from a small Zipfian vocabulary when
	// greater than zero.
	Skew float64
	// Options are passed to table.New.
	Options []table.Option
}

// ColumnName returns the generated name of column col (1-based).
func ColumnName(dt value.DataType, col int) string {
	return fmt.Sprintf("%s%d", strings.ToLower(dt.String()), col)
}

// Table builds a record-based table filled according to spec.
func (r *RNG) Table(spec TableSpec) (*table.Table, error) {
	opts := append([]table.Option{table.WithName(spec.Name), table.WithRecordBased(true)}, spec.Options...)
	t := table.New(opts...)
	for i, dt := range spec.Types {
		if _, err := t.AddColumn(ColumnName(dt, i+1), 0); err != nil {
			return nil, err
		}
		if err := setup(t.FieldDefs().At(i+1), dt); err != nil {
			return nil, err
		}
	}
	if err := t.ReDim(spec.Records, len(spec.Types)); err != nil {
		return nil, err
	}

	for col, dt := range spec.Types {
		present := r.Present(spec.Records, spec.MissingRate)
		for row := 1; row <= spec.Records; row++ {
			if !present[row-1] {
				continue
			}
			v, ok := r.cell(dt, spec.Skew)
			if !ok {
				continue
			}
			if err := t.SetValue(row, col+1, v); err != nil {
				return nil, fmt.Errorf("testutil: cell %d,%d: %w", row, col+1, err)
			}
		}
	}
	return t, nil
}

func setup(fd *table.FieldDef, dt value.DataType) error {
	if err := fd.SetDataType(dt); err != nil {
		return err
	}
	if dt != value.TypeEnumeration {
		return nil
	}
	vals := make([]value.Value, len(EnumNames))
	for i, n := range EnumNames {
		vals[i] = value.String(n)
	}
	names, err := vector.FromValues(value.TypeString, vals...)
	if err != nil {
		return err
	}
	defer names.Release()
	return fd.SetAllowedValues(names)
}

// Value returns a random value storable in a column of type dt. Void
// columns hold no values and yield false.
func (r *RNG) Value(dt value.DataType) (value.Value, bool) {
	return r.cell(dt, 0)
}

func (r *RNG) cell(dt value.DataType, skew float64) (value.Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch dt {
	case value.TypeDouble:
		return value.Double(r.rand.NormFloat64() * 1000), true
	case value.TypeInt:
		if skew > 0 {
			return value.Int(int64(r.zipfLocked(16, skew))), true
		}
		return value.Int(r.rand.Int63n(1<<40) - 1<<39), true
	case value.TypeString:
		if skew > 0 {
			return value.String(fmt.Sprintf("w%d", r.zipfLocked(16, skew))), true
		}
		return value.String(r.stringLocked(1 + r.rand.Intn(12))), true
	case value.TypeDateTime:
		// Days since 1899-12-30 between 1990 and 2040.
		return value.Double(32874 + r.rand.Float64()*18262), true
	case value.TypeEnumeration:
		return value.Int(int64(r.rand.Intn(len(EnumNames)))), true
	case value.TypeByte:
		return value.Byte(uint8(r.rand.Intn(256))), true //nolint:gosec // bounded by Intn
	case value.TypeValue:
		switch r.rand.Intn(3) {
		case 0:
			return value.Int(r.rand.Int63n(1000)), true
		case 1:
			return value.Double(r.rand.Float64()), true
		default:
			return value.String(r.stringLocked(4)), true
		}
	default:
		return value.Void(), false
	}
}
