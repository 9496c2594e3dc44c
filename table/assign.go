package table

import (
	"context"
	"fmt"

	"github.com/hupe1980/dci/vector"
)

// AssignFrom replaces t's schema, data, mode, name, description and
// attributes with those of src. Column data is shared copy-on-write.
//
// An empty table always accepts the assignment. A non-empty table refuses
// it, unchanged, while any of its columns, fields or records is referenced
// outside the table.
func (t *Table) AssignFrom(src *Table) error {
	return t.assignChecked(src, true)
}

// AssignSchemaFrom is AssignFrom without data: every column is empty and a
// record-based result has no records.
func (t *Table) AssignSchemaFrom(src *Table) error {
	return t.assignChecked(src, false)
}

func (t *Table) assignChecked(src *Table, withData bool) error {
	var err error
	switch {
	case src == nil:
		err = ErrNilTable
	case src == t:
	case t.referenced():
		err = fmt.Errorf("%w: cannot assign into %q", ErrReferenced, t.name)
	default:
		err = t.assign(src, withData)
	}
	t.opts.logger.LogAssign(context.Background(), !withData, err)
	return t.report(t, err)
}

func (t *Table) assign(src *Table, withData bool) error {
	t.clear()
	t.Object.copyFrom(&src.Object)
	t.recordBased = false

	for i, sfd := range src.fieldDefs.All() {
		idx, err := t.insertColumn(sfd.name, 0)
		if err != nil {
			t.clear()
			return err
		}
		fd, v := t.fieldDefs.At(idx), t.variables.At(idx)
		fd.copyFrom(sfd)

		v.values.Release()
		if withData {
			v.values = src.variables.At(i).values.Copy()
			continue
		}
		if v.values, err = vector.New(sfd.dataType, 0); err != nil {
			t.clear()
			return err
		}
	}

	if src.recordBased {
		t.recordBased = true
		t.recordCount = 0
		if withData {
			t.appendRecords(src.recordCount)
		}
	}
	return nil
}
