package table

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/dci/collection"
	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/format"
	"github.com/hupe1980/dci/handle"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// Table is a set of typed columns, optionally organized in records.
// A Table is not safe for concurrent use.
type Table struct {
	Object

	opts        options
	recordBased bool
	recordCount int
	fieldDefs   collection.Collection[*FieldDef]
	variables   collection.Collection[*Variable]
	records     collection.Collection[*Record]

	// live holds the ids of all current records; a Record whose id is
	// missing is stale. Ids are 64-bit and never reused.
	live   *roaring64.Bitmap
	nextID uint64
}

// New creates an empty table.
func New(optFns ...Option) *Table {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newWithOptions(opts)
}

func newWithOptions(opts options) *Table {
	t := &Table{
		opts:        opts,
		recordBased: opts.recordBased,
		live:        roaring64.New(),
	}
	t.name = opts.name
	return t
}

// TypeName implements diag.Source.
func (t *Table) TypeName() string { return "Table" }

// SetName sets the table name.
func (t *Table) SetName(name string) { t.name = name }

// Reporter returns the sink for failure reports.
func (t *Table) Reporter() diag.Reporter { return t.opts.reporter }

// Logger returns the table logger.
func (t *Table) Logger() *diag.Logger { return t.opts.logger }

// Formatter returns the formatter used by the string views.
func (t *Table) Formatter() format.Formatter { return t.opts.formatter }

// report pushes err to the reporter and returns it. It is safe on a nil
// table.
func (t *Table) report(src diag.Source, err error) error {
	if t != nil && err != nil {
		diag.ReportError(t.opts.reporter, src, err)
	}
	return err
}

// IsRecordBased reports the table mode.
func (t *Table) IsRecordBased() bool { return t.recordBased }

// RecordCount returns the number of records, or 0 if the table is not
// record-based.
func (t *Table) RecordCount() int {
	if !t.recordBased {
		return 0
	}
	return t.recordCount
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return t.variables.Count() }

// SetRecordBased switches the mode. Enabling it requires all columns to have
// the same length, which becomes RecordCount. Disabling it keeps the column
// data and invalidates all records.
func (t *Table) SetRecordBased(on bool) error {
	if on == t.recordBased {
		return nil
	}
	if !on {
		t.clearRecords()
		t.recordBased = false
		t.recordCount = 0
		return nil
	}

	n := -1
	for _, v := range t.variables.All() {
		switch {
		case n < 0:
			n = v.Len()
		case v.Len() != n:
			return t.report(t, fmt.Errorf("%w: column %q has %d values, expected %d", ErrLengthMismatch, v.Name(), v.Len(), n))
		}
	}
	n = max(n, 0)
	t.recordBased = true
	t.recordCount = 0
	t.appendRecords(n)
	return nil
}

// ReDim resizes the table to noRecs records and noCols columns.
//
// Removed columns must not be referenced outside the table. Added columns
// are Void columns named "" holding void values. In record-based tables
// every column is resized to noRecs; new rows receive each field's default
// value. noRecs is ignored for non-record-based tables.
func (t *Table) ReDim(noRecs, noCols int) error {
	err := t.redim(noRecs, noCols)
	t.opts.logger.LogReDim(context.Background(), noRecs, noCols, err)
	return t.report(t, err)
}

func (t *Table) redim(noRecs, noCols int) error {
	if noRecs < 0 || noCols < 0 {
		return fmt.Errorf("%w: ReDim(%d, %d)", ErrIndexOutOfRange, noRecs, noCols)
	}
	if noRecs > vector.MaxLen {
		return fmt.Errorf("%w: %d records", vector.ErrTooLarge, noRecs)
	}
	for i := noCols + 1; i <= t.ColumnCount(); i++ {
		if t.columnReferenced(i) {
			return fmt.Errorf("%w: column %d", ErrReferenced, i)
		}
	}

	for t.ColumnCount() > noCols {
		t.removeColumnAt(t.ColumnCount())
	}
	for t.ColumnCount() < noCols {
		if _, err := t.insertColumn("", 0); err != nil {
			return err
		}
	}

	if !t.recordBased {
		return nil
	}
	switch {
	case noRecs < t.recordCount:
		for _, v := range t.variables.All() {
			if err := v.values.ReDim(noRecs); err != nil {
				return err
			}
		}
		t.truncateRecords(noRecs)
	case noRecs > t.recordCount:
		for i, v := range t.variables.All() {
			if err := v.values.ReDimWith(noRecs, t.fieldDefs.At(i).defaultValue); err != nil {
				return err
			}
		}
		t.appendRecords(noRecs - t.recordCount)
	}
	return nil
}

// AddColumn inserts a Void column named key at position pos (0 or past the
// end appends) and returns its index. In record-based tables the column
// holds RecordCount void values.
func (t *Table) AddColumn(key string, pos int) (int, error) {
	idx, err := t.insertColumn(key, pos)
	if err != nil {
		return 0, t.report(t, err)
	}
	return idx, nil
}

func (t *Table) insertColumn(key string, pos int) (int, error) {
	if key != "" && t.fieldDefs.Exists(key) {
		return 0, fmt.Errorf("%w: %q", collection.ErrDuplicateKey, key)
	}
	n := 0
	if t.recordBased {
		n = t.recordCount
	}
	vals, err := vector.New(value.TypeVoid, n)
	if err != nil {
		return 0, err
	}
	fd := newFieldDef(t, key)
	v := &Variable{table: t, fieldDef: fd, values: vals}
	fd.variable = v
	v.SetOnDestroy(func() { v.values.Release() })
	fd.SetOnDestroy(fd.release)

	if pos <= 0 || pos > t.ColumnCount() {
		pos = t.ColumnCount() + 1
	}
	if err := t.fieldDefs.AddKeyed(key, fd, pos); err != nil {
		return 0, err
	}
	if err := t.variables.AddKeyed(key, v, pos); err != nil {
		_ = t.fieldDefs.Remove(pos)
		return 0, err
	}
	return pos, nil
}

// RemoveColumn deletes column idx. It fails while the column's Variable or
// FieldDef is referenced outside the table.
func (t *Table) RemoveColumn(idx int) error {
	if idx < 1 || idx > t.ColumnCount() {
		return t.report(t, fmt.Errorf("%w: column %d", ErrIndexOutOfRange, idx))
	}
	if t.columnReferenced(idx) {
		return t.report(t, fmt.Errorf("%w: column %d", ErrReferenced, idx))
	}
	t.removeColumnAt(idx)
	return nil
}

// RemoveColumnByKey deletes the named column.
func (t *Table) RemoveColumnByKey(key string) error {
	idx := t.ColumnIndex(key)
	if idx == 0 {
		return t.report(t, fmt.Errorf("%w: %q", collection.ErrKeyNotFound, key))
	}
	return t.RemoveColumn(idx)
}

func (t *Table) columnReferenced(idx int) bool {
	return t.variables.At(idx).RefCount() > 1 || t.fieldDefs.At(idx).RefCount() > 1
}

func (t *Table) removeColumnAt(idx int) {
	fd, v := t.fieldDefs.At(idx), t.variables.At(idx)
	fd.table, v.table = nil, nil
	_ = t.variables.Remove(idx)
	_ = t.fieldDefs.Remove(idx)
}

func (t *Table) renameColumn(fd *FieldDef, name string) error {
	idx := 0
	for i, f := range t.fieldDefs.All() {
		if f == fd {
			idx = i
			break
		}
	}
	if idx == 0 {
		return ErrDetached
	}
	if err := t.fieldDefs.Rekey(idx, name); err != nil {
		return err
	}
	if err := t.variables.Rekey(idx, name); err != nil {
		_ = t.fieldDefs.Rekey(idx, fd.name)
		return err
	}
	fd.name = name
	return nil
}

// ColumnIndex returns the index of the named column, or 0.
func (t *Table) ColumnIndex(key string) int { return t.variables.IndexOf(key) }

// Column returns an owning handle to column idx, or an unbound handle.
func (t *Table) Column(idx int) handle.Handle[*Variable] { return t.variables.Item(idx) }

// ColumnByKey returns an owning handle to the named column, or an unbound
// handle.
func (t *Table) ColumnByKey(key string) handle.Handle[*Variable] { return t.variables.ItemByKey(key) }

// FieldDef returns an owning handle to the definition of column idx, or an
// unbound handle.
func (t *Table) FieldDef(idx int) handle.Handle[*FieldDef] { return t.fieldDefs.Item(idx) }

// FieldDefByKey returns an owning handle to the named column definition, or
// an unbound handle.
func (t *Table) FieldDefByKey(key string) handle.Handle[*FieldDef] { return t.fieldDefs.ItemByKey(key) }

// Record returns an owning handle to record idx, or an unbound handle.
func (t *Table) Record(idx int) handle.Handle[*Record] { return t.records.Item(idx) }

// Variables returns a read-only view of the columns.
func (t *Table) Variables() collection.Reader[*Variable] { return &t.variables }

// FieldDefs returns a read-only view of the column definitions.
func (t *Table) FieldDefs() collection.Reader[*FieldDef] { return &t.fieldDefs }

// Records returns a read-only view of the records. It is empty for
// non-record-based tables.
func (t *Table) Records() collection.Reader[*Record] { return &t.records }

// AddRecord inserts a row at position pos (0 or past the end appends) and
// returns its index. Each cell receives its field's default value.
func (t *Table) AddRecord(pos int) (int, error) {
	if !t.recordBased {
		return 0, t.report(t, ErrNotRecordBased)
	}
	if t.recordCount >= vector.MaxLen {
		return 0, t.report(t, fmt.Errorf("%w: %d records", vector.ErrTooLarge, t.recordCount+1))
	}
	if pos <= 0 || pos > t.recordCount {
		pos = t.recordCount + 1
	}
	for i, v := range t.variables.All() {
		if err := v.values.Insert(pos-1, t.fieldDefs.At(i).defaultValue); err != nil {
			return 0, t.report(t, err)
		}
	}
	t.insertRecord(pos)
	return pos, nil
}

// RemoveRecord deletes row idx. The Record for that row becomes stale.
func (t *Table) RemoveRecord(idx int) error {
	if !t.recordBased {
		return t.report(t, ErrNotRecordBased)
	}
	if idx < 1 || idx > t.recordCount {
		return t.report(t, fmt.Errorf("%w: record %d", ErrIndexOutOfRange, idx))
	}
	for _, v := range t.variables.All() {
		if err := v.values.Remove(idx - 1); err != nil {
			return t.report(t, err)
		}
	}
	rec := t.records.At(idx)
	t.live.Remove(rec.id)
	_ = t.records.Remove(idx)
	t.recordCount--
	t.renumberRecords(idx)
	return nil
}

func (t *Table) newRecord(row int) *Record {
	r := &Record{table: t, id: t.nextID, row: row}
	t.live.Add(t.nextID)
	t.nextID++
	return r
}

func (t *Table) insertRecord(pos int) {
	_ = t.records.Add(t.newRecord(pos), pos)
	t.recordCount++
	t.renumberRecords(pos + 1)
}

func (t *Table) appendRecords(n int) {
	for range n {
		t.recordCount++
		_ = t.records.Add(t.newRecord(t.recordCount), 0)
	}
}

func (t *Table) truncateRecords(n int) {
	for t.records.Count() > n {
		last := t.records.Count()
		t.live.Remove(t.records.At(last).id)
		_ = t.records.Remove(last)
	}
	t.recordCount = n
}

func (t *Table) clearRecords() {
	t.live.Clear()
	t.records.Clear()
}

func (t *Table) renumberRecords(from int) {
	for i := from; i <= t.records.Count(); i++ {
		t.records.At(i).row = i
	}
}

// Value returns the cell at row and column col, or a void Value if the
// column does not exist. Rows out of range yield the column type's zero
// value.
func (t *Table) Value(row, col int) value.Value {
	v := t.variables.At(col)
	if v == nil {
		return value.Void()
	}
	return v.Value(row)
}

// ValueByKey returns the cell at row in the named column.
func (t *Table) ValueByKey(row int, key string) value.Value {
	return t.Value(row, t.ColumnIndex(key))
}

// SetValue stores val at row and column col.
func (t *Table) SetValue(row, col int, val value.Value) error {
	v := t.variables.At(col)
	if v == nil {
		return t.report(t, fmt.Errorf("%w: column %d", ErrIndexOutOfRange, col))
	}
	return v.SetValue(row, val)
}

// SetValueByKey stores val at row in the named column.
func (t *Table) SetValueByKey(row int, key string, val value.Value) error {
	idx := t.ColumnIndex(key)
	if idx == 0 {
		return t.report(t, fmt.Errorf("%w: %q", collection.ErrKeyNotFound, key))
	}
	return t.SetValue(row, idx, val)
}

// ValueAsString renders the cell at row and column col.
func (t *Table) ValueAsString(row, col int) string {
	v := t.variables.At(col)
	if v == nil {
		return ""
	}
	return v.ValueAsString(row)
}

// referenced reports whether any column, field or record is held outside
// the table.
func (t *Table) referenced() bool {
	for i := 1; i <= t.ColumnCount(); i++ {
		if t.columnReferenced(i) {
			return true
		}
	}
	for _, r := range t.records.All() {
		if r.RefCount() > 1 {
			return true
		}
	}
	return false
}

// Clear removes all columns and records. It fails while any of them is
// referenced outside the table.
func (t *Table) Clear() error {
	if t.referenced() {
		return t.report(t, ErrReferenced)
	}
	t.clear()
	return nil
}

func (t *Table) clear() {
	t.clearRecords()
	for t.ColumnCount() > 0 {
		t.removeColumnAt(t.ColumnCount())
	}
	t.recordCount = 0
}
