// Package table implements tables of typed columns.
//
// A Table owns three aligned, 1-based collections: FieldDefs (column
// metadata), Variables (column data) and, in record-based mode, Records
// (row views). Column i of the Variables collection belongs to FieldDef i
// and to field i of every Record.
//
// # Modes
//
// In record-based mode every column holds exactly RecordCount values and
// rows can be addressed through Records. In non-record-based mode columns
// are independent vectors of any length and the Records collection is
// empty. SetRecordBased(true) succeeds only when all columns have the same
// length.
//
// # Ownership
//
// The table keeps one reference to each FieldDef, Variable and Record.
// Accessors such as Column, FieldDef and Record return owning handles the
// caller must Release. Operations that would invalidate a handle held by a
// caller (AssignFrom, RemoveColumn, shrinking ReDim, Load) fail while any
// such handle is outstanding. Back-references (Variable.Table,
// Variable.FieldDef, Record.Table) are plain pointers that do not own.
//
// A Record is a view of one row. Once its row is removed the Record is
// stale and every access fails with ErrStaleRecord.
//
// # Errors
//
// Failing operations return an error and push it to the table's
// diag.Reporter. Reads that have a default (out-of-range cells, stale
// records) return a void or zero Value.
//
//	latch := diag.NewLatch()
//	tbl := table.New(table.WithReporter(latch))
//	_ = tbl.ReDim(0, 2)
//	fd := tbl.FieldDef(1)
//	_ = fd.Get().SetDataType(value.TypeInt)
//	fd.Release()
package table
