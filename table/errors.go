package table

import "github.com/hupe1980/dci/diag"

var (
	// ErrTypeMismatch is returned when a value's type does not fit a column.
	ErrTypeMismatch = diag.New(diag.KindBadArg, "type mismatch")
	// ErrIllegalTypeChange is returned for a disallowed data type transition.
	ErrIllegalTypeChange = diag.New(diag.KindBadArg, "illegal data type change")
	// ErrIndexOutOfRange is returned for row or column indices outside the table.
	ErrIndexOutOfRange = diag.New(diag.KindBadArg, "index out of range")
	// ErrNotRecordBased is returned for row operations on a non-record-based table.
	ErrNotRecordBased = diag.New(diag.KindBadArg, "table is not record-based")
	// ErrRecordBased is returned for per-column resizing on a record-based table.
	ErrRecordBased = diag.New(diag.KindBadArg, "table is record-based")
	// ErrLengthMismatch is returned when lengths do not line up.
	ErrLengthMismatch = diag.New(diag.KindBadArg, "length mismatch")
	// ErrReferenced is returned when an operation would invalidate handles
	// held outside the table.
	ErrReferenced = diag.New(diag.KindError, "object is referenced outside the table")
	// ErrStaleRecord is returned when a Record's row has been removed.
	ErrStaleRecord = diag.New(diag.KindBadArg, "record has been removed")
	// ErrDetached is returned when a column is no longer part of a table.
	ErrDetached = diag.New(diag.KindError, "column is not part of a table")
	// ErrInvalidName is returned for empty attribute names.
	ErrInvalidName = diag.New(diag.KindBadArg, "invalid name")
	// ErrNilTable is returned when a nil table is passed.
	ErrNilTable = diag.New(diag.KindBadArg, "nil table")
)
