package store

import "github.com/hupe1980/dci/diag"

var (
	// ErrNotFound is returned when no table of the given name is stored.
	ErrNotFound = diag.New(diag.KindBadPath, "table not found")
	// ErrInvalidName is returned for table names that cannot name a blob.
	ErrInvalidName = diag.New(diag.KindBadArg, "invalid table name")
	// ErrNilTable is returned when Save is given a nil table.
	ErrNilTable = diag.New(diag.KindBadArg, "nil table")
)
