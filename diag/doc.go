// Package diag provides the diagnostics used by every dci package: error
// kinds, the error type carrying them, the error reporting collaborator and
// structured logging.
//
// # Error kinds
//
// Every failure is classified with a Kind:
//
//   - KindOK: no error
//   - KindError: generic failure
//   - KindBadArg: illegal argument (type mismatch, out-of-range index, duplicate key)
//   - KindBadPath: bad path supplied
//   - KindNotImpl: not implemented
//   - KindBadVersion: binary format version mismatch
//   - KindCantLoadLib: a library could not be loaded
//   - KindCantCreateObj: an object could not be created
//
// # Reporting
//
// Operations return Go errors. In addition, when a failure carries more
// information than the error value conveys to a caller that only checks for
// nil, it is pushed to a Reporter together with the failing object:
//
//	latch := diag.NewLatch()
//	tbl := table.New(table.WithReporter(latch))
//	if err := tbl.SetRecordBased(true); err != nil {
//	    fmt.Println(latch.Kind(), latch.Description())
//	}
//
// The core never reads a Reporter back. Read accessors with a defined
// default-on-mismatch behavior do not report.
package diag
