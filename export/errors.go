package export

import "github.com/hupe1980/dci/diag"

var (
	// ErrFormat is returned for input that is not a valid document.
	ErrFormat = diag.New(diag.KindBadArg, "invalid document")
	// ErrUnknownType is returned for an unknown column type name.
	ErrUnknownType = diag.New(diag.KindBadArg, "unknown data type")
)
