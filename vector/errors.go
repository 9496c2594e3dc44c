package vector

import (
	"math"

	"github.com/hupe1980/dci/diag"
)

// MaxLen is the largest supported vector length.
const MaxLen = math.MaxInt32

var (
	// ErrIndexOutOfRange is returned for indices outside the vector.
	ErrIndexOutOfRange = diag.New(diag.KindBadArg, "index out of range")
	// ErrTooLarge is returned when a length exceeds MaxLen.
	ErrTooLarge = diag.New(diag.KindBadArg, "length exceeds addressable size")
	// ErrTypeMismatch is returned when a value's type does not fit the vector.
	ErrTypeMismatch = diag.New(diag.KindBadArg, "type mismatch")
	// ErrInvalidType is returned for unknown data types.
	ErrInvalidType = diag.New(diag.KindBadArg, "invalid data type")
)
