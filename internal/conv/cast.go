package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a decoded value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// Uint64ToInt converts v to int, failing when it exceeds math.MaxInt.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d does not fit int", ErrOverflow, v)
	}
	return int(v), nil
}

// CheckedLen validates a length read from a stream against the number of
// elements that the remaining bytes can possibly hold. A negative remaining
// disables the bound.
func CheckedLen(v uint64, remaining int64) (int, error) {
	n, err := Uint64ToInt(v)
	if err != nil {
		return 0, err
	}
	if remaining >= 0 && int64(n) > remaining {
		return 0, fmt.Errorf("length %d exceeds remaining %d", n, remaining)
	}
	return n, nil
}
