package format

import (
	"fmt"
	"strconv"

	"github.com/hupe1980/dci/vector"
)

// FormatEnum renders an enumeration index through allowed. Indices without
// an allowed value render as the number.
func FormatEnum(idx int64, allowed *vector.Vector) string {
	if allowed != nil && idx >= 0 && idx < int64(allowed.Len()) {
		return Default().Format(allowed.At(int(idx)), allowed.Type())
	}
	return strconv.FormatInt(idx, 10)
}

// ParseEnum returns the index of s in allowed. A numeric s within range is
// accepted as an index.
func ParseEnum(s string, allowed *vector.Vector) (int64, error) {
	if allowed != nil {
		f := Default()
		for i := range allowed.Len() {
			if f.Format(allowed.At(i), allowed.Type()) == s {
				return int64(i), nil
			}
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil && i >= 0 && i < int64(allowed.Len()) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not an allowed value", ErrParse, s)
}
