package format

import (
	"math"
	"time"
)

// oleEpoch is day zero of the DateTime representation.
var oleEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const dayDuration = 24 * time.Hour

// FromTime converts t to days since 1899-12-30 UTC.
func FromTime(t time.Time) float64 {
	d := t.UTC().Sub(oleEpoch)
	days := math.Floor(d.Hours() / 24)
	rem := d - time.Duration(days)*dayDuration
	return days + float64(rem)/float64(dayDuration)
}

// ToTime converts days since 1899-12-30 UTC to a time, rounded to the
// millisecond.
func ToTime(days float64) time.Time {
	whole := math.Floor(days)
	frac := days - whole
	t := oleEpoch.AddDate(0, 0, int(whole))
	return t.Add(time.Duration(math.Round(frac*float64(dayDuration/time.Millisecond))) * time.Millisecond)
}
