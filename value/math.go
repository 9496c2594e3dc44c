package value

import "math"

// NaN returns an IEEE-754 quiet NaN.
func NaN() float64 { return math.NaN() }

// IsNaN reports whether f is NaN.
func IsNaN(f float64) bool { return math.IsNaN(f) }

// Inf returns positive infinity.
func Inf() float64 { return math.Inf(1) }

// NegInf returns negative infinity.
func NegInf() float64 { return math.Inf(-1) }

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
