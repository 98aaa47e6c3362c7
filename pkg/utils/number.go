package utils

import (
	"math"
	"strconv"
)

// Finite reports whether f is a usable number (not NaN, not an infinity).
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FinitePtr reports whether p points at a finite number.
func FinitePtr(p *float64) bool {
	return p != nil && Finite(*p)
}

// TryDivide returns a/b, or no value when either operand is non-finite
// or b is zero.
func TryDivide(a, b float64) (float64, bool) {
	if !Finite(a) || !Finite(b) || b == 0 {
		return 0, false
	}
	return a / b, true
}

// TryPercentMove returns the percentage move from base to current,
// or no value when either input is non-finite or base is zero.
func TryPercentMove(current, base float64) (float64, bool) {
	ratio, ok := TryDivide(current-base, base)
	if !ok {
		return 0, false
	}
	return ratio * 100, true
}

// RoundPct rounds a ratio expressed as a percentage to the nearest integer.
func RoundPct(pct float64) int {
	return int(math.Round(pct))
}

// ClampPct clamps an integer percentage to [0, 100].
func ClampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatNumber renders f in its shortest exact decimal form ("10", "150.5").
// Used wherever a numeric field becomes part of a composite string key, so
// that 10 and 10.0 produce the same text.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
