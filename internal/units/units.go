// Package units provides shared rounding and formatting helpers for
// presentation values. Engine-internal math stays at full precision;
// rounding happens once, at the reporting boundary, so repeated
// analyses present stable numbers.
package units

import (
	"fmt"
	"math"
)

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// Round1 rounds to one decimal place, the presentation precision for
// durations and comparison deltas.
func Round1(v float64) float64 { return Round(v, 1) }

// Round2 rounds to two decimal places, used for scores and ratios.
func Round2(v float64) float64 { return Round(v, 2) }

// Round6 rounds to six decimal places, used for raw normalized-space
// metrics where meaningful variation is small.
func Round6(v float64) float64 { return Round(v, 6) }

// FormatSeconds renders a duration value for logs and labels.
func FormatSeconds(v float64) string {
	return fmt.Sprintf("%.2fs", v)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
