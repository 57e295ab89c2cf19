// Package timemath holds the pure time-accounting rules: converting a
// (start, end) instant pair into raw minutes, quarter-hour rounded minutes,
// and a two-decimal hour string. Every write path that sets duration fields
// goes through Compute so the rounding rules live in exactly one place.
package timemath

import (
	"fmt"
	"math"
	"time"
)

// RoundingUnitMinutes is the billing granularity
const RoundingUnitMinutes = 15

// Compute converts a (start, end) pair into the three duration fields stored
// on an entry.
//
// Minutes is floor((end-start) in seconds / 60). Negative durations are not
// clamped here; callers are responsible for ensuring end >= start (manual
// entry wraps overnight ranges before calling).
//
// RoundedMinutes is minutes rounded to the nearest quarter hour, halves
// rounding up (away from zero), then floored at 0.
//
// RoundedHours is roundedMinutes/60 rendered with exactly two decimal digits.
func Compute(start, end time.Time) (minutes, roundedMinutes int, roundedHours string) {
	minutes = int(math.Floor(end.Sub(start).Seconds() / 60.0))
	roundedMinutes = Round(minutes)
	roundedHours = FormatHours(roundedMinutes)
	return minutes, roundedMinutes, roundedHours
}

// Round rounds a raw minute count to the nearest quarter hour, halves up,
// floored at 0. Round is idempotent: Round(Round(m)) == Round(m).
func Round(minutes int) int {
	rounded := int(math.Round(float64(minutes)/RoundingUnitMinutes)) * RoundingUnitMinutes
	if rounded < 0 {
		return 0
	}
	return rounded
}

// FormatHours renders a rounded minute count as hours with exactly two
// decimal digits, e.g. 45 -> "0.75".
func FormatHours(roundedMinutes int) string {
	return fmt.Sprintf("%.2f", float64(roundedMinutes)/60.0)
}
