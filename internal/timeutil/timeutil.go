// Package timeutil parses and formats the timestamp shapes the tracker
// works with: ISO-8601 instants with offsets (storage format), plain
// calendar dates (query bounds), and the looser date/clock formats accepted
// by manual entry.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ISOFormat is the storage timestamp layout: ISO-8601 with a numeric offset
// and whole seconds, e.g. "2025-01-01T09:52:00-06:00".
const ISOFormat = "2006-01-02T15:04:05-07:00"

// isoParseLayouts are the layouts accepted when reading timestamps back.
// Live databases contain rows written with fractional seconds, so both
// shapes parse.
var isoParseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999-07:00",
	"2006-01-02T15:04:05",
}

// ParseISO parses an ISO-8601 timestamp as stored on entries.
func ParseISO(s string) (time.Time, error) {
	for _, layout := range isoParseLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected ISO-8601 with offset, e.g. 2025-01-01T09:00:00-06:00", s)
}

// FormatISO renders a timestamp in the storage layout
func FormatISO(t time.Time) string {
	return t.Format(ISOFormat)
}

// ParseDate parses a calendar date in YYYY-MM-DD form, at midnight in loc.
// This is the only shape query bounds accept.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, e.g. 2025-01-15", s)
	}
	return t, nil
}

// DateOf returns the calendar date (year, month, day at midnight in loc) of
// an ISO timestamp after converting it to loc. Query date bounds compare
// against this value.
func DateOf(iso string, loc *time.Location) (time.Time, error) {
	ts, err := ParseISO(iso)
	if err != nil {
		return time.Time{}, err
	}
	local := ts.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// mdyLayouts are the date layouts manual entry accepts
var mdyLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01/02/06",
}

// ParseDateMDY parses a manual-entry date in mm/dd/yyyy (or mm/dd/yy) form.
func ParseDateMDY(s string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range mdyLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use mm/dd/yyyy, e.g. 1/15/2025", s)
}

// clockLayouts are the clock layouts manual entry accepts, tried in order
// against the input with spaces removed. Kitchen-style inputs are
// case-insensitive ("4:30 pm" and "4:30 PM" both parse).
var clockLayouts = []string{
	"3:04PM",
	"3PM",
	"15:04",
	"1504",
	"15",
}

// ParseClockTime parses a flexible clock time such as "4:30 PM", "4 PM",
// "16:30", "1630", or "16". Returns the hour/minute anchored to the zero date.
func ParseClockTime(s string) (time.Time, error) {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, compact); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: e.g. 4:30 PM, 4 PM, 16:30", s)
}

// Combine merges a calendar date with a clock time in loc
func Combine(date, clock time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc)
}
