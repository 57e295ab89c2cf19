package timeutil

import (
	"testing"
	"time"
)

func TestParseISO(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "offset timestamp", input: "2025-01-01T09:00:00-06:00"},
		{name: "utc timestamp", input: "2025-06-15T14:30:00Z"},
		{name: "fractional seconds", input: "2025-01-01T09:00:00.123456-06:00"},
		{name: "no offset", input: "2025-01-01T09:00:00"},
		{name: "date only", input: "2025-01-01", wantErr: true},
		{name: "garbage", input: "not a time", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseISO(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("ParseISO(%q) expected error, got nil", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ParseISO(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestFormatISORoundTrip(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	ts := time.Date(2025, 1, 1, 9, 52, 0, 0, loc)

	formatted := FormatISO(ts)
	if formatted != "2025-01-01T09:52:00-06:00" {
		t.Errorf("FormatISO = %q, want %q", formatted, "2025-01-01T09:52:00-06:00")
	}

	parsed, err := ParseISO(formatted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("round trip changed instant: %v != %v", parsed, ts)
	}
}

func TestParseDate(t *testing.T) {
	loc := time.UTC

	d, err := ParseDate("2025-01-15", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.January || d.Day() != 15 {
		t.Errorf("got %v, want 2025-01-15", d)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("expected midnight, got %v", d)
	}

	for _, bad := range []string{"15/01/2025", "2025-1", "jan 15", ""} {
		if _, err := ParseDate(bad, loc); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestDateOf(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 03:30 UTC on Jan 2 is still Jan 1 in Chicago; the query layer compares
	// the date in the configured zone.
	d, err := DateOf("2025-01-02T03:30:00Z", chicago)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Day() != 1 || d.Month() != time.January {
		t.Errorf("got %v, want Jan 1 in Chicago", d)
	}

	if _, err := DateOf("garbage", chicago); err == nil {
		t.Error("expected error for invalid timestamp")
	}
}

func TestParseDateMDY(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		input   string
		wantDay int
		wantErr bool
	}{
		{input: "1/15/2025", wantDay: 15},
		{input: "01/15/2025", wantDay: 15},
		{input: "1/15/25", wantDay: 15},
		{input: " 1/15/2025 ", wantDay: 15},
		{input: "2025-01-15", wantErr: true},
		{input: "15/1/2025", wantErr: true}, // no month 15
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		d, err := ParseDateMDY(tt.input, loc)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDateMDY(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDateMDY(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if d.Day() != tt.wantDay {
			t.Errorf("ParseDateMDY(%q) day = %d, want %d", tt.input, d.Day(), tt.wantDay)
		}
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input    string
		wantHour int
		wantMin  int
		wantErr  bool
	}{
		{input: "4:30 PM", wantHour: 16, wantMin: 30},
		{input: "4:30PM", wantHour: 16, wantMin: 30},
		{input: "4:30 pm", wantHour: 16, wantMin: 30},
		{input: "4 PM", wantHour: 16},
		{input: "16:30", wantHour: 16, wantMin: 30},
		{input: "1630", wantHour: 16, wantMin: 30},
		{input: "16", wantHour: 16},
		{input: "9:05 AM", wantHour: 9, wantMin: 5},
		{input: "noonish", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseClockTime(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClockTime(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClockTime(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got.Hour() != tt.wantHour || got.Minute() != tt.wantMin {
			t.Errorf("ParseClockTime(%q) = %02d:%02d, want %02d:%02d",
				tt.input, got.Hour(), got.Minute(), tt.wantHour, tt.wantMin)
		}
	}
}

func TestCombine(t *testing.T) {
	loc := time.UTC
	date, _ := ParseDateMDY("1/15/2025", loc)
	clock, _ := ParseClockTime("4:30 PM")

	got := Combine(date, clock, loc)
	want := time.Date(2025, 1, 15, 16, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("Combine = %v, want %v", got, want)
	}
}
