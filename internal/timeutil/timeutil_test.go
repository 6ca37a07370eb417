package timeutil

import (
	"testing"
	"time"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		clock string
		want  int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"09:30", 570},
		{"23:59", 1439},
		{"9:00", 540}, // single-digit hour is tolerated
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := ToMinutes(tt.clock); got != tt.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", tt.clock, got, tt.want)
		}
	}
}

func TestToClockRoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00", "06:45", "12:00", "23:59"} {
		if got := ToClock(ToMinutes(clock)); got != clock {
			t.Errorf("round trip of %q gave %q", clock, got)
		}
	}
}

func TestToClockNormalizes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{1440, "00:00"},
		{1500, "01:00"},
		{-60, "23:00"},
	}

	for _, tt := range tests {
		if got := ToClock(tt.minutes); got != tt.want {
			t.Errorf("ToClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		startA, endA, startB, endB int
		want                       bool
	}{
		{"disjoint", 540, 600, 660, 720, false},
		{"identical", 540, 600, 540, 600, true},
		{"partial", 540, 600, 570, 630, true},
		{"contained", 540, 720, 570, 600, true},
		{"touching is not overlap", 540, 600, 600, 660, false},
		{"touching other side", 600, 660, 540, 600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.startA, tt.endA, tt.startB, tt.endB); got != tt.want {
				t.Errorf("Overlaps(%d,%d,%d,%d) = %v, want %v",
					tt.startA, tt.endA, tt.startB, tt.endB, got, tt.want)
			}
			// Overlap is symmetric
			if got := Overlaps(tt.startB, tt.endB, tt.startA, tt.endA); got != tt.want {
				t.Errorf("Overlaps not symmetric for %s", tt.name)
			}
		})
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "09:30", "9:30", "23:59"}
	invalid := []string{"24:00", "09:60", "0900", "", "noon"}

	for _, clock := range valid {
		if !ValidClock(clock) {
			t.Errorf("ValidClock(%q) = false, want true", clock)
		}
	}
	for _, clock := range invalid {
		if ValidClock(clock) {
			t.Errorf("ValidClock(%q) = true, want false", clock)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		clock string
		want  string
	}{
		{"09:00", "9AM"},
		{"15:30", "3:30PM"},
		{"00:00", "12AM"},
		{"12:00", "12PM"},
		{"23:59", "11:59PM"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.clock); got != tt.want {
			t.Errorf("FormatClock(%q) = %q, want %q", tt.clock, got, tt.want)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	at := time.Date(2026, 1, 5, 8, 55, 30, 0, time.UTC)
	if got := MinuteOfDay(at); got != 535 {
		t.Errorf("MinuteOfDay(08:55:30) = %d, want 535", got)
	}
}
