// Package timeutil converts between the HH:MM wall-clock representation
// used across the schedule and minutes-since-midnight integers.
package timeutil

import (
	"fmt"
	"time"

	"github.com/backpackerjohn/MM16/internal/constants"
)

// ToMinutes parses an HH:MM string into minutes from midnight. Malformed or
// empty input yields 0; callers are expected to validate upstream with
// ValidClock before trusting the value.
func ToMinutes(clock string) int {
	t, err := time.Parse(constants.TimeFormat, clock)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// ToClock formats minutes from midnight as HH:MM, normalizing modulo one day.
func ToClock(minutes int) string {
	m := ((minutes % constants.MinutesPerDay) + constants.MinutesPerDay) % constants.MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Overlaps reports whether two same-day [start,end) intervals intersect.
// Touching intervals do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}

// ClocksOverlap is Overlaps over HH:MM strings.
func ClocksOverlap(startA, endA, startB, endB string) bool {
	return Overlaps(ToMinutes(startA), ToMinutes(endA), ToMinutes(startB), ToMinutes(endB))
}

// ValidClock reports whether the string is a well-formed HH:MM time.
func ValidClock(clock string) bool {
	_, err := time.Parse(constants.TimeFormat, clock)
	return err == nil
}

// FormatClock renders an HH:MM time in 12-hour display form, omitting the
// minutes when they are zero: "09:00" -> "9AM", "15:30" -> "3:30PM".
func FormatClock(clock string) string {
	if !ValidClock(clock) {
		return ""
	}
	total := ToMinutes(clock)
	hour := total / 60
	minute := total % 60

	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}

	if minute == 0 {
		return fmt.Sprintf("%d%s", hour, ampm)
	}
	return fmt.Sprintf("%d:%02d%s", hour, minute, ampm)
}

// MinuteOfDay returns the wall-clock minute for an absolute timestamp.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// LoadLocation resolves an IANA timezone name, treating "Local" and the
// empty string as the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}
