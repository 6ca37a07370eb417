package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is the closed set of day labels used by anchors and DND windows.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// DaysOfWeek lists all weekdays in display order, Monday first.
var DaysOfWeek = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays is the Monday-Friday subset.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// WeekdayFromTime maps a time.Time onto the weekly schedule grid.
func WeekdayFromTime(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// ParseWeekday parses a day name or three-letter abbreviation, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mon", "monday":
		return Monday, nil
	case "tue", "tuesday":
		return Tuesday, nil
	case "wed", "wednesday":
		return Wednesday, nil
	case "thu", "thursday":
		return Thursday, nil
	case "fri", "friday":
		return Friday, nil
	case "sat", "saturday":
		return Saturday, nil
	case "sun", "sunday":
		return Sunday, nil
	default:
		return "", fmt.Errorf("invalid weekday: %s", s)
	}
}

// ParseWeekdays parses a comma-separated list of weekdays.
func ParseWeekdays(s string) ([]Weekday, error) {
	parts := strings.Split(s, ",")
	days := make([]Weekday, 0, len(parts))
	for _, part := range parts {
		day, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// Index returns the day's position in the Monday-first week, or -1 for an
// unknown label.
func (w Weekday) Index() int {
	for i, d := range DaysOfWeek {
		if d == w {
			return i
		}
	}
	return -1
}

// Valid reports whether w is one of the seven known labels.
func (w Weekday) Valid() bool {
	return w.Index() >= 0
}

// Abbrev returns the three-letter form ("Mon").
func (w Weekday) Abbrev() string {
	if len(w) < 3 {
		return string(w)
	}
	return string(w)[:3]
}
