package models

import "fmt"

// DNDWindow is a recurring quiet-hours interval during which reminders must
// not be surfaced. Unlike anchors, a window may wrap midnight: an end time
// before the start time denotes an overnight window.
type DNDWindow struct {
	Day       Weekday `json:"day"`
	StartTime string  `json:"start_time"` // HH:MM format
	EndTime   string  `json:"end_time"`   // HH:MM format
}

// Validate checks the window's fields before it may enter the store.
func (w *DNDWindow) Validate() error {
	if !w.Day.Valid() {
		return fmt.Errorf("invalid day: %q", w.Day)
	}
	if !validClock(w.StartTime) {
		return fmt.Errorf("invalid start time %q (expected HH:MM)", w.StartTime)
	}
	if !validClock(w.EndTime) {
		return fmt.Errorf("invalid end time %q (expected HH:MM)", w.EndTime)
	}
	return nil
}

// Overnight reports whether the window wraps midnight.
func (w *DNDWindow) Overnight() bool {
	return clockMinutes(w.EndTime) < clockMinutes(w.StartTime)
}

// Contains reports whether a minutes-from-midnight instant falls inside the
// window. An overnight window is treated as [start,24:00) plus [00:00,end).
// The instant is a same-day offset and is compared unwrapped: a value past
// 24:00 still counts as this evening's segment rather than wrapping onto a
// different day's window.
func (w *DNDWindow) Contains(minutes int) bool {
	start := clockMinutes(w.StartTime)
	end := clockMinutes(w.EndTime)
	if end < start { // overnight
		return minutes >= start || minutes < end
	}
	return minutes >= start && minutes < end
}
