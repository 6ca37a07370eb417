package models

import "time"

// Schedule is a point-in-time snapshot of everything the due-reminder
// evaluator reads: all anchors, DND windows, reminders, and the global
// pause state. Snapshots are value copies, so an evaluation pass can never
// observe a half-applied mutation.
type Schedule struct {
	Anchors    []Anchor        `json:"anchors"`
	DNDWindows []DNDWindow     `json:"dnd_windows"`
	Reminders  []SmartReminder `json:"reminders"`
	PauseUntil *time.Time      `json:"pause_until,omitempty"`
}

// UndoEntry pairs a human-readable change message with the schedule as it
// stood before the change, so undo survives across process restarts.
type UndoEntry struct {
	Message string   `json:"message"`
	Before  Schedule `json:"before"`
}

// AnchorByID resolves a reminder's back-reference, returning false when the
// owning anchor is gone.
func (s *Schedule) AnchorByID(id string) (Anchor, bool) {
	for _, a := range s.Anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}

// Paused reports whether reminder surfacing is globally suppressed at the
// given instant.
func (s *Schedule) Paused(now time.Time) bool {
	return s.PauseUntil != nil && now.Before(*s.PauseUntil)
}
