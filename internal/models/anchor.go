package models

import (
	"fmt"
	"time"
)

// ContextTag is a semantic label attached to an anchor.
type ContextTag string

const (
	TagRushed     ContextTag = "rushed"
	TagRelaxed    ContextTag = "relaxed"
	TagHighEnergy ContextTag = "high-energy"
	TagLowEnergy  ContextTag = "low-energy"
	TagWork       ContextTag = "work"
	TagSchool     ContextTag = "school"
	TagPersonal   ContextTag = "personal"
	TagPrep       ContextTag = "prep"
	TagTravel     ContextTag = "travel"
	TagRecovery   ContextTag = "recovery"
)

// BufferMinutes carries optional prep/recovery padding around an anchor.
type BufferMinutes struct {
	Prep     int `json:"prep,omitempty"`
	Recovery int `json:"recovery,omitempty"`
}

// Anchor is a recurring weekly time block representing a fixed commitment.
type Anchor struct {
	ID            string         `json:"id"`
	Day           Weekday        `json:"day"`
	Title         string         `json:"title"`
	StartTime     string         `json:"start_time"` // HH:MM format
	EndTime       string         `json:"end_time"`   // HH:MM format
	ContextTags   []ContextTag   `json:"context_tags,omitempty"`
	BufferMinutes *BufferMinutes `json:"buffer_minutes,omitempty"`
}

// clockMinutes parses HH:MM into minutes from midnight, 0 when malformed.
func clockMinutes(clock string) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

func validClock(clock string) bool {
	_, err := time.Parse("15:04", clock)
	return err == nil
}

// Validate checks the anchor's fields before it may enter the store.
// Anchors never cross midnight, so the end must be strictly after the start.
func (a *Anchor) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("anchor title cannot be empty")
	}

	if !a.Day.Valid() {
		return fmt.Errorf("invalid day: %q", a.Day)
	}

	if !validClock(a.StartTime) {
		return fmt.Errorf("invalid start time %q (expected HH:MM)", a.StartTime)
	}
	if !validClock(a.EndTime) {
		return fmt.Errorf("invalid end time %q (expected HH:MM)", a.EndTime)
	}

	if clockMinutes(a.EndTime) <= clockMinutes(a.StartTime) {
		return fmt.Errorf("anchor end time %s must be after start time %s", a.EndTime, a.StartTime)
	}

	if a.BufferMinutes != nil {
		if a.BufferMinutes.Prep < 0 || a.BufferMinutes.Recovery < 0 {
			return fmt.Errorf("buffer minutes cannot be negative")
		}
	}

	return nil
}

// StartMinutes returns the anchor's start as minutes from midnight.
func (a *Anchor) StartMinutes() int {
	return clockMinutes(a.StartTime)
}

// EndMinutes returns the anchor's end as minutes from midnight.
func (a *Anchor) EndMinutes() int {
	return clockMinutes(a.EndTime)
}
