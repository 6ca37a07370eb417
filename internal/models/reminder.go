package models

import (
	"fmt"
	"time"

	"github.com/backpackerjohn/MM16/internal/constants"
)

// ReminderStatus is the lifecycle state of a smart reminder.
type ReminderStatus string

const (
	StatusActive  ReminderStatus = "active"
	StatusSnoozed ReminderStatus = "snoozed"
	StatusDone    ReminderStatus = "done"
	StatusPaused  ReminderStatus = "paused"
	StatusIgnored ReminderStatus = "ignored"
)

// SuccessState records the outcome of a single reminder interaction.
type SuccessState string

const (
	OutcomeSuccess SuccessState = "success"
	OutcomeSnoozed SuccessState = "snoozed"
	OutcomeIgnored SuccessState = "ignored"
)

// SmartReminder is a notification offset in time from an anchor's start.
// EventID is a back-reference to the owning anchor, not an ownership
// relation; deleting the anchor cascades to its reminders.
type SmartReminder struct {
	ID            string         `json:"id"`
	EventID       string         `json:"event_id"`
	OffsetMinutes int            `json:"offset_minutes"` // negative = before anchor start
	Message       string         `json:"message"`
	Why           string         `json:"why"`
	IsLocked      bool           `json:"is_locked"`
	IsExploratory bool           `json:"is_exploratory"`
	Status        ReminderStatus `json:"status"`

	SnoozeHistory []int      `json:"snooze_history"` // minutes, most recent first
	SnoozedUntil  *time.Time `json:"snoozed_until,omitempty"`

	SuccessHistory []SuccessState `json:"success_history"`

	IsStackedHabit        bool       `json:"is_stacked_habit,omitempty"`
	HabitID               string     `json:"habit_id,omitempty"`
	OriginalOffsetMinutes *int       `json:"original_offset_minutes,omitempty"`
	LastInteraction       *time.Time `json:"last_interaction,omitempty"`
	FlexibilityMinutes    int        `json:"flexibility_minutes,omitempty"`
	AllowExploration      bool       `json:"allow_exploration"`
}

// Validate checks the reminder's fields before it may enter the store.
// OffsetMinutes deliberately has no range check: a reminder may sit outside
// its anchor's duration.
func (r *SmartReminder) Validate() error {
	if r.EventID == "" {
		return fmt.Errorf("reminder must reference an anchor")
	}
	if r.Message == "" {
		return fmt.Errorf("reminder message cannot be empty")
	}
	switch r.Status {
	case StatusActive, StatusSnoozed, StatusDone, StatusPaused, StatusIgnored:
	default:
		return fmt.Errorf("invalid reminder status: %q", r.Status)
	}
	if r.Status == StatusDone && r.SnoozedUntil != nil {
		return fmt.Errorf("a done reminder cannot carry a snooze expiry")
	}
	return nil
}

// NextSnoozeDuration returns the minutes the next snooze should last: the
// base duration for a first snooze, then double the most recent snooze on
// each consecutive deferral, capped so the reminder keeps resurfacing.
func (r *SmartReminder) NextSnoozeDuration() int {
	if len(r.SnoozeHistory) == 0 {
		return constants.BaseSnoozeMinutes
	}
	next := r.SnoozeHistory[0] * 2
	if next > constants.MaxSnoozeMinutes {
		return constants.MaxSnoozeMinutes
	}
	return next
}

// RecordOutcome appends an interaction outcome, keeping only the most
// recent entries.
func (r *SmartReminder) RecordOutcome(outcome SuccessState) {
	r.SuccessHistory = append(r.SuccessHistory, outcome)
	if len(r.SuccessHistory) > constants.MaxSuccessHistory {
		r.SuccessHistory = r.SuccessHistory[len(r.SuccessHistory)-constants.MaxSuccessHistory:]
	}
}

// RecordSnooze prepends a snooze duration, keeping only the most recent
// entries. The cap mirrors the success history retention policy.
func (r *SmartReminder) RecordSnooze(minutes int) {
	r.SnoozeHistory = append([]int{minutes}, r.SnoozeHistory...)
	if len(r.SnoozeHistory) > constants.MaxSnoozeHistory {
		r.SnoozeHistory = r.SnoozeHistory[:constants.MaxSnoozeHistory]
	}
}
