package models

import (
	"testing"
	"time"
)

func TestNextSnoozeDuration(t *testing.T) {
	tests := []struct {
		name    string
		history []int
		want    int
	}{
		{"first snooze", nil, 5},
		{"after 5", []int{5}, 10},
		{"after 10", []int{10, 5}, 20},
		{"after 20", []int{20, 10, 5}, 30}, // 40 capped to 30
		{"at cap", []int{30, 20, 10, 5}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SmartReminder{SnoozeHistory: tt.history}
			if got := r.NextSnoozeDuration(); got != tt.want {
				t.Errorf("NextSnoozeDuration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordSnoozePrependsAndCaps(t *testing.T) {
	r := SmartReminder{}
	for i := 1; i <= 12; i++ {
		r.RecordSnooze(i)
	}

	if len(r.SnoozeHistory) != 10 {
		t.Fatalf("snooze history length = %d, want 10", len(r.SnoozeHistory))
	}
	if r.SnoozeHistory[0] != 12 {
		t.Errorf("most recent snooze = %d, want 12", r.SnoozeHistory[0])
	}
	if r.SnoozeHistory[9] != 3 {
		t.Errorf("oldest retained snooze = %d, want 3", r.SnoozeHistory[9])
	}
}

func TestRecordOutcomeCaps(t *testing.T) {
	r := SmartReminder{}
	for i := 0; i < 15; i++ {
		r.RecordOutcome(OutcomeSuccess)
	}
	r.RecordOutcome(OutcomeSnoozed)

	if len(r.SuccessHistory) != 10 {
		t.Fatalf("success history length = %d, want 10", len(r.SuccessHistory))
	}
	if r.SuccessHistory[len(r.SuccessHistory)-1] != OutcomeSnoozed {
		t.Errorf("latest outcome = %v, want snoozed", r.SuccessHistory[len(r.SuccessHistory)-1])
	}
}

func TestReminderValidate(t *testing.T) {
	until := time.Now()

	valid := SmartReminder{
		ID:      "sr-1",
		EventID: "anchor-1",
		Message: "Pack gym bag",
		Status:  StatusActive,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid reminder rejected: %v", err)
	}

	doneWithSnooze := SmartReminder{
		ID:           "sr-2",
		EventID:      "anchor-1",
		Message:      "x",
		Status:       StatusDone,
		SnoozedUntil: &until,
	}
	if err := doneWithSnooze.Validate(); err == nil {
		t.Error("done reminder with SnoozedUntil should be invalid")
	}
}
