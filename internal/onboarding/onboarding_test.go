package onboarding

import (
	"testing"

	"github.com/backpackerjohn/MM16/internal/models"
)

func TestDefaults(t *testing.T) {
	preview := Defaults()

	// Five weekday work anchors plus the Saturday wind-down block.
	if len(preview.Anchors) != 6 {
		t.Fatalf("got %d anchors, want 6", len(preview.Anchors))
	}

	workDays := make(map[models.Weekday]bool)
	var saturday *models.Anchor
	for i, anchor := range preview.Anchors {
		if err := anchor.Validate(); err != nil {
			t.Errorf("default anchor %d invalid: %v", i, err)
		}
		switch anchor.Title {
		case "Work":
			workDays[anchor.Day] = true
			if anchor.StartTime != "09:00" || anchor.EndTime != "17:00" {
				t.Errorf("work anchor hours %s-%s", anchor.StartTime, anchor.EndTime)
			}
			if anchor.BufferMinutes == nil || anchor.BufferMinutes.Prep != 15 {
				t.Error("work anchor missing prep buffer")
			}
		case "Weekend Relaxation":
			saturday = &preview.Anchors[i]
		default:
			t.Errorf("unexpected anchor title %q", anchor.Title)
		}
	}
	for _, day := range models.Weekdays {
		if !workDays[day] {
			t.Errorf("no work anchor on %s", day)
		}
	}
	if saturday == nil {
		t.Fatal("missing Saturday wind-down anchor")
	}
	if saturday.Day != models.Saturday || saturday.StartTime != "10:00" || saturday.EndTime != "12:00" {
		t.Errorf("unexpected Saturday anchor: %+v", saturday)
	}

	if len(preview.DNDWindows) != 7 {
		t.Fatalf("got %d quiet-hours windows, want 7", len(preview.DNDWindows))
	}
	for _, window := range preview.DNDWindows {
		if window.StartTime != "23:00" || window.EndTime != "07:00" {
			t.Errorf("unexpected quiet hours %s-%s on %s", window.StartTime, window.EndTime, window.Day)
		}
	}
}

func TestDefaultsUsesFreshIDs(t *testing.T) {
	a := Defaults()
	b := Defaults()
	if a.Anchors[0].ID == b.Anchors[0].ID {
		t.Error("consecutive previews share anchor ids")
	}
}

func TestGenerate(t *testing.T) {
	blocks := []models.TimeBlock{
		{StartTime: "08:30", EndTime: "16:30", Days: []models.Weekday{models.Monday, models.Thursday}},
	}
	preview, err := Generate(blocks, "22:00", "06:00")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(preview.Anchors) != 2 {
		t.Fatalf("got %d anchors, want 2", len(preview.Anchors))
	}
	for _, anchor := range preview.Anchors {
		if anchor.StartTime != "08:30" || anchor.EndTime != "16:30" {
			t.Errorf("unexpected hours %s-%s", anchor.StartTime, anchor.EndTime)
		}
	}
	if len(preview.DNDWindows) != 7 {
		t.Errorf("got %d windows, want one per day", len(preview.DNDWindows))
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		blocks   []models.TimeBlock
		dndStart string
		dndEnd   string
	}{
		{"no blocks", nil, "23:00", "07:00"},
		{"bad clock", []models.TimeBlock{{StartTime: "9am", EndTime: "17:00", Days: models.Weekdays}}, "23:00", "07:00"},
		{"inverted block", []models.TimeBlock{{StartTime: "17:00", EndTime: "09:00", Days: models.Weekdays}}, "23:00", "07:00"},
		{"bad day", []models.TimeBlock{{StartTime: "09:00", EndTime: "17:00", Days: []models.Weekday{"Funday"}}}, "23:00", "07:00"},
		{"bad dnd", []models.TimeBlock{{StartTime: "09:00", EndTime: "17:00", Days: models.Weekdays}}, "23:00", "late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(tt.blocks, tt.dndStart, tt.dndEnd); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
