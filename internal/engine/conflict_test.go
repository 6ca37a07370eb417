package engine

import (
	"errors"
	"testing"

	apperrors "github.com/backpackerjohn/MM16/internal/errors"
	"github.com/backpackerjohn/MM16/internal/models"
)

func anchorOn(id string, day models.Weekday, start, end string) models.Anchor {
	return models.Anchor{ID: id, Day: day, Title: "Anchor " + id, StartTime: start, EndTime: end}
}

func TestCanPlace(t *testing.T) {
	existing := []models.Anchor{
		anchorOn("a1", models.Monday, "09:00", "17:00"),
		anchorOn("a2", models.Tuesday, "09:00", "10:00"),
	}

	tests := []struct {
		name      string
		candidate models.Anchor
		blockedBy string
	}{
		{"open slot", anchorOn("new", models.Monday, "18:00", "19:00"), ""},
		{"other day", anchorOn("new", models.Wednesday, "09:00", "17:00"), ""},
		{"overlap", anchorOn("new", models.Monday, "16:00", "18:00"), "a1"},
		{"contained", anchorOn("new", models.Monday, "10:00", "11:00"), "a1"},
		{"back to back before", anchorOn("new", models.Monday, "08:00", "09:00"), ""},
		{"back to back after", anchorOn("new", models.Monday, "17:00", "18:00"), ""},
		{"own id skipped", anchorOn("a1", models.Monday, "09:00", "17:00"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict := CanPlace(tt.candidate, existing)
			if tt.blockedBy == "" {
				if conflict != nil {
					t.Errorf("unexpected conflict with %s", conflict.BlockingID)
				}
				return
			}
			if conflict == nil {
				t.Fatal("expected a conflict")
			}
			if conflict.BlockingID != tt.blockedBy {
				t.Errorf("blocked by %s, want %s", conflict.BlockingID, tt.blockedBy)
			}
			if !errors.Is(conflict, apperrors.ErrConflict) {
				t.Error("conflict error must unwrap to ErrConflict")
			}
		})
	}
}

func TestCanPlaceEmptyDay(t *testing.T) {
	candidate := anchorOn("new", models.Sunday, "23:30", "23:45")
	if conflict := CanPlace(candidate, nil); conflict != nil {
		t.Errorf("placement on empty day rejected: %v", conflict)
	}
}
