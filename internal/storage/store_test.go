package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/backpackerjohn/MM16/internal/models"
)

// Both backends must satisfy the same contract, so every test runs against
// each of them.
func forEachProvider(t *testing.T, fn func(t *testing.T, store Provider)) {
	t.Helper()

	backends := map[string]func(t *testing.T) Provider{
		"json": func(t *testing.T) Provider {
			return NewJSONStore(filepath.Join(t.TempDir(), "test.json"))
		},
		"sqlite": func(t *testing.T) Provider {
			return NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
		},
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			if err := store.Init(); err != nil {
				t.Fatalf("failed to initialize test store: %v", err)
			}
			defer store.Close()
			if err := store.Load(); err != nil {
				t.Fatalf("failed to load test store: %v", err)
			}
			fn(t, store)
		})
	}
}

func testAnchor(id string, day models.Weekday) models.Anchor {
	return models.Anchor{
		ID:          id,
		Day:         day,
		Title:       "Morning Run",
		StartTime:   "06:30",
		EndTime:     "07:15",
		ContextTags: []models.ContextTag{models.TagPersonal, models.TagHighEnergy},
		BufferMinutes: &models.BufferMinutes{
			Prep:     10,
			Recovery: 15,
		},
	}
}

func testReminder(id, eventID string) models.SmartReminder {
	until := time.Date(2026, 1, 5, 6, 45, 0, 0, time.UTC)
	return models.SmartReminder{
		ID:             id,
		EventID:        eventID,
		OffsetMinutes:  -10,
		Message:        "Lay out running clothes",
		Why:            "Cuts morning friction",
		Status:         models.StatusSnoozed,
		SnoozeHistory:  []int{10, 5},
		SnoozedUntil:   &until,
		SuccessHistory: []models.SuccessState{models.OutcomeSuccess, models.OutcomeSnoozed},
	}
}

func TestAnchorRoundTrip(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		anchor := testAnchor("anchor-1", models.Monday)
		if err := store.AddAnchor(anchor); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		got, err := store.GetAnchor("anchor-1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Title != anchor.Title || got.Day != anchor.Day ||
			got.StartTime != anchor.StartTime || got.EndTime != anchor.EndTime {
			t.Errorf("round trip mismatch: %+v", got)
		}
		if len(got.ContextTags) != 2 {
			t.Errorf("context tags lost: %v", got.ContextTags)
		}
		if got.BufferMinutes == nil || got.BufferMinutes.Prep != 10 || got.BufferMinutes.Recovery != 15 {
			t.Errorf("buffers lost: %+v", got.BufferMinutes)
		}

		got.Title = "Mutated"
		reread, _ := store.GetAnchor("anchor-1")
		if reread.Title == "Mutated" {
			t.Error("store returned a shared reference, not a copy")
		}
	})
}

func TestGetMissingAnchor(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		if _, err := store.GetAnchor("anchor-nope"); err == nil {
			t.Error("expected error for missing anchor")
		}
	})
}

func TestUpdateAnchor(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		anchor := testAnchor("anchor-1", models.Monday)
		if err := store.AddAnchor(anchor); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		anchor.Day = models.Thursday
		anchor.Title = "Evening Run"
		if err := store.UpdateAnchor(anchor); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		got, _ := store.GetAnchor("anchor-1")
		if got.Day != models.Thursday || got.Title != "Evening Run" {
			t.Errorf("update not persisted: %+v", got)
		}
	})
}

func TestReminderRoundTrip(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		if err := store.AddAnchor(testAnchor("anchor-1", models.Monday)); err != nil {
			t.Fatalf("anchor add failed: %v", err)
		}
		reminder := testReminder("sr-1", "anchor-1")
		if err := store.AddReminder(reminder); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		got, err := store.GetReminder("sr-1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Message != reminder.Message || got.Status != models.StatusSnoozed {
			t.Errorf("round trip mismatch: %+v", got)
		}
		if len(got.SnoozeHistory) != 2 || got.SnoozeHistory[0] != 10 {
			t.Errorf("snooze history lost: %v", got.SnoozeHistory)
		}
		if len(got.SuccessHistory) != 2 {
			t.Errorf("success history lost: %v", got.SuccessHistory)
		}
		if got.SnoozedUntil == nil || !got.SnoozedUntil.Equal(*reminder.SnoozedUntil) {
			t.Errorf("snooze expiry lost: %v", got.SnoozedUntil)
		}
	})
}

func TestDeleteAnchorCascade(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		if err := store.AddAnchor(testAnchor("anchor-1", models.Monday)); err != nil {
			t.Fatalf("anchor add failed: %v", err)
		}
		if err := store.AddAnchor(testAnchor("anchor-2", models.Tuesday)); err != nil {
			t.Fatalf("anchor add failed: %v", err)
		}
		if err := store.AddReminder(testReminder("sr-1", "anchor-1")); err != nil {
			t.Fatalf("reminder add failed: %v", err)
		}
		if err := store.AddReminder(testReminder("sr-2", "anchor-1")); err != nil {
			t.Fatalf("reminder add failed: %v", err)
		}
		if err := store.AddReminder(testReminder("sr-3", "anchor-2")); err != nil {
			t.Fatalf("reminder add failed: %v", err)
		}

		cascaded, err := store.DeleteAnchor("anchor-1")
		if err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if len(cascaded) != 2 {
			t.Errorf("cascaded %d reminders, want 2", len(cascaded))
		}

		if _, err := store.GetAnchor("anchor-1"); err == nil {
			t.Error("deleted anchor still present")
		}
		remaining, err := store.GetAllReminders()
		if err != nil {
			t.Fatalf("get all failed: %v", err)
		}
		if len(remaining) != 1 || remaining[0].ID != "sr-3" {
			t.Errorf("cascade removed the wrong reminders: %v", remaining)
		}
	})
}

func TestDNDWindows(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		window := models.DNDWindow{Day: models.Monday, StartTime: "23:00", EndTime: "07:00"}
		if err := store.AddDNDWindow(window); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		windows, err := store.GetAllDNDWindows()
		if err != nil {
			t.Fatalf("get all failed: %v", err)
		}
		if len(windows) != 1 || windows[0] != window {
			t.Errorf("round trip mismatch: %v", windows)
		}

		if err := store.DeleteDNDWindow(window); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		windows, _ = store.GetAllDNDWindows()
		if len(windows) != 0 {
			t.Errorf("window not deleted: %v", windows)
		}
	})
}

func TestPauseUntil(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		got, err := store.GetPauseUntil()
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != nil {
			t.Errorf("fresh store has pause state: %v", got)
		}

		until := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
		if err := store.SetPauseUntil(&until); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		got, _ = store.GetPauseUntil()
		if got == nil || !got.Equal(until) {
			t.Errorf("pause round trip mismatch: %v", got)
		}

		if err := store.SetPauseUntil(nil); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if got, _ = store.GetPauseUntil(); got != nil {
			t.Errorf("pause not cleared: %v", got)
		}
	})
}

func TestSettingsRoundTrip(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !settings.InteractionGraceEnabled {
			t.Error("fresh store should carry default settings")
		}

		settings.InteractionGraceEnabled = false
		settings.Timezone = "Europe/Berlin"
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, _ := store.GetSettings()
		if got.InteractionGraceEnabled || got.Timezone != "Europe/Berlin" {
			t.Errorf("settings round trip mismatch: %+v", got)
		}
	})
}

func TestOnboardingPreviewLifecycle(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		got, err := store.GetOnboardingPreview()
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != nil {
			t.Error("fresh store has a preview")
		}

		preview := models.OnboardingPreview{
			Anchors:    []models.Anchor{testAnchor("anchor-1", models.Monday)},
			DNDWindows: []models.DNDWindow{{Day: models.Monday, StartTime: "23:00", EndTime: "07:00"}},
		}
		if err := store.SaveOnboardingPreview(preview); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, _ = store.GetOnboardingPreview()
		if got == nil || len(got.Anchors) != 1 || len(got.DNDWindows) != 1 {
			t.Errorf("preview round trip mismatch: %+v", got)
		}

		// The preview is detached from the live schedule.
		anchors, _ := store.GetAllAnchors()
		if len(anchors) != 0 {
			t.Error("preview leaked into live anchors")
		}

		if err := store.ClearOnboardingPreview(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if got, _ = store.GetOnboardingPreview(); got != nil {
			t.Error("preview not cleared")
		}
	})
}

func TestUndoStackRoundTrip(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		stack, err := store.GetUndoStack()
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(stack) != 0 {
			t.Errorf("fresh store has %d undo entries", len(stack))
		}

		entries := []models.UndoEntry{
			{Message: "Added anchor", Before: models.Schedule{}},
			{Message: "Deleted anchor", Before: models.Schedule{
				Anchors: []models.Anchor{testAnchor("anchor-1", models.Monday)},
			}},
		}
		if err := store.SaveUndoStack(entries); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.GetUndoStack()
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(got) != 2 || got[0].Message != "Added anchor" {
			t.Fatalf("round trip mismatch: %+v", got)
		}
		if len(got[1].Before.Anchors) != 1 || got[1].Before.Anchors[0].ID != "anchor-1" {
			t.Errorf("snapshot payload lost: %+v", got[1].Before)
		}

		if err := store.SaveUndoStack(nil); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if got, _ := store.GetUndoStack(); len(got) != 0 {
			t.Errorf("stack not cleared: %+v", got)
		}
	})
}

func TestSnapshotRestore(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		if err := store.AddAnchor(testAnchor("anchor-1", models.Monday)); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := store.AddReminder(testReminder("sr-1", "anchor-1")); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		until := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
		if err := store.SetPauseUntil(&until); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		before, err := store.Snapshot()
		if err != nil {
			t.Fatalf("snapshot failed: %v", err)
		}

		if _, err := store.DeleteAnchor("anchor-1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := store.SetPauseUntil(nil); err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		if err := store.Restore(before); err != nil {
			t.Fatalf("restore failed: %v", err)
		}

		anchors, _ := store.GetAllAnchors()
		reminders, _ := store.GetAllReminders()
		pause, _ := store.GetPauseUntil()
		if len(anchors) != 1 || len(reminders) != 1 {
			t.Errorf("restore incomplete: %d anchors, %d reminders", len(anchors), len(reminders))
		}
		if pause == nil || !pause.Equal(until) {
			t.Errorf("pause state not restored: %v", pause)
		}
	})
}

func TestLoadBeforeInit(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Fatal("loading an uninitialized store should fail")
	}
}
