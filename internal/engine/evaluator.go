package engine

import (
	"sort"
	"time"

	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

// Due computes the set of reminders that must be surfaced at the given
// instant. It is a pure, read-only pass over a schedule snapshot, meant to
// be re-run on a fixed cadence or after any mutation; snooze expiry is
// detected here lazily rather than by per-reminder timers.
//
// A reminder whose anchor is missing is skipped, never an error: a broken
// back-reference must not fail the whole pass.
func Due(schedule models.Schedule, settings models.Settings, now time.Time) []models.SmartReminder {
	if schedule.Paused(now) {
		return nil
	}

	currentDay := models.WeekdayFromTime(now)
	nowMinutes := timeutil.MinuteOfDay(now)

	var due []models.SmartReminder
	for _, reminder := range schedule.Reminders {
		if reminder.Status == models.StatusDone {
			continue
		}

		anchor, ok := schedule.AnchorByID(reminder.EventID)
		if !ok || anchor.Day != currentDay {
			continue
		}

		// Same-day offset: deliberately unwrapped, so a large offset
		// cannot alias onto another day.
		reminderMinutes := anchor.StartMinutes() + reminder.OffsetMinutes

		if inDND(schedule.DNDWindows, currentDay, reminderMinutes) {
			continue
		}

		graceActive := settings.InteractionGraceEnabled && reminder.LastInteraction != nil &&
			now.Sub(*reminder.LastInteraction) < constants.InteractionGrace

		if reminder.SnoozedUntil != nil && now.Before(*reminder.SnoozedUntil) {
			// Still snoozed; only the grace period keeps it visible.
			if graceActive {
				due = append(due, reminder)
			}
			continue
		}

		if isDue(reminder, reminderMinutes, nowMinutes, now) || graceActive {
			due = append(due, reminder)
		}
	}
	return due
}

// isDue applies the fixed due window. An expired snooze re-enters the
// active flow with its window anchored at the expiry instant, otherwise a
// snooze longer than the window could push the reminder past its own
// nominal window and silence it for the day.
func isDue(reminder models.SmartReminder, reminderMinutes, nowMinutes int, now time.Time) bool {
	switch reminder.Status {
	case models.StatusActive:
		return reminderMinutes <= nowMinutes && nowMinutes < reminderMinutes+constants.DueWindowMinutes
	case models.StatusSnoozed:
		if reminder.SnoozedUntil == nil {
			return false
		}
		expiry := *reminder.SnoozedUntil
		return !now.Before(expiry) && now.Before(expiry.Add(constants.DueWindowMinutes*time.Minute))
	default:
		return false
	}
}

func inDND(windows []models.DNDWindow, day models.Weekday, minutes int) bool {
	for _, window := range windows {
		if window.Day != day {
			continue
		}
		if window.Contains(minutes) {
			return true
		}
	}
	return false
}

// SortByAnchorTime orders reminders by their effective due time on the
// weekly grid, for stable presentation. Result ordering from Due itself is
// unspecified.
func SortByAnchorTime(schedule models.Schedule, reminders []models.SmartReminder) {
	effective := func(r models.SmartReminder) (int, int) {
		anchor, ok := schedule.AnchorByID(r.EventID)
		if !ok {
			return len(models.DaysOfWeek), 0
		}
		return anchor.Day.Index(), anchor.StartMinutes() + r.OffsetMinutes
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		di, ti := effective(reminders[i])
		dj, tj := effective(reminders[j])
		if di != dj {
			return di < dj
		}
		return ti < tj
	})
}
