package engine

import (
	"time"

	"github.com/backpackerjohn/MM16/internal/models"
)

// The interaction state machine. Active and Snoozed respond to the two
// primary gestures (Snooze, Done); Done is terminal; Paused and Ignored are
// reachable only through administrative action. Both transitions are pure
// functions of (reminder, now) so a higher layer can de-duplicate repeated
// requests.

// ApplySnooze advances the reminder into Snoozed with geometric backoff.
// The returned bool reports whether the transition applied; a Done reminder
// is not snoozable.
func ApplySnooze(reminder models.SmartReminder, now time.Time) (models.SmartReminder, bool) {
	if reminder.Status == models.StatusDone {
		return reminder, false
	}

	r := reminder.Clone()
	duration := r.NextSnoozeDuration()
	until := now.Add(time.Duration(duration) * time.Minute)

	r.RecordSnooze(duration)
	r.RecordOutcome(models.OutcomeSnoozed)
	r.SnoozedUntil = &until
	r.Status = models.StatusSnoozed
	r.LastInteraction = &now
	return r, true
}

// ApplyDone completes the reminder. Applying Done to an already-done
// reminder is a no-op, so a late-arriving duplicate cannot double-count the
// success history.
func ApplyDone(reminder models.SmartReminder, now time.Time) (models.SmartReminder, bool) {
	if reminder.Status == models.StatusDone {
		return reminder, false
	}

	r := reminder.Clone()
	r.Status = models.StatusDone
	r.SnoozedUntil = nil
	r.RecordOutcome(models.OutcomeSuccess)
	r.LastInteraction = &now
	return r, true
}

// ApplyLock toggles exemption from automatic timing adjustment.
func ApplyLock(reminder models.SmartReminder, locked bool) models.SmartReminder {
	r := reminder.Clone()
	r.IsLocked = locked
	return r
}
