// Package engine is the scheduling core: validated mutation of the weekly
// schedule, conflict-checked anchor placement, the interaction state
// machine, the due-reminder evaluator, and the bounded undo ledger.
//
// A single mutex serializes every mutation and snapshot, so an evaluation
// pass can never observe a half-applied change. Outbound notifications are
// fired after the commit and never awaited.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/backpackerjohn/MM16/internal/constants"
	apperrors "github.com/backpackerjohn/MM16/internal/errors"
	"github.com/backpackerjohn/MM16/internal/logger"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/onboarding"
	"github.com/backpackerjohn/MM16/internal/parser"
	"github.com/backpackerjohn/MM16/internal/storage"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

// Notifier delivers user-facing or collaborator-facing messages. Calls are
// fire-and-forget from the engine's perspective.
type Notifier interface {
	Notify(text string) error
}

// Engine owns the schedule store and is the only writer to it.
type Engine struct {
	mu       sync.Mutex
	store    storage.Provider
	history  Ledger
	notifier Notifier

	// recent holds hashes of recently applied interaction requests so a
	// double-pressed Snooze/Done button cannot apply twice.
	recent map[uint64]time.Time
}

func New(store storage.Provider) *Engine {
	return &Engine{
		store:   store,
		history: Ledger{store: store},
		recent:  make(map[uint64]time.Time),
	}
}

// SetNotifier attaches the outbound notification surface.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// notify emits an outbound message without blocking the caller.
func (e *Engine) notify(text string) {
	if e.notifier == nil {
		return
	}
	n := e.notifier
	go func() {
		if err := n.Notify(text); err != nil {
			logger.Debug("Notification delivery failed", "error", err)
		}
	}()
}

// record pushes an undo entry restoring the given snapshot and emits the
// change message. A failed push never unwinds the committed change.
func (e *Engine) record(message string, before models.Schedule) {
	if err := e.history.Push(message, before); err != nil {
		logger.Warn("Failed to record undo entry", "error", err)
	}
	e.notify(message)
}

// Snapshot returns a consistent value copy of the schedule.
func (e *Engine) Snapshot() (models.Schedule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// Settings returns the persisted engine settings.
func (e *Engine) Settings() (models.Settings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetSettings()
}

// SaveSettings persists engine settings.
func (e *Engine) SaveSettings(settings models.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.SaveSettings(settings)
}

// DueReminders evaluates the currently due set against a consistent
// snapshot. Read-only; safe to call on any cadence.
func (e *Engine) DueReminders(now time.Time) ([]models.SmartReminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}
	settings, err := e.store.GetSettings()
	if err != nil {
		return nil, err
	}
	// The schedule is wall-clock local. When an explicit zone is
	// configured, evaluate in it; otherwise trust the caller's clock.
	if loc, err := timeutil.LoadLocation(settings.Timezone); err == nil && loc != time.Local {
		now = now.In(loc)
	}
	due := Due(snapshot, settings, now)
	SortByAnchorTime(snapshot, due)
	return due, nil
}

// AddAnchors creates one anchor per requested day as a single undoable
// change. Every placement is conflict-checked (against the store and the
// new siblings) before anything is committed; on conflict nothing changes.
func (e *Engine) AddAnchors(title, startTime, endTime string, days []models.Weekday, tags []models.ContextTag) ([]models.Anchor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(days) == 0 {
		return nil, apperrors.Validationf("at least one day is required")
	}
	if len(tags) == 0 {
		tags = []models.ContextTag{models.TagPersonal}
	}

	anchors := make([]models.Anchor, 0, len(days))
	for _, day := range days {
		anchors = append(anchors, models.Anchor{
			ID:          fmt.Sprintf("anchor-%s", uuid.NewString()),
			Day:         day,
			Title:       title,
			StartTime:   startTime,
			EndTime:     endTime,
			ContextTags: append([]models.ContextTag(nil), tags...),
		})
	}

	existing, err := e.store.GetAllAnchors()
	if err != nil {
		return nil, err
	}
	for i, anchor := range anchors {
		if err := anchor.Validate(); err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		if conflict := CanPlace(anchor, existing); conflict != nil {
			return nil, conflict
		}
		if conflict := CanPlace(anchor, anchors[:i]); conflict != nil {
			return nil, conflict
		}
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}
	for _, anchor := range anchors {
		if err := e.store.AddAnchor(anchor); err != nil {
			// Roll the partial set back; the change is all-or-nothing.
			if restoreErr := e.store.Restore(before); restoreErr != nil {
				logger.Error("Failed to roll back partial anchor add", "error", restoreErr)
			}
			return nil, err
		}
	}

	message := fmt.Sprintf("Anchor added: %q on %s, %s–%s.", title,
		timeutil.FormatDays(days), timeutil.FormatClock(startTime), timeutil.FormatClock(endTime))
	e.record(message, before)
	logger.Info("Anchors added", "title", title, "count", len(anchors))
	return anchors, nil
}

// DuplicateAnchor clones an anchor under a fresh id with a suffixed title.
func (e *Engine) DuplicateAnchor(id string) (models.Anchor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	anchor, err := e.store.GetAnchor(id)
	if err != nil {
		return models.Anchor{}, apperrors.NotFoundf("anchor %s", id)
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return models.Anchor{}, err
	}

	clone := anchor.Clone()
	clone.ID = fmt.Sprintf("anchor-copy-%s", uuid.NewString())
	clone.Title = anchor.Title + " (Copy)"
	if err := e.store.AddAnchor(clone); err != nil {
		return models.Anchor{}, err
	}

	e.record(fmt.Sprintf("Copied anchor %q.", anchor.Title), before)
	return clone, nil
}

// MoveAnchor reschedules an anchor onto a different day. On conflict the
// move is rejected, the store is untouched, and the error names the
// blocking anchor.
func (e *Engine) MoveAnchor(id string, targetDay models.Weekday) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !targetDay.Valid() {
		return apperrors.Validationf("invalid day: %q", targetDay)
	}

	anchor, err := e.store.GetAnchor(id)
	if err != nil {
		return apperrors.NotFoundf("anchor %s", id)
	}
	if anchor.Day == targetDay {
		return nil
	}

	existing, err := e.store.GetAllAnchors()
	if err != nil {
		return err
	}

	moved := anchor.Clone()
	moved.Day = targetDay
	if conflict := CanPlace(moved, existing); conflict != nil {
		return conflict
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}
	if err := e.store.UpdateAnchor(moved); err != nil {
		return err
	}

	e.record(fmt.Sprintf("Moved %q to %s.", anchor.Title, targetDay), before)
	return nil
}

// DeleteAnchor removes an anchor and cascades to every reminder that
// references it, as one undoable change.
func (e *Engine) DeleteAnchor(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	anchor, err := e.store.GetAnchor(id)
	if err != nil {
		return apperrors.NotFoundf("anchor %s", id)
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}

	cascaded, err := e.store.DeleteAnchor(id)
	if err != nil {
		return err
	}

	e.record(fmt.Sprintf("Deleted anchor %q.", anchor.Title), before)
	logger.Info("Anchor deleted", "id", id, "cascaded_reminders", len(cascaded))
	return nil
}

// AddDNDWindow registers a quiet-hours window. Overlapping windows are
// permitted; they act as a union.
func (e *Engine) AddDNDWindow(window models.DNDWindow) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := window.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}
	if err := e.store.AddDNDWindow(window); err != nil {
		return err
	}

	e.record(fmt.Sprintf("Quiet hours added: %s %s–%s.", window.Day,
		timeutil.FormatClock(window.StartTime), timeutil.FormatClock(window.EndTime)), before)
	return nil
}

// DeleteDNDWindow removes a quiet-hours window by value.
func (e *Engine) DeleteDNDWindow(window models.DNDWindow) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}
	if err := e.store.DeleteDNDWindow(window); err != nil {
		return apperrors.NotFoundf("dnd window %s %s-%s", window.Day, window.StartTime, window.EndTime)
	}

	e.record(fmt.Sprintf("Quiet hours removed: %s %s–%s.", window.Day,
		timeutil.FormatClock(window.StartTime), timeutil.FormatClock(window.EndTime)), before)
	return nil
}

// AddReminder attaches a reminder to a specific anchor.
func (e *Engine) AddReminder(eventID string, offsetMinutes int, message, why string) (models.SmartReminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	anchor, err := e.store.GetAnchor(eventID)
	if err != nil {
		return models.SmartReminder{}, apperrors.NotFoundf("anchor %s", eventID)
	}

	reminder := newReminder(eventID, offsetMinutes, message, why)
	if err := reminder.Validate(); err != nil {
		return models.SmartReminder{}, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return models.SmartReminder{}, err
	}
	if err := e.store.AddReminder(reminder); err != nil {
		return models.SmartReminder{}, err
	}

	e.record(fmt.Sprintf("Reminder set: %q %s %q.", message,
		timeutil.FormatOffset(offsetMinutes), anchor.Title), before)
	return reminder, nil
}

// CreateRemindersFromCandidate turns a collaborator-parsed candidate into
// one reminder per anchor sharing the candidate's title. An unknown title
// is a validation error surfaced to the caller, never a silent no-op.
func (e *Engine) CreateRemindersFromCandidate(candidate parser.Candidate) ([]models.SmartReminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	anchors, err := e.store.GetAllAnchors()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(anchors))
	for _, anchor := range anchors {
		titles = append(titles, anchor.Title)
	}
	if err := candidate.Validate(titles); err != nil {
		return nil, err
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}

	// A title may match several recurring instances; each gets a reminder.
	var created []models.SmartReminder
	for _, anchor := range anchors {
		if anchor.Title != candidate.AnchorTitle {
			continue
		}
		reminder := newReminder(anchor.ID, candidate.OffsetMinutes, candidate.Message, candidate.Why)
		if err := e.store.AddReminder(reminder); err != nil {
			if restoreErr := e.store.Restore(before); restoreErr != nil {
				logger.Error("Failed to roll back partial reminder add", "error", restoreErr)
			}
			return nil, err
		}
		created = append(created, reminder)
	}

	e.record(fmt.Sprintf("Reminder set: %q %s %q.", candidate.Message,
		timeutil.FormatOffset(candidate.OffsetMinutes), candidate.AnchorTitle), before)
	return created, nil
}

// ParseAndCreateReminders sends free text to the collaborator and creates
// reminders from the result. Collaborator failures leave the store
// untouched.
func (e *Engine) ParseAndCreateReminders(ctx context.Context, p parser.ReminderParser, text string) ([]models.SmartReminder, error) {
	e.mu.Lock()
	anchors, err := e.store.GetAllAnchors()
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(anchors))
	for _, anchor := range anchors {
		titles = append(titles, anchor.Title)
	}

	candidate, err := p.ParseReminder(ctx, text, titles)
	if err != nil {
		return nil, err
	}
	return e.CreateRemindersFromCandidate(candidate)
}

// DeleteReminder removes a single reminder.
func (e *Engine) DeleteReminder(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	reminder, err := e.store.GetReminder(id)
	if err != nil {
		return apperrors.NotFoundf("reminder %s", id)
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}
	if err := e.store.DeleteReminder(id); err != nil {
		return err
	}

	e.record(fmt.Sprintf("Deleted reminder %q.", reminder.Message), before)
	return nil
}

// interactionRequest identifies one user gesture for de-duplication.
// Timestamps are truncated to the second so retransmits of the same press
// hash identically.
type interactionRequest struct {
	ReminderID string
	Action     string
	At         int64
}

// duplicateRequest reports whether an identical gesture was applied within
// the dedupe window, recording this one.
func (e *Engine) duplicateRequest(id, action string, now time.Time) bool {
	key, err := hashstructure.Hash(interactionRequest{
		ReminderID: id,
		Action:     action,
		At:         now.Truncate(time.Second).Unix(),
	}, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a plain struct cannot realistically fail; fall back to
		// applying the request.
		return false
	}

	for k, at := range e.recent {
		if now.Sub(at) > constants.InteractionDedupeWindow {
			delete(e.recent, k)
		}
	}
	if _, seen := e.recent[key]; seen {
		return true
	}
	e.recent[key] = now
	return false
}

// Snooze defers a due reminder with exponential backoff.
func (e *Engine) Snooze(id string, now time.Time) (models.SmartReminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reminder, err := e.store.GetReminder(id)
	if err != nil {
		return models.SmartReminder{}, apperrors.NotFoundf("reminder %s", id)
	}

	if e.duplicateRequest(id, "snooze", now) {
		return reminder, nil
	}

	next, changed := ApplySnooze(reminder, now)
	if !changed {
		return reminder, nil
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return models.SmartReminder{}, err
	}
	if err := e.store.UpdateReminder(next); err != nil {
		return models.SmartReminder{}, err
	}

	e.record(fmt.Sprintf("Reminder snoozed for %d minutes.", next.SnoozeHistory[0]), before)
	return next, nil
}

// Done completes a reminder and, fire-and-forget, tells the habit
// collaborator about the success.
func (e *Engine) Done(id string, now time.Time) (models.SmartReminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reminder, err := e.store.GetReminder(id)
	if err != nil {
		return models.SmartReminder{}, apperrors.NotFoundf("reminder %s", id)
	}

	if e.duplicateRequest(id, "done", now) {
		return reminder, nil
	}

	next, changed := ApplyDone(reminder, now)
	if !changed {
		// Done is terminal; a second Done is an idempotent no-op.
		return reminder, nil
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return models.SmartReminder{}, err
	}
	if err := e.store.UpdateReminder(next); err != nil {
		return models.SmartReminder{}, err
	}

	e.record("Reminder completed. Well done!", before)
	return next, nil
}

// SetReminderLock toggles a reminder's exemption from automatic timing
// adjustment.
func (e *Engine) SetReminderLock(id string, locked bool) (models.SmartReminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reminder, err := e.store.GetReminder(id)
	if err != nil {
		return models.SmartReminder{}, apperrors.NotFoundf("reminder %s", id)
	}

	next := ApplyLock(reminder, locked)
	if err := e.store.UpdateReminder(next); err != nil {
		return models.SmartReminder{}, err
	}
	return next, nil
}

// Pause suppresses all reminder surfacing until the given instant.
func (e *Engine) Pause(until time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}
	if err := e.store.SetPauseUntil(&until); err != nil {
		return err
	}

	e.record(fmt.Sprintf("Reminders paused until %s.", until.Format("15:04")), before)
	return nil
}

// Resume lifts a pause immediately.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}
	if err := e.store.SetPauseUntil(nil); err != nil {
		return err
	}

	e.record("Reminders resumed.", before)
	return nil
}

// GenerateOnboardingPreview builds and persists a detached candidate
// layout from wizard input. Nothing enters the live schedule yet.
func (e *Engine) GenerateOnboardingPreview(blocks []models.TimeBlock, dndStart, dndEnd string) (models.OnboardingPreview, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	preview, err := onboarding.Generate(blocks, dndStart, dndEnd)
	if err != nil {
		return models.OnboardingPreview{}, err
	}
	if err := e.store.SaveOnboardingPreview(preview); err != nil {
		return models.OnboardingPreview{}, err
	}
	return preview, nil
}

// GenerateDefaultPreview persists the stock starter layout.
func (e *Engine) GenerateDefaultPreview() (models.OnboardingPreview, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	preview := onboarding.Defaults()
	if err := e.store.SaveOnboardingPreview(preview); err != nil {
		return models.OnboardingPreview{}, err
	}
	return preview, nil
}

// OnboardingPreview returns the pending candidate layout, if any.
func (e *Engine) OnboardingPreview() (*models.OnboardingPreview, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetOnboardingPreview()
}

// AcceptOnboarding merges the pending preview into the live schedule and
// clears it.
func (e *Engine) AcceptOnboarding() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	preview, err := e.store.GetOnboardingPreview()
	if err != nil {
		return err
	}
	if preview == nil {
		return apperrors.NotFoundf("no onboarding preview to accept")
	}

	// The merged layout must stay conflict-free, both against anchors the
	// user added before accepting and between the preview blocks themselves.
	merged, err := e.store.GetAllAnchors()
	if err != nil {
		return err
	}
	for _, anchor := range preview.Anchors {
		if conflict := CanPlace(anchor, merged); conflict != nil {
			return conflict
		}
		merged = append(merged, anchor)
	}

	before, err := e.store.Snapshot()
	if err != nil {
		return err
	}

	rollback := func(cause error) error {
		if restoreErr := e.store.Restore(before); restoreErr != nil {
			logger.Error("Failed to roll back onboarding merge", "error", restoreErr)
		}
		return cause
	}

	for _, anchor := range preview.Anchors {
		if err := e.store.AddAnchor(anchor); err != nil {
			return rollback(err)
		}
	}
	for _, window := range preview.DNDWindows {
		if err := e.store.AddDNDWindow(window); err != nil {
			return rollback(err)
		}
	}
	if err := e.store.ClearOnboardingPreview(); err != nil {
		return rollback(err)
	}

	e.record("Your weekly map is set up!", before)
	return nil
}

// DiscardOnboarding throws the pending preview away.
func (e *Engine) DiscardOnboarding() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ClearOnboardingPreview()
}

// Undo reverts the most recent change and removes it from the ledger.
func (e *Engine) Undo() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	message, err := e.history.Undo()
	if err != nil {
		return "", err
	}
	e.notify(fmt.Sprintf("Undone: %s", message))
	return message, nil
}

// History lists the undoable change messages, most recent first.
func (e *Engine) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Messages()
}

func newReminder(eventID string, offsetMinutes int, message, why string) models.SmartReminder {
	return models.SmartReminder{
		ID:               fmt.Sprintf("sr-%s", uuid.NewString()),
		EventID:          eventID,
		OffsetMinutes:    offsetMinutes,
		Message:          message,
		Why:              why,
		Status:           models.StatusActive,
		SnoozeHistory:    []int{},
		SuccessHistory:   []models.SuccessState{},
		AllowExploration: true,
	}
}
