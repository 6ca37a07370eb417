package storage

import (
	"time"

	"github.com/backpackerjohn/MM16/internal/models"
)

// Provider is the persistence boundary for the schedule. Each record class
// (anchors, DND windows, reminders, pause state, onboarding preview,
// settings, undo stack) is independently loadable; a record absent from the
// backing store loads as empty or nil, never as an error.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Anchors
	AddAnchor(models.Anchor) error
	GetAnchor(id string) (models.Anchor, error)
	GetAllAnchors() ([]models.Anchor, error)
	UpdateAnchor(models.Anchor) error
	// DeleteAnchor removes the anchor and every reminder whose EventID
	// references it in a single commit, returning the cascaded reminders.
	DeleteAnchor(id string) ([]models.SmartReminder, error)

	// DND windows
	AddDNDWindow(models.DNDWindow) error
	GetAllDNDWindows() ([]models.DNDWindow, error)
	DeleteDNDWindow(models.DNDWindow) error

	// Smart reminders
	AddReminder(models.SmartReminder) error
	GetReminder(id string) (models.SmartReminder, error)
	GetAllReminders() ([]models.SmartReminder, error)
	UpdateReminder(models.SmartReminder) error
	DeleteReminder(id string) error

	// Pause state
	GetPauseUntil() (*time.Time, error)
	SetPauseUntil(*time.Time) error

	// Onboarding preview
	GetOnboardingPreview() (*models.OnboardingPreview, error)
	SaveOnboardingPreview(models.OnboardingPreview) error
	ClearOnboardingPreview() error

	// Undo ledger, most recent entry first. The stack persists so undo
	// works across separate process runs.
	GetUndoStack() ([]models.UndoEntry, error)
	SaveUndoStack([]models.UndoEntry) error

	// Snapshot returns a value copy of everything the evaluator reads.
	Snapshot() (models.Schedule, error)
	// Restore replaces the snapshot portion of the store in a single
	// commit. Settings and the onboarding preview are left untouched.
	Restore(models.Schedule) error

	// Utils
	GetConfigPath() string
}
