package constants

import "time"

const (
	AppName           = "anchormap"
	DefaultConfigPath = "~/.config/anchormap/anchormap.db"
	Version           = "v0.1.0"

	// TimeFormat is the standard wall-clock format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MinutesPerDay is the number of minutes in a wall-clock day
	MinutesPerDay = 24 * 60

	// DueWindowMinutes is the span after a reminder's nominal time during
	// which it is considered currently due
	DueWindowMinutes = 15

	// InteractionGrace keeps a just-acted-on reminder visible briefly
	InteractionGrace = 60 * time.Second

	// Snooze backoff: duration doubles from the base on each consecutive
	// snooze and never exceeds the cap, so a deferred reminder keeps
	// resurfacing the same day
	BaseSnoozeMinutes = 5
	MaxSnoozeMinutes  = 30

	// History caps
	MaxSuccessHistory = 10
	MaxSnoozeHistory  = 10
	MaxUndoEntries    = 10

	// Interaction requests seen within this window with an identical
	// request hash are treated as duplicates
	InteractionDedupeWindow = 5 * time.Second

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "anchormap-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.backpackerjohn.anchormap"

	// Onboarding defaults
	OnboardingPrepBufferMinutes     = 15
	OnboardingRecoveryBufferMinutes = 15
	DefaultWorkStart                = "09:00"
	DefaultWorkEnd                  = "17:00"
	DefaultDNDStart                 = "23:00"
	DefaultDNDEnd                   = "07:00"
)
