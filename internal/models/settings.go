package models

// Settings holds engine-level preferences persisted alongside the schedule.
type Settings struct {
	// InteractionGraceEnabled keeps a just-acted-on reminder visible for a
	// short period after Snooze/Done, independent of its due window.
	InteractionGraceEnabled bool `json:"interaction_grace_enabled"`
	// Timezone is an IANA name, or "Local"/empty for the system zone.
	Timezone string `json:"timezone"`
}

// DefaultSettings returns the settings a fresh store starts with.
func DefaultSettings() Settings {
	return Settings{
		InteractionGraceEnabled: true,
		Timezone:                "Local",
	}
}
