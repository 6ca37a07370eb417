package models

// OnboardingPreview is a detached candidate schedule produced by the
// onboarding generator. It stays out of the live schedule until the user
// accepts it (merge) or discards it.
type OnboardingPreview struct {
	Anchors    []Anchor    `json:"anchors"`
	DNDWindows []DNDWindow `json:"dnd_windows"`
}

// TimeBlock is one wizard row: a start/end span applied to a set of days.
type TimeBlock struct {
	StartTime string    `json:"start_time"` // HH:MM format
	EndTime   string    `json:"end_time"`   // HH:MM format
	Days      []Weekday `json:"days"`
}
