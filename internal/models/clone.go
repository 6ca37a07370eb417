package models

// Clone returns a deep value copy of the anchor.
func (a Anchor) Clone() Anchor {
	c := a
	if a.ContextTags != nil {
		c.ContextTags = append([]ContextTag(nil), a.ContextTags...)
	}
	if a.BufferMinutes != nil {
		b := *a.BufferMinutes
		c.BufferMinutes = &b
	}
	return c
}

// Clone returns a deep value copy of the reminder.
func (r SmartReminder) Clone() SmartReminder {
	c := r
	if r.SnoozeHistory != nil {
		c.SnoozeHistory = append([]int(nil), r.SnoozeHistory...)
	}
	if r.SuccessHistory != nil {
		c.SuccessHistory = append([]SuccessState(nil), r.SuccessHistory...)
	}
	if r.SnoozedUntil != nil {
		t := *r.SnoozedUntil
		c.SnoozedUntil = &t
	}
	if r.LastInteraction != nil {
		t := *r.LastInteraction
		c.LastInteraction = &t
	}
	if r.OriginalOffsetMinutes != nil {
		v := *r.OriginalOffsetMinutes
		c.OriginalOffsetMinutes = &v
	}
	return c
}

// Clone returns a deep value copy of the schedule snapshot.
func (s Schedule) Clone() Schedule {
	c := Schedule{
		Anchors:    make([]Anchor, 0, len(s.Anchors)),
		DNDWindows: append([]DNDWindow(nil), s.DNDWindows...),
		Reminders:  make([]SmartReminder, 0, len(s.Reminders)),
	}
	for _, a := range s.Anchors {
		c.Anchors = append(c.Anchors, a.Clone())
	}
	for _, r := range s.Reminders {
		c.Reminders = append(c.Reminders, r.Clone())
	}
	if s.PauseUntil != nil {
		t := *s.PauseUntil
		c.PauseUntil = &t
	}
	return c
}

// Clone returns a deep value copy of the preview.
func (p OnboardingPreview) Clone() OnboardingPreview {
	c := OnboardingPreview{
		Anchors:    make([]Anchor, 0, len(p.Anchors)),
		DNDWindows: append([]DNDWindow(nil), p.DNDWindows...),
	}
	for _, a := range p.Anchors {
		c.Anchors = append(c.Anchors, a.Clone())
	}
	return c
}
