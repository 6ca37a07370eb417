package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/engine"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/parser"
	"github.com/backpackerjohn/MM16/internal/storage"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

type Context struct {
	Store  storage.Provider
	Engine *engine.Engine
	Parser parser.ReminderParser

	// Now allows commands to run against a fixed clock.
	Now func() time.Time
}

func (ctx *Context) now() time.Time {
	if ctx.Now != nil {
		return ctx.Now()
	}
	return time.Now()
}

func parseDays(s string) ([]models.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "everyday", "daily":
		return append([]models.Weekday(nil), models.DaysOfWeek...), nil
	case "weekdays":
		return append([]models.Weekday(nil), models.Weekdays...), nil
	case "weekends":
		return []models.Weekday{models.Saturday, models.Sunday}, nil
	}
	return models.ParseWeekdays(s)
}

func parseTags(s string) []models.ContextTag {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []models.ContextTag
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			tags = append(tags, models.ContextTag(part))
		}
	}
	return tags
}

func validateClock(clock string) error {
	if !timeutil.ValidClock(clock) {
		return fmt.Errorf("invalid time %q (expected HH:MM)", clock)
	}
	return nil
}

func formatAnchor(a models.Anchor) string {
	line := fmt.Sprintf("[%s] %-9s %s–%s  %s",
		a.ID, a.Day, timeutil.FormatClock(a.StartTime), timeutil.FormatClock(a.EndTime), a.Title)
	if len(a.ContextTags) > 0 {
		tags := make([]string, len(a.ContextTags))
		for i, t := range a.ContextTags {
			tags[i] = string(t)
		}
		line += fmt.Sprintf(" (%s)", strings.Join(tags, ", "))
	}
	return line
}

func formatReminder(r models.SmartReminder, anchors map[string]models.Anchor) string {
	target := r.EventID
	when := ""
	if anchor, ok := anchors[r.EventID]; ok {
		target = fmt.Sprintf("%s (%s)", anchor.Title, anchor.Day)
		when = fmt.Sprintf(", %s", timeutil.FormatClock(timeutil.ToClock(anchor.StartMinutes()+r.OffsetMinutes)))
	}
	line := fmt.Sprintf("[%s] %q %s %s%s — %s",
		r.ID, r.Message, timeutil.FormatOffset(r.OffsetMinutes), target, when, r.Status)
	if r.Status == models.StatusSnoozed && r.SnoozedUntil != nil {
		line += fmt.Sprintf(" until %s", r.SnoozedUntil.Format(constants.TimeFormat))
	}
	if r.IsLocked {
		line += " [locked]"
	}
	return line
}
