package timeutil

import (
	"fmt"
	"strings"

	"github.com/backpackerjohn/MM16/internal/models"
)

// FormatDays renders a day set compactly: "Weekdays", "Weekends", or
// abbreviated names in week order ("Mon, Wed").
func FormatDays(days []models.Weekday) string {
	if len(days) == 0 {
		return ""
	}

	in := make(map[models.Weekday]bool, len(days))
	for _, d := range days {
		in[d] = true
	}
	var sorted []models.Weekday
	for _, d := range models.DaysOfWeek {
		if in[d] {
			sorted = append(sorted, d)
		}
	}

	allWeekdays := true
	for _, d := range models.Weekdays {
		if !in[d] {
			allWeekdays = false
			break
		}
	}
	if allWeekdays && len(sorted) == len(models.Weekdays) {
		return "Weekdays"
	}
	if len(sorted) == 2 && in[models.Saturday] && in[models.Sunday] {
		return "Weekends"
	}

	abbrevs := make([]string, len(sorted))
	for i, d := range sorted {
		abbrevs[i] = d.Abbrev()
	}
	return strings.Join(abbrevs, ", ")
}

// FormatOffset phrases a reminder offset relative to its anchor:
// "10 minutes before", "at the start of", "5 minutes after".
func FormatOffset(offsetMinutes int) string {
	if offsetMinutes == 0 {
		return "at the start of"
	}
	minutes := offsetMinutes
	beforeOrAfter := "after"
	if minutes < 0 {
		minutes = -minutes
		beforeOrAfter = "before"
	}
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("%d %s %s", minutes, unit, beforeOrAfter)
}
