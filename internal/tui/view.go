package tui

import (
	"fmt"
	"strings"

	"github.com/backpackerjohn/MM16/internal/timeutil"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := titleStyle.Render("anchormap") + clockStyle.Render(m.now.Format("Mon 15:04"))
	if m.paused {
		header += pausedStyle.Render("⏸ paused")
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(emptyStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case len(m.due) == 0:
		b.WriteString(emptyStyle.Render("Nothing due right now."))
	default:
		for i, reminder := range m.due {
			line := reminder.Message
			if anchor, ok := m.anchors[reminder.EventID]; ok {
				line = fmt.Sprintf("%s  (%s %s, %s)", reminder.Message,
					timeutil.FormatOffset(reminder.OffsetMinutes), anchor.Title,
					timeutil.FormatClock(timeutil.ToClock(anchor.StartMinutes()+reminder.OffsetMinutes)))
			}
			if reminder.IsLocked {
				line += " 🔒"
			}

			cursor := "  "
			style := reminderStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedStyle
			}
			b.WriteString(cursor + style.Render(line))
			b.WriteString("\n")
			if reminder.Why != "" && i == m.cursor {
				b.WriteString("    " + whyStyle.Render(reminder.Why))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
