package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/backpackerjohn/MM16/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.due)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			return m, nil

		case key.Matches(msg, m.keys.Snooze):
			if reminder, ok := m.selected(); ok {
				next, err := m.engine.Snooze(reminder.ID, m.now)
				if err != nil {
					m.err = err
				} else if len(next.SnoozeHistory) > 0 {
					m.status = fmt.Sprintf("Snoozed %q for %d minutes", next.Message, next.SnoozeHistory[0])
				}
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.Done):
			if reminder, ok := m.selected(); ok {
				if _, err := m.engine.Done(reminder.ID, m.now); err != nil {
					m.err = err
				} else {
					m.status = fmt.Sprintf("Completed %q", reminder.Message)
				}
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.Lock):
			if reminder, ok := m.selected(); ok {
				next, err := m.engine.SetReminderLock(reminder.ID, !reminder.IsLocked)
				if err != nil {
					m.err = err
				} else if next.IsLocked {
					m.status = fmt.Sprintf("Locked %q", next.Message)
				} else {
					m.status = fmt.Sprintf("Unlocked %q", next.Message)
				}
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.Undo):
			message, err := m.engine.Undo()
			if err != nil {
				m.err = err
			} else {
				m.status = fmt.Sprintf("Undone: %s", message)
			}
			m.refresh()
			return m, nil
		}
	}

	return m, nil
}

func (m Model) selected() (models.SmartReminder, bool) {
	if m.cursor < 0 || m.cursor >= len(m.due) {
		return models.SmartReminder{}, false
	}
	return m.due[m.cursor], true
}
