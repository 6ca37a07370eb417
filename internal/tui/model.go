// Package tui is the live due-reminder view: a ticking screen that shows
// what is due right now and accepts Snooze/Done/Lock gestures.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/backpackerjohn/MM16/internal/engine"
	"github.com/backpackerjohn/MM16/internal/models"
)

// refreshInterval is how often the due set is re-evaluated. Due windows are
// minutes wide, so a coarse tick is plenty.
const refreshInterval = 15 * time.Second

type Model struct {
	engine *engine.Engine
	keys   KeyMap
	help   help.Model

	now      time.Time
	due      []models.SmartReminder
	anchors  map[string]models.Anchor
	paused   bool
	cursor   int
	status   string
	err      error
	width    int
	height   int
	quitting bool
}

func NewModel(eng *engine.Engine) Model {
	m := Model{
		engine: eng,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		now:    time.Now(),
	}
	m.refresh()
	return m
}

// refresh re-evaluates the due set against the current schedule.
func (m *Model) refresh() {
	m.now = time.Now()

	snapshot, err := m.engine.Snapshot()
	if err != nil {
		m.err = err
		return
	}
	due, err := m.engine.DueReminders(m.now)
	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.due = due
	m.paused = snapshot.Paused(m.now)
	m.anchors = make(map[string]models.Anchor, len(snapshot.Anchors))
	for _, anchor := range snapshot.Anchors {
		m.anchors[anchor.ID] = anchor
	}
	if m.cursor >= len(m.due) {
		m.cursor = 0
	}
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}
