package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/counter"
	"github.com/focusfortress/fortress/internal/models"
	"github.com/focusfortress/fortress/internal/tracker"
)

// tickMsg drives the once-per-second counter refresh.
type tickMsg time.Time

type Model struct {
	tracker *tracker.Tracker
	engine  *counter.Engine

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	habits    []models.Habit
	tree      []models.CategoryTree
	snapshots []counter.Snapshot

	habitCursor   int
	counterCursor int

	// pendingID holds the target of an open confirm prompt.
	pendingID   string
	pendingName string

	celebration string
	status      string

	quitting bool
	width    int
	height   int
}

func NewModel(t *tracker.Tracker, e *counter.Engine) Model {
	m := Model{
		tracker: t,
		engine:  e,
		state:   constants.StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.refresh()
	return m
}

// refresh reloads all display state from the backing store. Counter
// durations stay derived: only start timestamps are fetched, the elapsed
// breakdown is recomputed each tick.
func (m *Model) refresh() {
	if habits, err := m.tracker.Habits(); err == nil {
		m.habits = habits
	}
	if tree, err := m.tracker.Tree(); err == nil {
		m.tree = tree
	}
	if counters, err := m.tracker.Counters(); err == nil {
		m.engine.SetAll(counters)
	}
	m.snapshots = m.engine.Snapshots()

	if m.habitCursor >= len(m.habits) {
		m.habitCursor = max(0, len(m.habits)-1)
	}
	if m.counterCursor >= len(m.snapshots) {
		m.counterCursor = max(0, len(m.snapshots)-1)
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		keys = append(keys, m.keys.Done, m.keys.Delete)
	case constants.StateCounters:
		keys = append(keys, m.keys.Reset, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateHabits:
		actions = []key.Binding{m.keys.Done, m.keys.Delete}
	case constants.StateCounters:
		actions = []key.Binding{m.keys.Reset, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
