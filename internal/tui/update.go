package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/errors"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.snapshots = m.engine.Snapshots()
		return m, tick()

	case tea.KeyMsg:
		switch m.state {
		case constants.StateConfirmDelete:
			return m.updateConfirmDelete(msg)
		case constants.StateConfirmReset:
			return m.updateConfirmReset(msg)
		case constants.StateCelebration:
			// Any key dismisses the celebration.
			m.celebration = ""
			m.state = constants.StateHabits
			return m, nil
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % 3
		m.status = ""

	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + 3) % 3
		m.status = ""

	case key.Matches(msg, m.keys.Up):
		switch m.state {
		case constants.StateHabits:
			if m.habitCursor > 0 {
				m.habitCursor--
			}
		case constants.StateCounters:
			if m.counterCursor > 0 {
				m.counterCursor--
			}
		}

	case key.Matches(msg, m.keys.Down):
		switch m.state {
		case constants.StateHabits:
			if m.habitCursor < len(m.habits)-1 {
				m.habitCursor++
			}
		case constants.StateCounters:
			if m.counterCursor < len(m.snapshots)-1 {
				m.counterCursor++
			}
		}

	case key.Matches(msg, m.keys.Done):
		if m.state == constants.StateHabits {
			return m.markSelectedDone()
		}

	case key.Matches(msg, m.keys.Reset):
		if m.state == constants.StateCounters && len(m.snapshots) > 0 {
			snap := m.snapshots[m.counterCursor]
			m.pendingID = snap.CounterID
			m.pendingName = snap.Name
			m.previousState = m.state
			m.state = constants.StateConfirmReset
		}

	case key.Matches(msg, m.keys.Delete):
		switch m.state {
		case constants.StateHabits:
			if len(m.habits) > 0 {
				h := m.habits[m.habitCursor]
				m.pendingID = h.ID
				m.pendingName = h.Name
				m.previousState = m.state
				m.state = constants.StateConfirmDelete
			}
		case constants.StateCounters:
			if len(m.snapshots) > 0 {
				snap := m.snapshots[m.counterCursor]
				m.pendingID = snap.CounterID
				m.pendingName = snap.Name
				m.previousState = m.state
				m.state = constants.StateConfirmDelete
			}
		}
	}

	return m, nil
}

func (m Model) markSelectedDone() (tea.Model, tea.Cmd) {
	if len(m.habits) == 0 {
		return m, nil
	}
	h := m.habits[m.habitCursor]

	if h.Done {
		m.status = fmt.Sprintf("%q is already completed.", h.Name)
		return m, nil
	}
	if m.tracker.IsMarkedToday(h.ID) {
		m.status = fmt.Sprintf("%q is already marked done for today.", h.Name)
		return m, nil
	}

	res, err := m.tracker.MarkDone(h.ID)
	if err != nil {
		if errors.IsAlreadyDone(err) {
			m.status = fmt.Sprintf("%q is already marked done for today.", h.Name)
		} else {
			m.status = fmt.Sprintf("Error: %v", err)
		}
		return m, nil
	}

	m.refresh()
	switch {
	case res.Completed:
		m.celebration = fmt.Sprintf("🎉 Congratulations! You completed %q (%d days).", h.Name, res.Streak)
		m.previousState = m.state
		m.state = constants.StateCelebration
	case res.Absorbed:
		m.status = fmt.Sprintf("%q was already recorded today on another device.", h.Name)
	default:
		m.status = fmt.Sprintf("Marked %q done: %d/%d days.", h.Name, res.Streak, h.DurationDays)
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		var err error
		if m.previousState == constants.StateHabits {
			err = m.tracker.DeleteHabit(m.pendingID)
		} else {
			err = m.tracker.DeleteCounter(m.pendingID)
			m.engine.Remove(m.pendingID)
		}
		if err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
		} else {
			m.status = fmt.Sprintf("Deleted %q.", m.pendingName)
		}
		m.refresh()
		m.state = m.previousState
	case "n", "N", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.tracker.ResetCounter(m.pendingID); err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
		} else {
			m.status = fmt.Sprintf("Reset %q.", m.pendingName)
		}
		m.refresh()
		m.state = m.previousState
	case "n", "N", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}
