package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/counter"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.viewHabits())
	case constants.StateCounters:
		content = docStyle.Render(m.viewCounters())
	case constants.StateHierarchy:
		content = docStyle.Render(m.viewHierarchy())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateConfirmReset:
		content = m.viewConfirmReset()
	case constants.StateCelebration:
		content = m.viewCelebration()
	}

	sections := []string{m.viewTabs(), content}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Habits", "Counters", "Hierarchy"} {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHabits() string {
	if len(m.habits) == 0 {
		return mutedStyle.Render("No habits yet.")
	}

	var b strings.Builder
	for i, h := range m.habits {
		cursor := "  "
		if i == m.habitCursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s %s  %d/%d", cursor, h.Icon, h.Name, h.CurrentStreak, h.DurationDays)
		switch {
		case h.Done:
			line = doneStyle.Render(fmt.Sprintf("%s%s %s  completed", cursor, h.Icon, h.Name))
		case m.tracker.IsMarkedToday(h.ID):
			line += mutedStyle.Render("  (done today)")
		}
		if i == m.habitCursor && !h.Done {
			line = selectedStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewCounters() string {
	if len(m.snapshots) == 0 {
		return mutedStyle.Render("No counters yet.")
	}

	var b strings.Builder
	for i, s := range m.snapshots {
		cursor := "  "
		if i == m.counterCursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s %s  %s", cursor, s.Icon, s.Name, formatElapsed(s.Elapsed))
		if i == m.counterCursor {
			line = selectedStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewHierarchy() string {
	if len(m.tree) == 0 {
		return mutedStyle.Render("No categories yet.")
	}

	var b strings.Builder
	for _, cat := range m.tree {
		b.WriteString(fmt.Sprintf("%s %s\n", cat.Icon, cat.Name))
		for _, sub := range cat.Subcategories {
			b.WriteString(fmt.Sprintf("  %s %s\n", sub.Icon, sub.Name))
			for _, h := range sub.Habits {
				status := fmt.Sprintf("%d/%d", h.CurrentStreak, h.DurationDays)
				if h.Done {
					status = "completed"
				}
				b.WriteString(fmt.Sprintf("    %s %s  %s\n", h.Icon, h.Name, mutedStyle.Render(status)))
			}
		}
	}
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	warning := fmt.Sprintf("Delete %q? This deletes all progress.", m.pendingName)
	if m.previousState == constants.StateHabits {
		for _, h := range m.habits {
			if h.ID == m.pendingID && h.Done {
				warning = fmt.Sprintf("Delete %q? This permanently removes all progress of a completed habit.", m.pendingName)
				break
			}
		}
	} else {
		warning = fmt.Sprintf("Delete counter %q? This removes the counter and its start time.", m.pendingName)
	}

	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(warning),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Reset counter %q to zero, starting now?", m.pendingName)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewCelebration() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			celebrationStyle.Render(m.celebration),
			"",
			mutedStyle.Render("press any key to continue"),
		),
	)
}

func formatElapsed(e counter.Elapsed) string {
	return fmt.Sprintf("%dd %02d:%02d:%02d", e.Days, e.Hours, e.Minutes, e.Seconds)
}
