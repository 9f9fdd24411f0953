package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/focusfortress/fortress/internal/counter"
	"github.com/focusfortress/fortress/internal/storage"
	"github.com/focusfortress/fortress/internal/tracker"
)

// Context carries the shared collaborators into every command's Run.
type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	Engine  *counter.Engine

	// CachePath is the file holding the day-scoped mark-done set.
	CachePath string

	// Yes skips interactive confirmation prompts (--yes).
	Yes bool
}

// Confirm asks the user to confirm a destructive action. With --yes the
// prompt is skipped and the action proceeds.
func (c *Context) Confirm(title, message string) (bool, error) {
	if c.Yes {
		return true, nil
	}
	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(message).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation aborted: %w", err)
	}
	return confirmed, nil
}
