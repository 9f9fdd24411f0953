package habits

import (
	"fmt"

	"github.com/focusfortress/fortress/internal/cli"
	"github.com/focusfortress/fortress/internal/cli/hierarchy"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
	"github.com/focusfortress/fortress/internal/validation"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with their progress."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an in-progress habit."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit done for today."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Category    string `required:"" help:"Owning category name."`
	Subcategory string `required:"" help:"Owning subcategory name."`
	Description string `help:"Optional description." default:""`
	Icon        string `help:"Icon for the habit." default:""`
	Duration    int    `help:"Duration goal in days (1-365)." default:"21"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Tracker.CanCreateHabit()
	if err != nil {
		return err
	}
	if !ok {
		return &errors.InvalidStateError{
			Message: "create a category with at least one subcategory first",
		}
	}

	cat, err := hierarchy.FindCategory(ctx, c.Category)
	if err != nil {
		return err
	}
	sub, err := hierarchy.FindSubcategory(ctx, c.Subcategory)
	if err != nil {
		return err
	}

	h, err := ctx.Tracker.CreateHabit(validation.HabitInput{
		Name:          c.Name,
		Description:   c.Description,
		Icon:          c.Icon,
		CategoryID:    cat.ID,
		SubcategoryID: sub.ID,
		DurationDays:  c.Duration,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added habit: %s %s (%d day goal)\n", h.Icon, h.Name, h.DurationDays)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.Habits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}
	for _, h := range habits {
		status := fmt.Sprintf("%d/%d", h.CurrentStreak, h.DurationDays)
		if h.Done {
			status = "completed"
		} else if ctx.Tracker.IsMarkedToday(h.ID) {
			status += " (done today)"
		}
		fmt.Printf("%s %s — %s\n", h.Icon, h.Name, status)
	}
	return nil
}

type HabitEditCmd struct {
	Name        string `arg:"" help:"Current habit name."`
	NewName     string `help:"New name." default:""`
	Category    string `help:"New owning category name." default:""`
	Subcategory string `help:"New owning subcategory name." default:""`
	Description string `help:"New description." default:""`
	Icon        string `help:"New icon." default:""`
	Duration    int    `help:"New duration goal in days." default:"0"`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	h, err := FindHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	in := validation.HabitInput{
		Name:          h.Name,
		Description:   h.Description,
		Icon:          h.Icon,
		CategoryID:    h.CategoryID,
		SubcategoryID: h.SubcategoryID,
		DurationDays:  h.DurationDays,
	}
	if c.NewName != "" {
		in.Name = c.NewName
	}
	if c.Description != "" {
		in.Description = c.Description
	}
	if c.Icon != "" {
		in.Icon = c.Icon
	}
	if c.Duration != 0 {
		in.DurationDays = c.Duration
	}
	if c.Category != "" {
		cat, err := hierarchy.FindCategory(ctx, c.Category)
		if err != nil {
			return err
		}
		in.CategoryID = cat.ID
	}
	if c.Subcategory != "" {
		sub, err := hierarchy.FindSubcategory(ctx, c.Subcategory)
		if err != nil {
			return err
		}
		in.SubcategoryID = sub.ID
	}

	updated, err := ctx.Tracker.EditHabit(h.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", updated.Name)
	return nil
}

type HabitDoneCmd struct {
	Name string `arg:"" help:"Habit name to mark done for today."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	h, err := FindHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	res, err := ctx.Tracker.MarkDone(h.ID)
	if err != nil {
		if errors.IsAlreadyDone(err) {
			fmt.Printf("%q is already marked done for today.\n", h.Name)
			return nil
		}
		return err
	}

	switch {
	case res.Completed:
		fmt.Printf("🎉 Congratulations! You completed %q (%d days).\n", h.Name, res.Streak)
	case res.Absorbed:
		fmt.Printf("%q was already recorded today on another device.\n", h.Name)
	default:
		fmt.Printf("Marked %q done: %d/%d days.\n", h.Name, res.Streak, h.DurationDays)
	}
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := FindHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	// Completed habits get the stronger warning
	message := "This deletes all progress."
	if h.Done {
		message = "This permanently removes all progress of a completed habit."
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Delete habit %q?", h.Name), message)
	if err != nil || !ok {
		return err
	}

	if err := ctx.Tracker.DeleteHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

// FindHabit resolves a habit by display name.
func FindHabit(ctx *cli.Context, name string) (models.Habit, error) {
	habits, err := ctx.Tracker.Habits()
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, &errors.NotFoundError{Entity: "habit", ID: name}
}
