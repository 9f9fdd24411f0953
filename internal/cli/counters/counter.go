package counters

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/focusfortress/fortress/internal/cli"
	"github.com/focusfortress/fortress/internal/counter"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

type CounterCmd struct {
	Add    CounterAddCmd    `cmd:"" help:"Start a new abstinence counter."`
	List   CounterListCmd   `cmd:"" help:"List counters with elapsed time."`
	Edit   CounterEditCmd   `cmd:"" help:"Rename a counter or change its icon."`
	Reset  CounterResetCmd  `cmd:"" help:"Reset a counter to zero."`
	Delete CounterDeleteCmd `cmd:"" help:"Delete a counter."`
	Watch  CounterWatchCmd  `cmd:"" help:"Continuously display all counters, updating every second."`
}

type CounterAddCmd struct {
	Name        string `arg:"" help:"Counter name, e.g. the behavior being avoided."`
	Description string `help:"Optional description." default:""`
	Icon        string `help:"Icon for the counter." default:""`
}

func (c *CounterAddCmd) Run(ctx *cli.Context) error {
	created, err := ctx.Tracker.CreateCounter(c.Name, c.Description, c.Icon)
	if err != nil {
		return err
	}
	fmt.Printf("Started counter: %s %s\n", created.Icon, created.Name)
	return nil
}

type CounterListCmd struct{}

func (c *CounterListCmd) Run(ctx *cli.Context) error {
	counters, err := ctx.Tracker.Counters()
	if err != nil {
		return err
	}
	if len(counters) == 0 {
		fmt.Println("No counters found.")
		return nil
	}
	now := time.Now()
	for _, cnt := range counters {
		fmt.Printf("%s %s — %s\n", cnt.Icon, cnt.Name, FormatElapsed(counter.Since(now, cnt.StartDateTime)))
	}
	return nil
}

type CounterEditCmd struct {
	Name        string `arg:"" help:"Current counter name."`
	NewName     string `help:"New name." default:""`
	Description string `help:"New description." default:""`
	Icon        string `help:"New icon." default:""`
}

func (c *CounterEditCmd) Run(ctx *cli.Context) error {
	cnt, err := FindCounter(ctx, c.Name)
	if err != nil {
		return err
	}
	name := c.NewName
	if name == "" {
		name = cnt.Name
	}
	description := c.Description
	if description == "" {
		description = cnt.Description
	}
	if err := ctx.Tracker.UpdateCounter(cnt.ID, name, description, c.Icon); err != nil {
		return err
	}
	fmt.Printf("Updated counter: %s\n", name)
	return nil
}

type CounterResetCmd struct {
	Name string `arg:"" help:"Counter name to reset."`
}

func (c *CounterResetCmd) Run(ctx *cli.Context) error {
	cnt, err := FindCounter(ctx, c.Name)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Reset counter %q?", cnt.Name),
		"This rebases the counter to zero, starting now.")
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.ResetCounter(cnt.ID); err != nil {
		return err
	}
	fmt.Printf("Reset counter: %s\n", cnt.Name)
	return nil
}

type CounterDeleteCmd struct {
	Name string `arg:"" help:"Counter name to delete."`
}

func (c *CounterDeleteCmd) Run(ctx *cli.Context) error {
	cnt, err := FindCounter(ctx, c.Name)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Delete counter %q?", cnt.Name),
		"This removes the counter and its start time.")
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.DeleteCounter(cnt.ID); err != nil {
		return err
	}
	ctx.Engine.Remove(cnt.ID)
	fmt.Printf("Deleted counter: %s\n", cnt.Name)
	return nil
}

type CounterWatchCmd struct{}

func (c *CounterWatchCmd) Run(ctx *cli.Context) error {
	counters, err := ctx.Tracker.Counters()
	if err != nil {
		return err
	}
	if len(counters) == 0 {
		fmt.Println("No counters found.")
		return nil
	}
	ctx.Engine.SetAll(counters)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Watching counters (Ctrl-C to stop):")
	ctx.Engine.Run(runCtx, func(snaps []counter.Snapshot) {
		// Rewrite the block in place with ANSI cursor movement
		for _, s := range snaps {
			fmt.Printf("\033[2K%s %s — %s\n", s.Icon, s.Name, FormatElapsed(s.Elapsed))
		}
		fmt.Printf("\033[%dA", len(snaps))
	})
	fmt.Printf("\033[%dB", len(counters))
	return nil
}

// FormatElapsed renders an elapsed breakdown as "Nd HH:MM:SS".
func FormatElapsed(e counter.Elapsed) string {
	return fmt.Sprintf("%dd %02d:%02d:%02d", e.Days, e.Hours, e.Minutes, e.Seconds)
}

// FindCounter resolves a counter by display name.
func FindCounter(ctx *cli.Context, name string) (models.Counter, error) {
	counters, err := ctx.Tracker.Counters()
	if err != nil {
		return models.Counter{}, err
	}
	for _, cnt := range counters {
		if cnt.Name == name {
			return cnt, nil
		}
	}
	return models.Counter{}, &errors.NotFoundError{Entity: "counter", ID: name}
}
