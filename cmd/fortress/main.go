package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/focusfortress/fortress/internal/cli"
	"github.com/focusfortress/fortress/internal/cli/counters"
	"github.com/focusfortress/fortress/internal/cli/habits"
	"github.com/focusfortress/fortress/internal/cli/hierarchy"
	"github.com/focusfortress/fortress/internal/cli/system"
	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/counter"
	"github.com/focusfortress/fortress/internal/guard"
	"github.com/focusfortress/fortress/internal/keyring"
	"github.com/focusfortress/fortress/internal/logger"
	"github.com/focusfortress/fortress/internal/storage"
	"github.com/focusfortress/fortress/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	Store   string `help:"Storage location: a sqlite file path, a PostgreSQL connection string, or the base URL of a remote fortress server. PostgreSQL credentials must NOT be embedded in the connection string; use environment variables, .pgpass, or the OS keyring instead." env:"FORTRESS_STORE" default:"~/.config/fortress/fortress.db"`
	Debug   bool   `help:"Enable debug logging."`
	Yes     bool   `help:"Skip confirmation prompts."`

	Init   system.InitCmd   `cmd:"" help:"Initialize fortress storage."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Token  struct {
		Set    system.TokenSetCmd    `cmd:"" help:"Store the remote API token in the OS keyring."`
		Status system.TokenStatusCmd `cmd:"" help:"Check keyring availability and token presence." default:"1"`
		Delete system.TokenDeleteCmd `cmd:"" help:"Remove the remote API token from the OS keyring."`
	} `cmd:"" help:"Manage the remote API token."`
	Category    hierarchy.CategoryCmd    `cmd:"" help:"Manage categories."`
	Subcategory hierarchy.SubcategoryCmd `cmd:"" help:"Manage subcategories."`
	Habit       habits.HabitCmd          `cmd:"" help:"Manage habits and daily progress."`
	Counter     counters.CounterCmd      `cmd:"" help:"Manage abstinence counters."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit streak and abstinence counter tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	config := expandPath(CLI.Store)

	// Remote backends authenticate with the keyring-held API token
	var token string
	if strings.HasPrefix(config, "http://") || strings.HasPrefix(config, "https://") {
		if t, err := keyring.GetToken(); err == nil {
			token = t
		}
	}

	if storage.HasEmbeddedCredentials(config) {
		fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
		fmt.Fprintf(os.Stderr, "       Use one of these secure alternatives:\n")
		fmt.Fprintf(os.Stderr, "       1. Environment:  export PGPASSWORD=...\n")
		fmt.Fprintf(os.Stderr, "       2. .pgpass file: use a connection string without a password\n")
		os.Exit(1)
	}

	store := storage.Select(config, token)
	configDir := localConfigDir(config)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cachePath := filepath.Join(configDir, constants.DayCacheFileName)
	g := guard.New(cachePath)

	appCtx := &cli.Context{
		Store:     store,
		Tracker:   tracker.New(store, g),
		Engine:    counter.NewEngine(),
		CachePath: cachePath,
		Yes:       CLI.Yes,
	}

	// Load the store before running the command (init handles its own setup)
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// localConfigDir picks the directory for logs and the day cache. Local
// sqlite stores keep them next to the database file; remote backends use
// the default config directory.
func localConfigDir(config string) string {
	switch {
	case strings.HasPrefix(config, "postgres://"), strings.HasPrefix(config, "postgresql://"),
		strings.HasPrefix(config, "http://"), strings.HasPrefix(config, "https://"):
		return filepath.Dir(expandPath(constants.DefaultConfigPath))
	default:
		return filepath.Dir(config)
	}
}

// expandPath resolves a leading ~ for sqlite file paths. Connection strings
// and URLs pass through untouched.
func expandPath(config string) string {
	if !strings.HasPrefix(config, "~") {
		return config
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return config
	}
	return filepath.Join(home, strings.TrimPrefix(config, "~"))
}
