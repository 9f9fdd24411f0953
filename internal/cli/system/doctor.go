package system

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/focusfortress/fortress/internal/cli"
	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/guard"
	"github.com/focusfortress/fortress/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: backing store reachable
	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Backing store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Backing store reachable: OK\n")
		storeReachable = true
	}

	// Check 2: hierarchy readable (only if store is reachable)
	if storeReachable {
		if err := checkHierarchy(ctx); err != nil {
			fmt.Printf("❌ Hierarchy readable: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Hierarchy readable: OK\n")
		}
	} else {
		fmt.Printf("⊘ Hierarchy readable: SKIPPED (store not reachable)\n")
	}

	// Check 3: habit integrity (only if store is reachable)
	if storeReachable {
		if err := checkHabitIntegrity(ctx); err != nil {
			fmt.Printf("❌ Habit integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Habit integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Habit integrity: SKIPPED (store not reachable)\n")
	}

	// Check 4: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 5: day cache freshness (warning only)
	if err := checkDayCache(ctx); err != nil {
		fmt.Printf("⚠ Day cache: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Day cache: OK\n")
	}

	// Check 6: OS keyring (warning only; only needed for remote stores)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   keyring unavailable; remote API tokens cannot be stored\n")
	}

	// Check 7: duplicate fortress processes (warning only)
	if err := checkDuplicateProcess(); err != nil {
		fmt.Printf("⚠ Single process: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single process: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load backing store: %w", err)
	}
	return nil
}

func checkHierarchy(ctx *cli.Context) error {
	tree, err := ctx.Store.Tree()
	if err != nil {
		return fmt.Errorf("failed to fetch hierarchy: %w", err)
	}

	seen := make(map[string]bool)
	for _, cat := range tree {
		if seen[cat.ID] {
			return fmt.Errorf("duplicate category ID found: %s", cat.ID)
		}
		seen[cat.ID] = true
	}
	return nil
}

func checkHabitIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	for _, h := range habits {
		if h.DurationDays < constants.MinDurationDays || h.DurationDays > constants.MaxDurationDays {
			return fmt.Errorf("habit %q has out-of-range duration %d", h.Name, h.DurationDays)
		}
		if h.CurrentStreak > h.DurationDays {
			return fmt.Errorf("habit %q has streak %d beyond its %d day goal", h.Name, h.CurrentStreak, h.DurationDays)
		}
		if h.Done && h.CurrentStreak < h.DurationDays {
			return fmt.Errorf("habit %q is done with an incomplete streak %d/%d", h.Name, h.CurrentStreak, h.DurationDays)
		}
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation(now.Location().String()); err != nil {
		return fmt.Errorf("local timezone %q not resolvable: %w", now.Location(), err)
	}
	return nil
}

// checkDayCache flags a cache stamped with a day other than today. A stale
// cache is harmless (it is discarded on next use) but worth surfacing.
func checkDayCache(ctx *cli.Context) error {
	data, err := os.ReadFile(ctx.CachePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("day cache unreadable: %v", err)
	}

	var cache guard.DayCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return fmt.Errorf("day cache corrupt, it will be rebuilt on next mark-done: %v", err)
	}

	today := time.Now().Format(constants.DateFormat)
	if cache.Day != "" && cache.Day != today {
		return fmt.Errorf("day cache is stamped %s, it will be discarded on next use", cache.Day)
	}
	return nil
}

func checkDuplicateProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %v", err)
	}

	count := 0
	for _, p := range procs {
		name := p.Executable()
		name = strings.TrimSuffix(name, ".exe")
		if name == constants.AppName {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("found %d running fortress processes; concurrent local writes may conflict", count)
	}
	return nil
}
