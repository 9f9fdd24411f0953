package guard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/focusfortress/fortress/internal/errors"
)

func newTestGuard(t *testing.T, now func() time.Time) *Guard {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marked-done.json")
	return NewWithClock(path, now)
}

func fixedClock(day time.Time) func() time.Time {
	return func() time.Time { return day }
}

func TestMarkDoneRecordsAndSuppressesRepeat(t *testing.T) {
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := newTestGuard(t, fixedClock(day))

	calls := 0
	streak, absorbed, err := g.MarkDone("habit-1", func(d string) (int, error) {
		calls++
		if d != "2026-03-01" {
			t.Errorf("call received day %q, want 2026-03-01", d)
		}
		return 4, nil
	})
	if err != nil {
		t.Fatalf("MarkDone() error: %v", err)
	}
	if absorbed {
		t.Error("first mark should not be absorbed")
	}
	if streak != 4 {
		t.Errorf("streak = %d, want 4", streak)
	}
	if !g.IsMarked("habit-1") {
		t.Error("habit should be marked after success")
	}

	// Second mark the same day never reaches the store
	_, _, err = g.MarkDone("habit-1", func(d string) (int, error) {
		calls++
		return 0, nil
	})
	if !errors.IsAlreadyDone(err) {
		t.Errorf("second mark error = %v, want AlreadyDoneError", err)
	}
	if calls != 1 {
		t.Errorf("store called %d times, want 1", calls)
	}
}

func TestMarkDoneFailureLeavesCacheUntouched(t *testing.T) {
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := newTestGuard(t, fixedClock(day))

	wantErr := &errors.NotFoundError{Entity: "habit", ID: "habit-1"}
	_, _, err := g.MarkDone("habit-1", func(d string) (int, error) {
		return 0, wantErr
	})
	if !errors.IsNotFound(err) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if g.IsMarked("habit-1") {
		t.Error("failed mark must not be cached, retry should be possible")
	}

	// Retry succeeds
	streak, _, err := g.MarkDone("habit-1", func(d string) (int, error) {
		return 1, nil
	})
	if err != nil || streak != 1 {
		t.Errorf("retry = (%d, %v), want (1, nil)", streak, err)
	}
}

func TestMarkDoneAbsorbsStoreConflict(t *testing.T) {
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := newTestGuard(t, fixedClock(day))

	streak, absorbed, err := g.MarkDone("habit-1", func(d string) (int, error) {
		return 0, &errors.ConflictError{
			Code:    errors.CodeAlreadyMarked,
			Message: "already marked done today",
		}
	})
	if err != nil {
		t.Fatalf("conflict should be absorbed, got error: %v", err)
	}
	if !absorbed {
		t.Error("absorbed = false, want true")
	}
	if streak != 0 {
		t.Errorf("streak = %d, want 0 (no fabricated progress)", streak)
	}
	if !g.IsMarked("habit-1") {
		t.Error("absorbed conflict should still cache the habit for today")
	}
}

func TestDayRolloverDiscardsCache(t *testing.T) {
	current := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	g := newTestGuard(t, func() time.Time { return current })

	if _, _, err := g.MarkDone("habit-1", func(d string) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("MarkDone() error: %v", err)
	}
	if !g.IsMarked("habit-1") {
		t.Fatal("habit should be marked today")
	}

	// Midnight passes
	current = current.Add(2 * time.Hour)

	if g.IsMarked("habit-1") {
		t.Error("yesterday's mark must not survive the day rollover")
	}

	streak, _, err := g.MarkDone("habit-1", func(d string) (int, error) {
		if d != "2026-03-02" {
			t.Errorf("call received day %q, want 2026-03-02", d)
		}
		return 2, nil
	})
	if err != nil || streak != 2 {
		t.Errorf("mark on new day = (%d, %v), want (2, nil)", streak, err)
	}
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marked-done.json")
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	g := NewWithClock(path, fixedClock(day))
	if _, _, err := g.MarkDone("habit-1", func(d string) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("MarkDone() error: %v", err)
	}

	// Same day, fresh process
	g2 := NewWithClock(path, fixedClock(day.Add(time.Hour)))
	if !g2.IsMarked("habit-1") {
		t.Error("fresh instance should load the same-day cache")
	}

	// Next day, fresh process
	g3 := NewWithClock(path, fixedClock(day.AddDate(0, 0, 1)))
	if g3.IsMarked("habit-1") {
		t.Error("fresh instance must discard a cache from another day")
	}
}

func TestCorruptCacheTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marked-done.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := NewWithClock(path, fixedClock(day))

	if g.IsMarked("habit-1") {
		t.Error("corrupt cache should read as empty")
	}
	if _, _, err := g.MarkDone("habit-1", func(d string) (int, error) { return 1, nil }); err != nil {
		t.Errorf("MarkDone() after corrupt cache: %v", err)
	}
}

func TestForgetClearsEntry(t *testing.T) {
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := newTestGuard(t, fixedClock(day))

	if _, _, err := g.MarkDone("habit-1", func(d string) (int, error) { return 1, nil }); err != nil {
		t.Fatal(err)
	}
	g.Forget("habit-1")
	if g.IsMarked("habit-1") {
		t.Error("Forget() should clear the entry")
	}
}

func TestDayCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marked-done.json")

	in := DayCache{Day: "2026-03-01", HabitIDs: []string{"b", "a"}}
	if err := saveDayCache(path, in); err != nil {
		t.Fatalf("saveDayCache() error: %v", err)
	}

	out := loadDayCache(path)
	if out.Day != "2026-03-01" {
		t.Errorf("Day = %q, want 2026-03-01", out.Day)
	}
	if len(out.HabitIDs) != 2 || out.HabitIDs[0] != "a" || out.HabitIDs[1] != "b" {
		t.Errorf("HabitIDs = %v, want sorted [a b]", out.HabitIDs)
	}
}

func TestLoadDayCacheMissingFile(t *testing.T) {
	out := loadDayCache(filepath.Join(t.TempDir(), "missing.json"))
	if out.Day != "" || len(out.HabitIDs) != 0 {
		t.Errorf("missing file should load as empty cache, got %+v", out)
	}
}
