package tracker

import (
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/guard"
	"github.com/focusfortress/fortress/internal/models"
	"github.com/focusfortress/fortress/internal/storage/sqlite"
	"github.com/focusfortress/fortress/internal/validation"
)

// fakeClock lets tests advance across calendar days.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestTracker(t *testing.T, clock *fakeClock) *Tracker {
	t.Helper()
	dir := t.TempDir()

	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	g := guard.NewWithClock(filepath.Join(dir, "marked-done.json"), clock.Now)
	return New(store, g)
}

func seedHabit(t *testing.T, tr *Tracker, durationDays int) models.Habit {
	t.Helper()
	cat, err := tr.CreateCategory("Health", "")
	if err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}
	sub, err := tr.CreateSubcategory("Gym", "", cat.ID)
	if err != nil {
		t.Fatalf("CreateSubcategory() error: %v", err)
	}
	h, err := tr.CreateHabit(validation.HabitInput{
		Name:          "Workout",
		CategoryID:    cat.ID,
		SubcategoryID: sub.ID,
		DurationDays:  durationDays,
	})
	if err != nil {
		t.Fatalf("CreateHabit() error: %v", err)
	}
	return h
}

func TestThreeDayCompletion(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)
	h := seedHabit(t, tr, 3)

	var completions []string
	tr.SubscribeCompletions(func(name string) {
		completions = append(completions, name)
	})

	// Day 1
	res, err := tr.MarkDone(h.ID)
	if err != nil {
		t.Fatalf("day 1 MarkDone() error: %v", err)
	}
	if res.Streak != 1 || res.Completed {
		t.Errorf("day 1 = %+v, want streak 1, not completed", res)
	}
	if !tr.IsMarkedToday(h.ID) {
		t.Error("habit should be marked for today after day 1")
	}

	// Same day repeat is rejected locally
	if _, err := tr.MarkDone(h.ID); !errors.IsAlreadyDone(err) {
		t.Errorf("same-day repeat error = %v, want AlreadyDoneError", err)
	}

	// Day 2
	clock.Advance(24 * time.Hour)
	if tr.IsMarkedToday(h.ID) {
		t.Error("yesterday's mark must not survive the rollover")
	}
	res, err = tr.MarkDone(h.ID)
	if err != nil {
		t.Fatalf("day 2 MarkDone() error: %v", err)
	}
	if res.Streak != 2 || res.Completed {
		t.Errorf("day 2 = %+v, want streak 2, not completed", res)
	}
	if len(completions) != 0 {
		t.Errorf("no completion should have fired yet, got %v", completions)
	}

	// Day 3 completes the habit
	clock.Advance(24 * time.Hour)
	res, err = tr.MarkDone(h.ID)
	if err != nil {
		t.Fatalf("day 3 MarkDone() error: %v", err)
	}
	if res.Streak != 3 || !res.Completed {
		t.Errorf("day 3 = %+v, want streak 3, completed", res)
	}
	if len(completions) != 1 || completions[0] != "Workout" {
		t.Errorf("completions = %v, want exactly one for Workout", completions)
	}

	got, err := tr.GetHabit(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Done || got.CurrentStreak != 3 {
		t.Errorf("habit after completion = %+v, want done with streak 3", got)
	}

	// Done is terminal
	clock.Advance(24 * time.Hour)
	if _, err := tr.MarkDone(h.ID); err == nil {
		t.Error("marking a completed habit should fail")
	} else {
		var state *errors.InvalidStateError
		if !stderrors.As(err, &state) {
			t.Errorf("error = %v, want InvalidStateError", err)
		}
	}
	if len(completions) != 1 {
		t.Errorf("completion observer fired %d times, want exactly 1", len(completions))
	}
}

func TestEditCompletedHabitRejected(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)
	h := seedHabit(t, tr, 1)

	if _, err := tr.MarkDone(h.ID); err != nil {
		t.Fatal(err)
	}

	_, err := tr.EditHabit(h.ID, validation.HabitInput{
		Name:          "Renamed",
		CategoryID:    h.CategoryID,
		SubcategoryID: h.SubcategoryID,
		DurationDays:  h.DurationDays,
	})
	var state *errors.InvalidStateError
	if !stderrors.As(err, &state) {
		t.Errorf("edit of completed habit = %v, want InvalidStateError", err)
	}
}

func TestEditPreservesProgress(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)
	h := seedHabit(t, tr, 5)

	if _, err := tr.MarkDone(h.ID); err != nil {
		t.Fatal(err)
	}

	updated, err := tr.EditHabit(h.ID, validation.HabitInput{
		Name:          "Morning workout",
		CategoryID:    h.CategoryID,
		SubcategoryID: h.SubcategoryID,
		DurationDays:  10,
	})
	if err != nil {
		t.Fatalf("EditHabit() error: %v", err)
	}
	if updated.Name != "Morning workout" || updated.DurationDays != 10 {
		t.Errorf("updated = %+v", updated)
	}
	if updated.CurrentStreak != 1 || updated.Done {
		t.Errorf("edit must not touch progress: %+v", updated)
	}
}

func TestDeleteHabitClearsDayCache(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)
	h := seedHabit(t, tr, 3)

	if _, err := tr.MarkDone(h.ID); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit() error: %v", err)
	}
	if tr.IsMarkedToday(h.ID) {
		t.Error("deleted habit must not linger in the day cache")
	}
}

func TestCanCreateHabit(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)

	ok, err := tr.CanCreateHabit()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("CanCreateHabit() = true with an empty hierarchy")
	}

	cat, err := tr.CreateCategory("Health", "")
	if err != nil {
		t.Fatal(err)
	}
	ok, _ = tr.CanCreateHabit()
	if ok {
		t.Error("CanCreateHabit() = true with a category but no subcategory")
	}

	if _, err := tr.CreateSubcategory("Gym", "", cat.ID); err != nil {
		t.Fatal(err)
	}
	ok, _ = tr.CanCreateHabit()
	if !ok {
		t.Error("CanCreateHabit() = false with a full parent chain available")
	}
}

func TestDeleteCategoryWithChildren(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)
	h := seedHabit(t, tr, 3)

	err := tr.DeleteCategory(h.CategoryID)
	var conflict *errors.ConflictError
	if !stderrors.As(err, &conflict) || conflict.Code != errors.CodeHasSubcategories {
		t.Errorf("error = %v, want has_subcategories conflict", err)
	}

	err = tr.DeleteSubcategory(h.SubcategoryID)
	if !stderrors.As(err, &conflict) || conflict.Code != errors.CodeHasHabits {
		t.Errorf("error = %v, want has_habits conflict", err)
	}

	// Delete bottom-up succeeds
	if err := tr.DeleteHabit(h.ID); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteSubcategory(h.SubcategoryID); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteCategory(h.CategoryID); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIcons(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)

	cat, err := tr.CreateCategory("Health", "")
	if err != nil {
		t.Fatal(err)
	}
	if cat.Icon != constants.DefaultCategoryIcon {
		t.Errorf("category icon = %q, want default", cat.Icon)
	}

	sub, err := tr.CreateSubcategory("Gym", "", cat.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Icon != constants.DefaultSubcategoryIcon {
		t.Errorf("subcategory icon = %q, want default", sub.Icon)
	}

	h, err := tr.CreateHabit(validation.HabitInput{
		Name:          "Workout",
		CategoryID:    cat.ID,
		SubcategoryID: sub.ID,
		DurationDays:  21,
	})
	if err != nil {
		t.Fatal(err)
	}
	if h.Icon != constants.DefaultHabitIcon {
		t.Errorf("habit icon = %q, want default", h.Icon)
	}
}

func TestCreateValidation(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)

	if _, err := tr.CreateCategory("  ", ""); err == nil {
		t.Error("blank category name should be rejected")
	}

	cat, _ := tr.CreateCategory("Health", "")
	sub, _ := tr.CreateSubcategory("Gym", "", cat.ID)

	if _, err := tr.CreateHabit(validation.HabitInput{
		Name:          "Workout",
		CategoryID:    cat.ID,
		SubcategoryID: sub.ID,
		DurationDays:  0,
	}); err == nil {
		t.Error("zero duration should be rejected")
	}

	if _, err := tr.CreateHabit(validation.HabitInput{
		Name:          "Workout",
		CategoryID:    "cat-99",
		SubcategoryID: sub.ID,
		DurationDays:  21,
	}); err == nil {
		t.Error("unknown category should be rejected")
	}
}

func TestCounterLifecycle(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, clock)
	tr.now = clock.Now

	c, err := tr.CreateCounter("no sugar", "cutting it out", "")
	if err != nil {
		t.Fatalf("CreateCounter() error: %v", err)
	}
	if !c.StartDateTime.Equal(clock.current) {
		t.Errorf("StartDateTime = %v, want %v", c.StartDateTime, clock.current)
	}
	if c.Icon != constants.DefaultCounterIcon {
		t.Errorf("counter icon = %q, want default", c.Icon)
	}

	clock.Advance(48 * time.Hour)
	if err := tr.ResetCounter(c.ID); err != nil {
		t.Fatalf("ResetCounter() error: %v", err)
	}

	counters, err := tr.Counters()
	if err != nil {
		t.Fatal(err)
	}
	if len(counters) != 1 {
		t.Fatalf("expected 1 counter, got %d", len(counters))
	}
	if !counters[0].StartDateTime.Equal(clock.current) {
		t.Errorf("StartDateTime after reset = %v, want %v", counters[0].StartDateTime, clock.current)
	}

	if err := tr.DeleteCounter(c.ID); err != nil {
		t.Fatal(err)
	}
	if err := tr.ResetCounter(c.ID); !errors.IsNotFound(err) {
		t.Errorf("reset after delete = %v, want NotFoundError", err)
	}
}
