package sqlite

import (
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedHierarchy(t *testing.T, store *Store) (models.Category, models.Subcategory) {
	t.Helper()
	cat := models.Category{ID: "cat-1", Name: "Health", Icon: "📚"}
	if err := store.AddCategory(cat); err != nil {
		t.Fatalf("failed to add category: %v", err)
	}
	sub := models.Subcategory{ID: "sub-1", Name: "Gym", Icon: "📖", CategoryID: cat.ID}
	if err := store.AddSubcategory(sub); err != nil {
		t.Fatalf("failed to add subcategory: %v", err)
	}
	return cat, sub
}

func seedHabit(t *testing.T, store *Store, id string, durationDays int) models.Habit {
	t.Helper()
	cat, sub := seedHierarchy(t, store)
	h := models.Habit{
		ID:            id,
		Name:          "Workout",
		Icon:          "🎯",
		CategoryID:    cat.ID,
		SubcategoryID: sub.ID,
		DurationDays:  durationDays,
	}
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return h
}

func TestLoadBeforeInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on a missing database should fail")
	}
}

func TestCategoryCRUD(t *testing.T) {
	store := setupTestStore(t)

	cat := models.Category{ID: "cat-1", Name: "Health", Icon: "📚"}
	if err := store.AddCategory(cat); err != nil {
		t.Fatalf("AddCategory() error: %v", err)
	}

	got, err := store.GetCategory("cat-1")
	if err != nil {
		t.Fatalf("GetCategory() error: %v", err)
	}
	if got != cat {
		t.Errorf("GetCategory() = %+v, want %+v", got, cat)
	}

	cat.Name = "Wellness"
	if err := store.UpdateCategory(cat); err != nil {
		t.Fatalf("UpdateCategory() error: %v", err)
	}
	got, _ = store.GetCategory("cat-1")
	if got.Name != "Wellness" {
		t.Errorf("name after update = %q, want Wellness", got.Name)
	}

	if err := store.DeleteCategory("cat-1"); err != nil {
		t.Fatalf("DeleteCategory() error: %v", err)
	}
	if _, err := store.GetCategory("cat-1"); !errors.IsNotFound(err) {
		t.Errorf("GetCategory() after delete = %v, want NotFoundError", err)
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetCategory("nope"); !errors.IsNotFound(err) {
		t.Errorf("error = %v, want NotFoundError", err)
	}
}

func TestDeleteCategoryWithSubcategories(t *testing.T) {
	store := setupTestStore(t)
	cat, _ := seedHierarchy(t, store)

	err := store.DeleteCategory(cat.ID)
	var conflict *errors.ConflictError
	if !stderrors.As(err, &conflict) || conflict.Code != errors.CodeHasSubcategories {
		t.Errorf("error = %v, want ConflictError with has_subcategories", err)
	}

	// The category survives
	if _, err := store.GetCategory(cat.ID); err != nil {
		t.Errorf("category should still exist: %v", err)
	}
}

func TestDeleteSubcategoryWithHabits(t *testing.T) {
	store := setupTestStore(t)
	h := seedHabit(t, store, "h-1", 21)

	err := store.DeleteSubcategory(h.SubcategoryID)
	var conflict *errors.ConflictError
	if !stderrors.As(err, &conflict) || conflict.Code != errors.CodeHasHabits {
		t.Errorf("error = %v, want ConflictError with has_habits", err)
	}
}

func TestTree(t *testing.T) {
	store := setupTestStore(t)
	h := seedHabit(t, store, "h-1", 21)

	tree, err := store.Tree()
	if err != nil {
		t.Fatalf("Tree() error: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("expected 1 category in tree, got %d", len(tree))
	}
	if len(tree[0].Subcategories) != 1 {
		t.Fatalf("expected 1 subcategory, got %d", len(tree[0].Subcategories))
	}
	habits := tree[0].Subcategories[0].Habits
	if len(habits) != 1 || habits[0].ID != h.ID {
		t.Errorf("habits under subcategory = %+v, want [%s]", habits, h.ID)
	}
}

func TestMarkDoneStreakProgression(t *testing.T) {
	store := setupTestStore(t)
	seedHabit(t, store, "h-1", 3)

	days := []string{"2026-03-01", "2026-03-02", "2026-03-03"}
	for i, day := range days {
		streak, err := store.MarkDone("h-1", day)
		if err != nil {
			t.Fatalf("MarkDone(%s) error: %v", day, err)
		}
		if streak != i+1 {
			t.Errorf("streak on %s = %d, want %d", day, streak, i+1)
		}
	}

	h, err := store.GetHabit("h-1")
	if err != nil {
		t.Fatal(err)
	}
	if h.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", h.CurrentStreak)
	}
	if !h.Done {
		t.Error("habit should be done after reaching its duration goal")
	}
}

func TestMarkDoneSameDayConflict(t *testing.T) {
	store := setupTestStore(t)
	seedHabit(t, store, "h-1", 21)

	if _, err := store.MarkDone("h-1", "2026-03-01"); err != nil {
		t.Fatalf("first mark error: %v", err)
	}

	_, err := store.MarkDone("h-1", "2026-03-01")
	if !errors.IsAlreadyMarked(err) {
		t.Errorf("second mark error = %v, want already_marked conflict", err)
	}

	// Streak unchanged
	h, _ := store.GetHabit("h-1")
	if h.CurrentStreak != 1 {
		t.Errorf("CurrentStreak after rejected repeat = %d, want 1", h.CurrentStreak)
	}
}

func TestMarkDoneGapResetsStreak(t *testing.T) {
	store := setupTestStore(t)
	seedHabit(t, store, "h-1", 21)

	if _, err := store.MarkDone("h-1", "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.MarkDone("h-1", "2026-03-02"); err != nil {
		t.Fatal(err)
	}

	// A missed day breaks the chain
	streak, err := store.MarkDone("h-1", "2026-03-04")
	if err != nil {
		t.Fatal(err)
	}
	if streak != 1 {
		t.Errorf("streak after gap = %d, want 1", streak)
	}
}

func TestMarkDoneCompletedHabitRejected(t *testing.T) {
	store := setupTestStore(t)
	seedHabit(t, store, "h-1", 1)

	streak, err := store.MarkDone("h-1", "2026-03-01")
	if err != nil || streak != 1 {
		t.Fatalf("mark = (%d, %v), want (1, nil)", streak, err)
	}

	h, _ := store.GetHabit("h-1")
	if !h.Done {
		t.Fatal("habit should be done")
	}

	// Done is terminal; even a later day is refused
	_, err = store.MarkDone("h-1", "2026-03-02")
	if !errors.IsAlreadyMarked(err) {
		t.Errorf("mark on completed habit = %v, want already_marked conflict", err)
	}
}

func TestMarkDoneUnknownHabit(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.MarkDone("nope", "2026-03-01"); !errors.IsNotFound(err) {
		t.Errorf("error = %v, want NotFoundError", err)
	}
}

func TestDeleteHabitRemovesProgress(t *testing.T) {
	store := setupTestStore(t)
	seedHabit(t, store, "h-1", 21)

	if _, err := store.MarkDone("h-1", "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteHabit("h-1"); err != nil {
		t.Fatalf("DeleteHabit() error: %v", err)
	}

	var count int
	row := store.db.QueryRow("SELECT count(*) FROM habit_progress WHERE habit_id = ?", "h-1")
	if err := row.Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("progress rows after delete = %d, want 0", count)
	}
}

func TestCounterRoundTripAndReset(t *testing.T) {
	store := setupTestStore(t)

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	c := models.Counter{ID: "c-1", Name: "no sugar", Icon: "⏱️", StartDateTime: start}
	if err := store.AddCounter(c); err != nil {
		t.Fatalf("AddCounter() error: %v", err)
	}

	got, err := store.GetCounter("c-1")
	if err != nil {
		t.Fatalf("GetCounter() error: %v", err)
	}
	if !got.StartDateTime.Equal(start) {
		t.Errorf("StartDateTime = %v, want %v", got.StartDateTime, start)
	}

	newStart := start.AddDate(0, 0, 5)
	if err := store.ResetCounter("c-1", newStart); err != nil {
		t.Fatalf("ResetCounter() error: %v", err)
	}
	got, _ = store.GetCounter("c-1")
	if !got.StartDateTime.Equal(newStart) {
		t.Errorf("StartDateTime after reset = %v, want %v", got.StartDateTime, newStart)
	}

	if err := store.ResetCounter("nope", newStart); !errors.IsNotFound(err) {
		t.Errorf("reset of unknown counter = %v, want NotFoundError", err)
	}
}
