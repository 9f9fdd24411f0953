package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/guard"
	"github.com/focusfortress/fortress/internal/logger"
	"github.com/focusfortress/fortress/internal/models"
	"github.com/focusfortress/fortress/internal/storage"
	"github.com/focusfortress/fortress/internal/validation"
)

// Tracker is the command surface over the backing store: hierarchy
// mutations, the habit progress state machine, and counter lifecycle.
// All input validation happens here, before any store call; the store
// stays the arbiter of canonical state.
type Tracker struct {
	store storage.Provider
	guard *guard.Guard
	now   func() time.Time
	subs  []func(habitName string)
}

func New(store storage.Provider, g *guard.Guard) *Tracker {
	return &Tracker{
		store: store,
		guard: g,
		now:   time.Now,
	}
}

// SubscribeCompletions registers an observer for habit completion events.
// Each observer is called exactly once per habit, at the instant its
// streak reaches the duration goal.
func (t *Tracker) SubscribeCompletions(fn func(habitName string)) {
	t.subs = append(t.subs, fn)
}

// MarkResult describes the outcome of a mark-done command.
type MarkResult struct {
	// Streak is the updated streak from the backing store. Zero when
	// Absorbed, in which case the next habit refresh carries the truth.
	Streak int
	// Completed is true when this command drove the habit into its
	// terminal done state.
	Completed bool
	// Absorbed is true when another client had already recorded today's
	// completion and the command collapsed into an idempotent no-op.
	Absorbed bool
}

// Hierarchy commands

func (t *Tracker) CreateCategory(name, icon string) (models.Category, error) {
	if err := validation.Name("category name", name); err != nil {
		return models.Category{}, err
	}
	if icon == "" {
		icon = constants.DefaultCategoryIcon
	}
	cat := models.Category{
		ID:   uuid.New().String(),
		Name: strings.TrimSpace(name),
		Icon: icon,
	}
	if err := t.store.AddCategory(cat); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

func (t *Tracker) UpdateCategory(id, name, icon string) error {
	if err := validation.Name("category name", name); err != nil {
		return err
	}
	cat, err := t.store.GetCategory(id)
	if err != nil {
		return err
	}
	cat.Name = strings.TrimSpace(name)
	if icon != "" {
		cat.Icon = icon
	}
	return t.store.UpdateCategory(cat)
}

// DeleteCategory refuses while the category owns subcategories. The
// check runs locally against the tree first so the common case never
// reaches the store; the store enforces the same rule authoritatively.
func (t *Tracker) DeleteCategory(id string) error {
	tree, err := t.store.Tree()
	if err != nil {
		return err
	}
	for _, cat := range tree {
		if cat.ID == id && len(cat.Subcategories) > 0 {
			return &errors.ConflictError{
				Code:    errors.CodeHasSubcategories,
				Message: "cannot delete category with subcategories",
			}
		}
	}
	return t.store.DeleteCategory(id)
}

func (t *Tracker) CreateSubcategory(name, icon, categoryID string) (models.Subcategory, error) {
	if err := validation.Name("subcategory name", name); err != nil {
		return models.Subcategory{}, err
	}
	if _, err := t.store.GetCategory(categoryID); err != nil {
		return models.Subcategory{}, err
	}
	if icon == "" {
		icon = constants.DefaultSubcategoryIcon
	}
	sub := models.Subcategory{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(name),
		Icon:       icon,
		CategoryID: categoryID,
	}
	if err := t.store.AddSubcategory(sub); err != nil {
		return models.Subcategory{}, err
	}
	return sub, nil
}

func (t *Tracker) UpdateSubcategory(id, name, icon string) error {
	if err := validation.Name("subcategory name", name); err != nil {
		return err
	}
	sub, err := t.store.GetSubcategory(id)
	if err != nil {
		return err
	}
	sub.Name = strings.TrimSpace(name)
	if icon != "" {
		sub.Icon = icon
	}
	return t.store.UpdateSubcategory(sub)
}

func (t *Tracker) DeleteSubcategory(id string) error {
	tree, err := t.store.Tree()
	if err != nil {
		return err
	}
	for _, cat := range tree {
		for _, sub := range cat.Subcategories {
			if sub.ID == id && len(sub.Habits) > 0 {
				return &errors.ConflictError{
					Code:    errors.CodeHasHabits,
					Message: "cannot delete subcategory with habits",
				}
			}
		}
	}
	return t.store.DeleteSubcategory(id)
}

// CanCreateHabit reports whether at least one category owns at least one
// subcategory; a habit cannot exist without a full parent chain.
func (t *Tracker) CanCreateHabit() (bool, error) {
	tree, err := t.store.Tree()
	if err != nil {
		return false, err
	}
	for _, cat := range tree {
		if len(cat.Subcategories) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (t *Tracker) Tree() ([]models.CategoryTree, error) {
	return t.store.Tree()
}

// Habit state machine

func (t *Tracker) CreateHabit(in validation.HabitInput) (models.Habit, error) {
	tree, err := t.store.Tree()
	if err != nil {
		return models.Habit{}, err
	}
	if err := validation.Habit(in, tree); err != nil {
		return models.Habit{}, err
	}
	icon := in.Icon
	if icon == "" {
		icon = constants.DefaultHabitIcon
	}
	h := models.Habit{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Icon:          icon,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		DurationDays:  in.DurationDays,
		CurrentStreak: 0,
		Done:          false,
	}
	if err := t.store.AddHabit(h); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// EditHabit overwrites the user-editable fields of an in-progress habit.
// Completed habits are immutable except for deletion.
func (t *Tracker) EditHabit(id string, in validation.HabitInput) (models.Habit, error) {
	h, err := t.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}
	if h.Done {
		return models.Habit{}, &errors.InvalidStateError{
			Message: "cannot edit a completed habit",
		}
	}

	tree, err := t.store.Tree()
	if err != nil {
		return models.Habit{}, err
	}
	if err := validation.Habit(in, tree); err != nil {
		return models.Habit{}, err
	}

	h.Name = strings.TrimSpace(in.Name)
	h.Description = in.Description
	if in.Icon != "" {
		h.Icon = in.Icon
	}
	h.CategoryID = in.CategoryID
	h.SubcategoryID = in.SubcategoryID
	h.DurationDays = in.DurationDays
	// CurrentStreak and Done deliberately untouched

	if err := t.store.UpdateHabit(h); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// MarkDone advances the habit's streak by one for today, routed through
// the idempotency guard. When the streak reaches the duration goal the
// habit transitions to done and every completion observer fires once.
func (t *Tracker) MarkDone(id string) (MarkResult, error) {
	h, err := t.store.GetHabit(id)
	if err != nil {
		return MarkResult{}, err
	}
	if h.Done {
		return MarkResult{}, &errors.InvalidStateError{
			Message: "habit already completed",
		}
	}

	streak, absorbed, err := t.guard.MarkDone(id, func(day string) (int, error) {
		return t.store.MarkDone(id, day)
	})
	if err != nil {
		return MarkResult{}, err
	}
	if absorbed {
		logger.Debug("Mark-done absorbed as idempotent no-op", "habit", id)
		return MarkResult{Absorbed: true}, nil
	}

	res := MarkResult{Streak: streak}
	if streak >= h.DurationDays {
		res.Completed = true
		for _, fn := range t.subs {
			fn(h.Name)
		}
	}
	return res, nil
}

// DeleteHabit removes the habit in either lifecycle state and clears its
// day-cache entry. Confirmation wording is the caller's concern.
func (t *Tracker) DeleteHabit(id string) error {
	if err := t.store.DeleteHabit(id); err != nil {
		return err
	}
	t.guard.Forget(id)
	return nil
}

func (t *Tracker) GetHabit(id string) (models.Habit, error) {
	return t.store.GetHabit(id)
}

func (t *Tracker) Habits() ([]models.Habit, error) {
	return t.store.GetAllHabits()
}

// IsMarkedToday reports whether the habit's mark-done control should be
// disabled for the rest of the day.
func (t *Tracker) IsMarkedToday(id string) bool {
	return t.guard.IsMarked(id)
}

// Counter lifecycle

func (t *Tracker) CreateCounter(name, description, icon string) (models.Counter, error) {
	if err := validation.Name("counter name", name); err != nil {
		return models.Counter{}, err
	}
	if icon == "" {
		icon = constants.DefaultCounterIcon
	}
	c := models.Counter{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(name),
		Description:   description,
		Icon:          icon,
		StartDateTime: t.now(),
	}
	if err := t.store.AddCounter(c); err != nil {
		return models.Counter{}, err
	}
	return c, nil
}

func (t *Tracker) UpdateCounter(id, name, description, icon string) error {
	if err := validation.Name("counter name", name); err != nil {
		return err
	}
	c, err := t.store.GetCounter(id)
	if err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Description = description
	if icon != "" {
		c.Icon = icon
	}
	return t.store.UpdateCounter(c)
}

// ResetCounter rebases the counter's start to now, zeroing its displayed
// duration.
func (t *Tracker) ResetCounter(id string) error {
	if _, err := t.store.GetCounter(id); err != nil {
		return err
	}
	return t.store.ResetCounter(id, t.now())
}

func (t *Tracker) DeleteCounter(id string) error {
	return t.store.DeleteCounter(id)
}

func (t *Tracker) Counters() ([]models.Counter, error) {
	return t.store.GetAllCounters()
}
