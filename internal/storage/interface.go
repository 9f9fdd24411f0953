package storage

import (
	"time"

	"github.com/focusfortress/fortress/internal/models"
)

// Provider is the backing-store contract. The store is the arbiter of
// canonical state: streaks, done flags, and "already marked today"
// conflicts all come from here, never from local caches.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Categories
	AddCategory(models.Category) error
	GetCategory(id string) (models.Category, error)
	GetAllCategories() ([]models.Category, error)
	UpdateCategory(models.Category) error
	DeleteCategory(id string) error

	// Subcategories
	AddSubcategory(models.Subcategory) error
	GetSubcategory(id string) (models.Subcategory, error)
	GetSubcategories(categoryID string) ([]models.Subcategory, error)
	UpdateSubcategory(models.Subcategory) error
	DeleteSubcategory(id string) error

	// Tree returns the full Category→Subcategory→Habit nesting.
	Tree() ([]models.CategoryTree, error)

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// MarkDone records a completion for the given calendar day
	// (YYYY-MM-DD) and returns the updated streak. A second call for the
	// same day fails with a ConflictError carrying CodeAlreadyMarked.
	// Remote stores may ignore day and use their own clock.
	MarkDone(id string, day string) (int, error)

	// Counters
	AddCounter(models.Counter) error
	GetCounter(id string) (models.Counter, error)
	GetAllCounters() ([]models.Counter, error)
	UpdateCounter(models.Counter) error
	DeleteCounter(id string) error
	ResetCounter(id string, start time.Time) error

	// Utils
	GetConfigPath() string
}
