package validation

import (
	"testing"

	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

func TestName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid name", "Workout", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"leading and trailing spaces", "  Workout  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Name("habit name", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Name(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		wantErr bool
	}{
		{"minimum", 1, false},
		{"default", 21, false},
		{"maximum", 365, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"over maximum", 366, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DurationDays(tt.days)
			if (err != nil) != tt.wantErr {
				t.Errorf("DurationDays(%d) error = %v, wantErr %v", tt.days, err, tt.wantErr)
			}
		})
	}
}

func testTree() []models.CategoryTree {
	return []models.CategoryTree{
		{
			Category: models.Category{ID: "cat-1", Name: "Health"},
			Subcategories: []models.SubcategoryTree{
				{Subcategory: models.Subcategory{ID: "sub-1", Name: "Gym", CategoryID: "cat-1"}},
			},
		},
		{
			Category: models.Category{ID: "cat-2", Name: "Learning"},
			Subcategories: []models.SubcategoryTree{
				{Subcategory: models.Subcategory{ID: "sub-2", Name: "Reading", CategoryID: "cat-2"}},
			},
		},
	}
}

func TestHabit(t *testing.T) {
	valid := HabitInput{
		Name:          "Workout",
		CategoryID:    "cat-1",
		SubcategoryID: "sub-1",
		DurationDays:  21,
	}

	t.Run("valid input", func(t *testing.T) {
		if err := Habit(valid, testTree()); err != nil {
			t.Errorf("Habit() error = %v, want nil", err)
		}
	})

	t.Run("blank name", func(t *testing.T) {
		in := valid
		in.Name = " "
		if err := Habit(in, testTree()); err == nil {
			t.Error("expected validation error for blank name")
		}
	})

	t.Run("duration out of range", func(t *testing.T) {
		in := valid
		in.DurationDays = 0
		if err := Habit(in, testTree()); err == nil {
			t.Error("expected validation error for zero duration")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		in := valid
		in.CategoryID = "cat-99"
		err := Habit(in, testTree())
		if !errors.IsNotFound(err) {
			t.Errorf("error = %v, want NotFoundError", err)
		}
	})

	t.Run("subcategory under wrong category", func(t *testing.T) {
		in := valid
		in.SubcategoryID = "sub-2"
		if err := Habit(in, testTree()); err == nil {
			t.Error("expected validation error for mismatched subcategory")
		}
	})
}
