package validation

import (
	"fmt"
	"strings"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

// Name checks that a user-supplied name is non-blank after trimming.
// field names the input for the error message ("category name", etc.).
func Name(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &errors.ValidationError{Field: field, Reason: "must not be blank"}
	}
	return nil
}

// DurationDays checks the habit duration goal against the allowed range.
func DurationDays(days int) error {
	if days < constants.MinDurationDays || days > constants.MaxDurationDays {
		return &errors.ValidationError{
			Field: "duration",
			Reason: fmt.Sprintf("must be between %d and %d days",
				constants.MinDurationDays, constants.MaxDurationDays),
		}
	}
	return nil
}

// HabitInput holds the user-editable habit fields, validated identically
// for create and edit.
type HabitInput struct {
	Name          string
	Description   string
	Icon          string
	CategoryID    string
	SubcategoryID string
	DurationDays  int
}

// Habit validates a habit's fields against the hierarchy tree: the name
// must be non-blank, the duration in range, and the subcategory must exist
// and belong to the named category.
func Habit(in HabitInput, tree []models.CategoryTree) error {
	if err := Name("habit name", in.Name); err != nil {
		return err
	}
	if err := DurationDays(in.DurationDays); err != nil {
		return err
	}
	return Link(in.CategoryID, in.SubcategoryID, tree)
}

// Link checks that categoryID exists in the tree and that subcategoryID
// is one of its subcategories.
func Link(categoryID, subcategoryID string, tree []models.CategoryTree) error {
	for _, cat := range tree {
		if cat.ID != categoryID {
			continue
		}
		for _, sub := range cat.Subcategories {
			if sub.ID == subcategoryID {
				return nil
			}
		}
		return &errors.ValidationError{
			Field:  "subcategory",
			Reason: fmt.Sprintf("subcategory %s does not belong to category %s", subcategoryID, categoryID),
		}
	}
	return &errors.NotFoundError{Entity: "category", ID: categoryID}
}
