package models

import "time"

// Category is the top level of the habit classification hierarchy.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Subcategory belongs to exactly one Category. Habits hang off subcategories,
// never directly off a category.
type Subcategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	CategoryID string `json:"categoryId"`
}

// Habit is a tracked daily practice working toward a duration goal.
// CurrentStreak counts consecutive recorded days ending today; once it
// reaches DurationDays the habit is done and stays done until deleted.
type Habit struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Icon          string `json:"icon"`
	CategoryID    string `json:"categoryId"`
	SubcategoryID string `json:"subcategoryId"`
	DurationDays  int    `json:"durationDays"`
	CurrentStreak int    `json:"currentStreak"`
	Done          bool   `json:"done"`
}

// Counter tracks continuous abstinence from a named behavior since a start
// timestamp. Its displayed duration is derived, never stored.
type Counter struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Icon          string    `json:"icon"`
	StartDateTime time.Time `json:"startDateTime"`
}

// SubcategoryTree is a subcategory with its habits, as returned by the
// backing store's tree fetch.
type SubcategoryTree struct {
	Subcategory
	Habits []Habit `json:"habits"`
}

// CategoryTree is a category with its full subcategory(→habit) nesting.
type CategoryTree struct {
	Category
	Subcategories []SubcategoryTree `json:"subcategories"`
}
