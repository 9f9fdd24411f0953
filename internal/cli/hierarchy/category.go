package hierarchy

import (
	"fmt"

	"github.com/focusfortress/fortress/internal/cli"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a new category."`
	List   CategoryListCmd   `cmd:"" help:"List categories and their subcategories."`
	Edit   CategoryEditCmd   `cmd:"" help:"Rename a category or change its icon."`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete an empty category."`
}

type CategoryAddCmd struct {
	Name string `arg:"" help:"Category name."`
	Icon string `help:"Icon for the category." default:""`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.Tracker.CreateCategory(c.Name, c.Icon)
	if err != nil {
		return err
	}
	fmt.Printf("Added category: %s %s\n", cat.Icon, cat.Name)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	tree, err := ctx.Tracker.Tree()
	if err != nil {
		return err
	}
	if len(tree) == 0 {
		fmt.Println("No categories found.")
		return nil
	}
	for _, cat := range tree {
		fmt.Printf("%s %s\n", cat.Icon, cat.Name)
		for _, sub := range cat.Subcategories {
			fmt.Printf("  %s %s (%d habits)\n", sub.Icon, sub.Name, len(sub.Habits))
		}
	}
	return nil
}

type CategoryEditCmd struct {
	Name    string `arg:"" help:"Current category name."`
	NewName string `help:"New name." default:""`
	Icon    string `help:"New icon." default:""`
}

func (c *CategoryEditCmd) Run(ctx *cli.Context) error {
	cat, err := FindCategory(ctx, c.Name)
	if err != nil {
		return err
	}
	name := c.NewName
	if name == "" {
		name = cat.Name
	}
	if err := ctx.Tracker.UpdateCategory(cat.ID, name, c.Icon); err != nil {
		return err
	}
	fmt.Printf("Updated category: %s\n", name)
	return nil
}

type CategoryDeleteCmd struct {
	Name string `arg:"" help:"Category name to delete."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	cat, err := FindCategory(ctx, c.Name)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm("Delete category?",
		fmt.Sprintf("This removes the category %q.", cat.Name))
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.DeleteCategory(cat.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted category: %s\n", cat.Name)
	return nil
}

// FindCategory resolves a category by display name.
func FindCategory(ctx *cli.Context, name string) (models.Category, error) {
	cats, err := ctx.Store.GetAllCategories()
	if err != nil {
		return models.Category{}, err
	}
	for _, cat := range cats {
		if cat.Name == name {
			return cat, nil
		}
	}
	return models.Category{}, &errors.NotFoundError{Entity: "category", ID: name}
}
