package hierarchy

import (
	"fmt"

	"github.com/focusfortress/fortress/internal/cli"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

type SubcategoryCmd struct {
	Add    SubcategoryAddCmd    `cmd:"" help:"Add a subcategory under a category."`
	Edit   SubcategoryEditCmd   `cmd:"" help:"Rename a subcategory or change its icon."`
	Delete SubcategoryDeleteCmd `cmd:"" help:"Delete an empty subcategory."`
}

type SubcategoryAddCmd struct {
	Name     string `arg:"" help:"Subcategory name."`
	Category string `arg:"" help:"Owning category name."`
	Icon     string `help:"Icon for the subcategory." default:""`
}

func (c *SubcategoryAddCmd) Run(ctx *cli.Context) error {
	cat, err := FindCategory(ctx, c.Category)
	if err != nil {
		return err
	}
	sub, err := ctx.Tracker.CreateSubcategory(c.Name, c.Icon, cat.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Added subcategory: %s %s under %s\n", sub.Icon, sub.Name, cat.Name)
	return nil
}

type SubcategoryEditCmd struct {
	Name    string `arg:"" help:"Current subcategory name."`
	NewName string `help:"New name." default:""`
	Icon    string `help:"New icon." default:""`
}

func (c *SubcategoryEditCmd) Run(ctx *cli.Context) error {
	sub, err := FindSubcategory(ctx, c.Name)
	if err != nil {
		return err
	}
	name := c.NewName
	if name == "" {
		name = sub.Name
	}
	if err := ctx.Tracker.UpdateSubcategory(sub.ID, name, c.Icon); err != nil {
		return err
	}
	fmt.Printf("Updated subcategory: %s\n", name)
	return nil
}

type SubcategoryDeleteCmd struct {
	Name string `arg:"" help:"Subcategory name to delete."`
}

func (c *SubcategoryDeleteCmd) Run(ctx *cli.Context) error {
	sub, err := FindSubcategory(ctx, c.Name)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm("Delete subcategory?",
		fmt.Sprintf("This removes the subcategory %q.", sub.Name))
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.DeleteSubcategory(sub.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted subcategory: %s\n", sub.Name)
	return nil
}

// FindSubcategory resolves a subcategory by display name across all
// categories.
func FindSubcategory(ctx *cli.Context, name string) (models.Subcategory, error) {
	tree, err := ctx.Tracker.Tree()
	if err != nil {
		return models.Subcategory{}, err
	}
	for _, cat := range tree {
		for _, sub := range cat.Subcategories {
			if sub.Name == name {
				return sub.Subcategory, nil
			}
		}
	}
	return models.Subcategory{}, &errors.NotFoundError{Entity: "subcategory", ID: name}
}
