package postgres

import (
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

func (s *Store) AddCategory(cat models.Category) error {
	_, err := s.db.Exec(
		"INSERT INTO categories (id, name, icon) VALUES ($1, $2, $3)",
		cat.ID, cat.Name, cat.Icon)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(id string) (models.Category, error) {
	row := s.db.QueryRow("SELECT id, name, icon FROM categories WHERE id = $1", id)

	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Category{}, &errors.NotFoundError{Entity: "category", ID: id}
		}
		return models.Category{}, err
	}
	return c, nil
}

func (s *Store) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, name, icon FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) UpdateCategory(cat models.Category) error {
	res, err := s.db.Exec(
		"UPDATE categories SET name = $1, icon = $2 WHERE id = $3",
		cat.Name, cat.Icon, cat.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRow(res, "category", cat.ID)
}

func (s *Store) DeleteCategory(id string) error {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM subcategories WHERE category_id = $1", id)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return &errors.ConflictError{
			Code:    errors.CodeHasSubcategories,
			Message: "cannot delete category with subcategories",
		}
	}

	res, err := s.db.Exec("DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRow(res, "category", id)
}

func (s *Store) AddSubcategory(sub models.Subcategory) error {
	if _, err := s.GetCategory(sub.CategoryID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"INSERT INTO subcategories (id, name, icon, category_id) VALUES ($1, $2, $3, $4)",
		sub.ID, sub.Name, sub.Icon, sub.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to insert subcategory: %w", err)
	}
	return nil
}

func (s *Store) GetSubcategory(id string) (models.Subcategory, error) {
	row := s.db.QueryRow(
		"SELECT id, name, icon, category_id FROM subcategories WHERE id = $1", id)

	var sub models.Subcategory
	if err := row.Scan(&sub.ID, &sub.Name, &sub.Icon, &sub.CategoryID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Subcategory{}, &errors.NotFoundError{Entity: "subcategory", ID: id}
		}
		return models.Subcategory{}, err
	}
	return sub, nil
}

func (s *Store) GetSubcategories(categoryID string) ([]models.Subcategory, error) {
	rows, err := s.db.Query(
		"SELECT id, name, icon, category_id FROM subcategories WHERE category_id = $1 ORDER BY name",
		categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subcategory
	for rows.Next() {
		var sub models.Subcategory
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Icon, &sub.CategoryID); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) UpdateSubcategory(sub models.Subcategory) error {
	if _, err := s.GetCategory(sub.CategoryID); err != nil {
		return err
	}
	res, err := s.db.Exec(
		"UPDATE subcategories SET name = $1, icon = $2, category_id = $3 WHERE id = $4",
		sub.Name, sub.Icon, sub.CategoryID, sub.ID)
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}
	return requireRow(res, "subcategory", sub.ID)
}

func (s *Store) DeleteSubcategory(id string) error {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM habits WHERE subcategory_id = $1", id)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return &errors.ConflictError{
			Code:    errors.CodeHasHabits,
			Message: "cannot delete subcategory with habits",
		}
	}

	res, err := s.db.Exec("DELETE FROM subcategories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	return requireRow(res, "subcategory", id)
}

func (s *Store) Tree() ([]models.CategoryTree, error) {
	cats, err := s.GetAllCategories()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT id, name, icon, category_id FROM subcategories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subsByCat := make(map[string][]models.SubcategoryTree)
	subIndex := make(map[string]int)
	for rows.Next() {
		var sub models.Subcategory
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Icon, &sub.CategoryID); err != nil {
			return nil, err
		}
		subsByCat[sub.CategoryID] = append(subsByCat[sub.CategoryID], models.SubcategoryTree{Subcategory: sub})
		subIndex[sub.ID] = len(subsByCat[sub.CategoryID]) - 1
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	habits, err := s.GetAllHabits()
	if err != nil {
		return nil, err
	}
	for _, h := range habits {
		siblings, ok := subsByCat[h.CategoryID]
		if !ok {
			continue
		}
		if i, ok := subIndex[h.SubcategoryID]; ok && i < len(siblings) {
			siblings[i].Habits = append(siblings[i].Habits, h)
		}
	}

	tree := make([]models.CategoryTree, 0, len(cats))
	for _, c := range cats {
		tree = append(tree, models.CategoryTree{
			Category:      c,
			Subcategories: subsByCat[c.ID],
		})
	}
	return tree, nil
}

func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
