package sqlite

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

func (s *Store) AddHabit(h models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, name, description, icon, category_id, subcategory_id, duration_days, current_streak, done)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Description, h.Icon, h.CategoryID, h.SubcategoryID,
		h.DurationDays, h.CurrentStreak, boolToInt(h.Done))
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, icon, category_id, subcategory_id, duration_days, current_streak, done
		FROM habits WHERE id = ?`, id)
	return scanHabit(row, id)
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, icon, category_id, subcategory_id, duration_days, current_streak, done
		FROM habits ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var done int
		err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.Icon, &h.CategoryID,
			&h.SubcategoryID, &h.DurationDays, &h.CurrentStreak, &done)
		if err != nil {
			return nil, err
		}
		h.Done = done != 0
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(h models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits
		SET name = ?, description = ?, icon = ?, category_id = ?, subcategory_id = ?, duration_days = ?, current_streak = ?, done = ?
		WHERE id = ?`,
		h.Name, h.Description, h.Icon, h.CategoryID, h.SubcategoryID,
		h.DurationDays, h.CurrentStreak, boolToInt(h.Done), h.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireRow(res, "habit", h.ID)
}

func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_progress WHERE habit_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete habit progress: %w", err)
	}
	res, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := requireRow(res, "habit", id); err != nil {
		return err
	}
	return tx.Commit()
}

// MarkDone records a completion for the given day and returns the streak
// of consecutive recorded days ending on that day. At most one completion
// per (habit, day) is accepted; the done flag flips when the streak
// reaches the duration goal and never flips back.
func (s *Store) MarkDone(id string, day string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	row := tx.QueryRow("SELECT duration_days, done FROM habits WHERE id = ?", id)
	var durationDays, done int
	if err := row.Scan(&durationDays, &done); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, &errors.NotFoundError{Entity: "habit", ID: id}
		}
		return 0, err
	}
	if done != 0 {
		return 0, &errors.ConflictError{
			Code:    errors.CodeAlreadyMarked,
			Message: "habit already completed",
		}
	}

	var exists int
	row = tx.QueryRow("SELECT count(*) FROM habit_progress WHERE habit_id = ? AND day = ?", id, day)
	if err := row.Scan(&exists); err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, &errors.ConflictError{
			Code:    errors.CodeAlreadyMarked,
			Message: "already marked done today",
		}
	}

	if _, err := tx.Exec("INSERT INTO habit_progress (habit_id, day) VALUES (?, ?)", id, day); err != nil {
		return 0, fmt.Errorf("failed to record progress: %w", err)
	}

	streak, err := streakEndingOn(tx, id, day)
	if err != nil {
		return 0, err
	}

	nowDone := 0
	if streak >= durationDays {
		nowDone = 1
	}
	if _, err := tx.Exec("UPDATE habits SET current_streak = ?, done = ? WHERE id = ?", streak, nowDone, id); err != nil {
		return 0, fmt.Errorf("failed to update streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return streak, nil
}

// streakEndingOn walks recorded days backwards from day, counting while
// each prior calendar day is present.
func streakEndingOn(tx *sql.Tx, habitID, day string) (int, error) {
	rows, err := tx.Query(
		"SELECT day FROM habit_progress WHERE habit_id = ? ORDER BY day DESC", habitID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	expected, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return 0, fmt.Errorf("invalid day %q: %w", day, err)
	}

	streak := 0
	for rows.Next() {
		var recorded string
		if err := rows.Scan(&recorded); err != nil {
			return 0, err
		}
		if recorded != expected.Format(constants.DateFormat) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, rows.Err()
}

func scanHabit(row *sql.Row, id string) (models.Habit, error) {
	var h models.Habit
	var done int
	err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Icon, &h.CategoryID,
		&h.SubcategoryID, &h.DurationDays, &h.CurrentStreak, &done)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, &errors.NotFoundError{Entity: "habit", ID: id}
		}
		return models.Habit{}, err
	}
	h.Done = done != 0
	return h, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
