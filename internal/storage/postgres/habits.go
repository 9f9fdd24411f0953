package postgres

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

// unique_violation, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const pqUniqueViolation = "23505"

func (s *Store) AddHabit(h models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, name, description, icon, category_id, subcategory_id, duration_days, current_streak, done)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.Name, h.Description, h.Icon, h.CategoryID, h.SubcategoryID,
		h.DurationDays, h.CurrentStreak, h.Done)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, icon, category_id, subcategory_id, duration_days, current_streak, done
		FROM habits WHERE id = $1`, id)

	var h models.Habit
	err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Icon, &h.CategoryID,
		&h.SubcategoryID, &h.DurationDays, &h.CurrentStreak, &h.Done)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, &errors.NotFoundError{Entity: "habit", ID: id}
		}
		return models.Habit{}, err
	}
	return h, nil
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
		err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.Icon, &h.CategoryID,
			&h.SubcategoryID, &h.DurationDays, &h.CurrentStreak, &h.Done)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(h models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits
		SET name = $1, description = $2, icon = $3, category_id = $4, subcategory_id = $5, duration_days = $6, current_streak = $7, done = $8
		WHERE id = $9`,
		h.Name, h.Description, h.Icon, h.CategoryID, h.SubcategoryID,
		h.DurationDays, h.CurrentStreak, h.Done, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireRow(res, "habit", h.ID)
}

func (s *Store) DeleteHabit(id string) error {
	res, err := s.db.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireRow(res, "habit", id)
}

// MarkDone relies on the (habit_id, day) primary key for the at-most-once
// guarantee: concurrent clients race on the insert and the loser gets a
// unique violation, reported as an already-marked conflict.
func (s *Store) MarkDone(id string, day string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	row := tx.QueryRow("SELECT duration_days, done FROM habits WHERE id = $1 FOR UPDATE", id)
	var durationDays int
	var done bool
	if err := row.Scan(&durationDays, &done); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, &errors.NotFoundError{Entity: "habit", ID: id}
		}
		return 0, err
	}
	if done {
		return 0, &errors.ConflictError{
			Code:    errors.CodeAlreadyMarked,
			Message: "habit already completed",
		}
	}

	if _, err := tx.Exec("INSERT INTO habit_progress (habit_id, day) VALUES ($1, $2)", id, day); err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return 0, &errors.ConflictError{
				Code:    errors.CodeAlreadyMarked,
				Message: "already marked done today",
			}
		}
		return 0, fmt.Errorf("failed to record progress: %w", err)
	}

	streak, err := streakEndingOn(tx, id, day)
	if err != nil {
		return 0, err
	}

	nowDone := streak >= durationDays
	if _, err := tx.Exec("UPDATE habits SET current_streak = $1, done = $2 WHERE id = $3", streak, nowDone, id); err != nil {
		return 0, fmt.Errorf("failed to update streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return streak, nil
}

func streakEndingOn(tx *sql.Tx, habitID, day string) (int, error) {
	rows, err := tx.Query(
		"SELECT day FROM habit_progress WHERE habit_id = $1 ORDER BY day DESC", habitID)
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
