package postgres

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

func (s *Store) AddCounter(c models.Counter) error {
	_, err := s.db.Exec(
		"INSERT INTO counters (id, name, description, icon, start_at) VALUES ($1, $2, $3, $4, $5)",
		c.ID, c.Name, c.Description, c.Icon, c.StartDateTime)
	if err != nil {
		return fmt.Errorf("failed to insert counter: %w", err)
	}
	return nil
}

func (s *Store) GetCounter(id string) (models.Counter, error) {
	row := s.db.QueryRow(
		"SELECT id, name, description, icon, start_at FROM counters WHERE id = $1", id)

	var c models.Counter
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.StartDateTime); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Counter{}, &errors.NotFoundError{Entity: "counter", ID: id}
		}
		return models.Counter{}, err
	}
	return c, nil
}

func (s *Store) GetAllCounters() ([]models.Counter, error) {
	rows, err := s.db.Query("SELECT id, name, description, icon, start_at FROM counters ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counters []models.Counter
	for rows.Next() {
		var c models.Counter
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.StartDateTime); err != nil {
			return nil, err
		}
		counters = append(counters, c)
	}
	return counters, rows.Err()
}

func (s *Store) UpdateCounter(c models.Counter) error {
	res, err := s.db.Exec(
		"UPDATE counters SET name = $1, description = $2, icon = $3, start_at = $4 WHERE id = $5",
		c.Name, c.Description, c.Icon, c.StartDateTime, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update counter: %w", err)
	}
	return requireRow(res, "counter", c.ID)
}

func (s *Store) DeleteCounter(id string) error {
	res, err := s.db.Exec("DELETE FROM counters WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete counter: %w", err)
	}
	return requireRow(res, "counter", id)
}

func (s *Store) ResetCounter(id string, start time.Time) error {
	res, err := s.db.Exec("UPDATE counters SET start_at = $1 WHERE id = $2", start, id)
	if err != nil {
		return fmt.Errorf("failed to reset counter: %w", err)
	}
	return requireRow(res, "counter", id)
}
