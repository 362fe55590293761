package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitheat/internal/models"
)

// ErrNotFound is returned by point lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// UpsertHabit inserts or fully replaces a habit row.
func (s *Store) UpsertHabit(h models.Habit) error {
	var target sql.NullInt64
	if h.TargetPerDay != nil {
		target = sql.NullInt64{Int64: int64(*h.TargetPerDay), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO habits (id, name, color, target_per_day, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			target_per_day = excluded.target_per_day,
			sort_order = excluded.sort_order,
			updated_at = excluded.updated_at`,
		h.ID, h.Name, string(h.Color), target, h.SortOrder, h.CreatedAt, h.UpdatedAt)
	return err
}

// GetHabit fetches one habit by id, ErrNotFound when absent.
func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, color, target_per_day, sort_order, created_at, updated_at
		FROM habits WHERE id = ?`, id)

	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, ErrNotFound
		}
		return models.Habit{}, err
	}
	return h, nil
}

// GetAllHabits returns every habit ordered by sort_order ascending. This
// ordering is authoritative for display and iteration everywhere.
func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, color, target_per_day, sort_order, created_at, updated_at
		FROM habits ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var color string
	var target sql.NullInt64

	if err := row.Scan(&h.ID, &h.Name, &color, &target, &h.SortOrder, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return models.Habit{}, err
	}
	h.Color = models.HabitColor(color)
	if target.Valid {
		v := int(target.Int64)
		h.TargetPerDay = &v
	}
	if h.UpdatedAt < h.CreatedAt {
		return models.Habit{}, fmt.Errorf("habit %s has updated_at before created_at", h.ID)
	}
	return h, nil
}
