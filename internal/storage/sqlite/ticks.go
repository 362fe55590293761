package sqlite

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
)

// UpsertTick writes the count for (habitID, day). count must be positive;
// zeroing a tick is a delete, enforced at the repository boundary and by the
// table's CHECK constraint.
func (s *Store) UpsertTick(t models.DailyTick) error {
	_, err := s.db.Exec(`
		INSERT INTO ticks (habit_id, date, count)
		VALUES (?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET count = excluded.count`,
		t.HabitID, string(t.Date), t.Count)
	return err
}

// DeleteTick removes the tick for (habitID, day). Deleting an absent tick is
// not an error.
func (s *Store) DeleteTick(habitID string, day clock.DayKey) error {
	_, err := s.db.Exec(`DELETE FROM ticks WHERE habit_id = ? AND date = ?`, habitID, string(day))
	return err
}

// GetTick fetches the tick for (habitID, day), ErrNotFound when absent.
func (s *Store) GetTick(habitID string, day clock.DayKey) (models.DailyTick, error) {
	row := s.db.QueryRow(`
		SELECT habit_id, date, count FROM ticks WHERE habit_id = ? AND date = ?`,
		habitID, string(day))

	var t models.DailyTick
	var date string
	if err := row.Scan(&t.HabitID, &date, &t.Count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DailyTick{}, ErrNotFound
		}
		return models.DailyTick{}, err
	}
	t.Date = clock.DayKey(date)
	return t, nil
}

// GetTicksInRange returns one habit's ticks with start <= date <= end,
// ascending by date. Served by the (habit_id, date) primary key.
func (s *Store) GetTicksInRange(habitID string, start, end clock.DayKey) ([]models.DailyTick, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, date, count FROM ticks
		WHERE habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date`, habitID, string(start), string(end))
	if err != nil {
		return nil, err
	}
	return collectTicks(rows)
}

// GetTicksForHabit returns a habit's entire tick history ascending by date.
func (s *Store) GetTicksForHabit(habitID string) ([]models.DailyTick, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, date, count FROM ticks
		WHERE habit_id = ? ORDER BY date`, habitID)
	if err != nil {
		return nil, err
	}
	return collectTicks(rows)
}

// GetTicksForDay returns every habit's tick for one day in a single bounded
// scan over the (date, habit_id) index.
func (s *Store) GetTicksForDay(day clock.DayKey) ([]models.DailyTick, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, date, count FROM ticks
		WHERE date = ? ORDER BY habit_id`, string(day))
	if err != nil {
		return nil, err
	}
	return collectTicks(rows)
}

// GetAllTicks returns the full tick history across all habits. Unbounded;
// callers are aggregate analytics that recompute from scratch.
func (s *Store) GetAllTicks() ([]models.DailyTick, error) {
	rows, err := s.db.Query(`SELECT habit_id, date, count FROM ticks ORDER BY date, habit_id`)
	if err != nil {
		return nil, err
	}
	return collectTicks(rows)
}

func collectTicks(rows *sql.Rows) ([]models.DailyTick, error) {
	defer rows.Close()

	var ticks []models.DailyTick
	for rows.Next() {
		var t models.DailyTick
		var date string
		if err := rows.Scan(&t.HabitID, &date, &t.Count); err != nil {
			return nil, err
		}
		t.Date = clock.DayKey(date)
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

// ReplaceAll atomically swaps the habits and ticks collections for the given
// sets and upserts meta when non-nil. Either everything commits or nothing
// does; a concurrent reader never observes a partially restored store.
func (s *Store) ReplaceAll(habits []models.Habit, ticks []models.DailyTick, meta *models.AppMeta) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ticks`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM habits`); err != nil {
		return err
	}

	habitStmt, err := tx.Prepare(`
		INSERT INTO habits (id, name, color, target_per_day, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer habitStmt.Close()

	for _, h := range habits {
		var target sql.NullInt64
		if h.TargetPerDay != nil {
			target = sql.NullInt64{Int64: int64(*h.TargetPerDay), Valid: true}
		}
		if _, err := habitStmt.Exec(h.ID, h.Name, string(h.Color), target, h.SortOrder, h.CreatedAt, h.UpdatedAt); err != nil {
			return err
		}
	}

	tickStmt, err := tx.Prepare(`INSERT INTO ticks (habit_id, date, count) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tickStmt.Close()

	for _, t := range ticks {
		if t.Count <= 0 {
			continue
		}
		if _, err := tickStmt.Exec(t.HabitID, string(t.Date), t.Count); err != nil {
			return err
		}
	}

	if meta != nil {
		var token sql.NullString
		if meta.AppToken != "" {
			token = sql.NullString{String: meta.AppToken, Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO meta (key, db_version, timezone, app_token)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				db_version = excluded.db_version,
				timezone = excluded.timezone,
				app_token = excluded.app_token`,
			meta.Key, meta.DBVersion, meta.Timezone, token); err != nil {
			return err
		}
	}

	return tx.Commit()
}
