// Package repo is the sole reader and writer of the store. Every mutation
// commits first and then emits a change notification on the bus, so
// subscribers always re-query committed state.
package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitheat/internal/bus"
	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/internal/storage/sqlite"
)

// Repository mediates all access to the habit store.
type Repository struct {
	store *sqlite.Store
	bus   *bus.Bus
	clock clock.Clock
}

// New wires a repository to its store, bus and clock. All three are owned by
// the composition root and injected here.
func New(store *sqlite.Store, b *bus.Bus, c clock.Clock) *Repository {
	return &Repository{store: store, bus: b, clock: c}
}

// TickKey builds the composite payload for tick:changed notifications.
// Subscribers filter by habit prefix without a structured payload.
func TickKey(habitID string, day clock.DayKey) string {
	return fmt.Sprintf("%s:%s", habitID, day)
}

// Today returns the current local calendar day.
func (r *Repository) Today() clock.DayKey {
	return clock.Today(r.clock)
}

// CreateHabit persists a new habit and emits habit:created. The name is
// trimmed; validating that it is non-empty is the caller's job — the
// repository persists whatever it is handed.
func (r *Repository) CreateHabit(name string, color models.HabitColor, targetPerDay *int) (models.Habit, error) {
	now := r.clock.Now().UnixMilli()
	habit := models.Habit{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Color:        color,
		TargetPerDay: targetPerDay,
		SortOrder:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := r.store.UpsertHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}
	r.bus.Publish(bus.TopicHabitCreated, habit.ID)
	return habit, nil
}

// UpdateHabit merges the patch into an existing habit, refreshes updated_at
// and emits habit:updated. An unknown id is a silent no-op.
func (r *Repository) UpdateHabit(id string, patch models.HabitPatch) error {
	existing, err := r.store.GetHabit(id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load habit: %w", err)
	}

	if patch.Name != nil {
		existing.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		existing.Color = *patch.Color
	}
	if patch.TargetPerDay != nil {
		existing.TargetPerDay = patch.TargetPerDay
	}
	if patch.SortOrder != nil {
		existing.SortOrder = *patch.SortOrder
	}
	existing.UpdatedAt = r.clock.Now().UnixMilli()

	if err := r.store.UpsertHabit(existing); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	r.bus.Publish(bus.TopicHabitUpdated, id)
	return nil
}

// GetHabit fetches one habit by id.
func (r *Repository) GetHabit(id string) (models.Habit, error) {
	return r.store.GetHabit(id)
}

// GetAllHabits returns every habit ordered by sortOrder ascending.
func (r *Repository) GetAllHabits() ([]models.Habit, error) {
	return r.store.GetAllHabits()
}

// SetTick writes the completion count for (habitID, day). A positive value
// upserts; zero or negative deletes any existing record, keeping "no
// activity" and "explicitly zero" indistinguishable. tick:changed is emitted
// either way, so subscribers cannot assume prior state.
func (r *Repository) SetTick(habitID string, day clock.DayKey, value int) error {
	var err error
	if value > 0 {
		err = r.store.UpsertTick(models.DailyTick{HabitID: habitID, Date: day, Count: value})
	} else {
		err = r.store.DeleteTick(habitID, day)
	}
	if err != nil {
		return fmt.Errorf("failed to set tick: %w", err)
	}

	r.bus.Publish(bus.TopicTickChanged, TickKey(habitID, day))
	return nil
}

// ToggleToday flips today's tick between 0 and 1 and returns the new count.
// A binary toggle, not an increment: repeated calls oscillate.
func (r *Repository) ToggleToday(habitID string) (int, error) {
	day := r.Today()
	next := 1
	tick, err := r.store.GetTick(habitID, day)
	if err == nil && tick.Count > 0 {
		next = 0
	} else if err != nil && !errors.Is(err, sqlite.ErrNotFound) {
		return 0, fmt.Errorf("failed to read tick: %w", err)
	}

	if err := r.SetTick(habitID, day, next); err != nil {
		return 0, err
	}
	return next, nil
}

// DecrementToday reduces today's count by one, deleting the record at zero.
func (r *Repository) DecrementToday(habitID string) error {
	day := r.Today()
	tick, err := r.store.GetTick(habitID, day)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			// Already at zero; still notify so optimistic views resync.
			r.bus.Publish(bus.TopicTickChanged, TickKey(habitID, day))
			return nil
		}
		return fmt.Errorf("failed to read tick: %w", err)
	}
	return r.SetTick(habitID, day, tick.Count-1)
}

// GetMonthMap returns day -> count for one habit over a calendar month.
func (r *Repository) GetMonthMap(habitID string, year, month int) (map[clock.DayKey]int, error) {
	start := clock.DayKey(fmt.Sprintf("%04d-%02d-01", year, month))
	return r.GetRangeMap(habitID, start, clock.MonthEnd(start))
}

// GetRangeMap returns day -> count for one habit over an inclusive day range.
func (r *Repository) GetRangeMap(habitID string, start, end clock.DayKey) (map[clock.DayKey]int, error) {
	ticks, err := r.store.GetTicksInRange(habitID, start, end)
	if err != nil {
		return nil, err
	}
	m := make(map[clock.DayKey]int, len(ticks))
	for _, t := range ticks {
		m[t.Date] = t.Count
	}
	return m, nil
}

// TodayCount pairs a habit with its count for the current day.
type TodayCount struct {
	HabitID string
	Count   int
}

// GetAllToday fetches every habit's tick for the current local day in one
// bounded scan.
func (r *Repository) GetAllToday() ([]TodayCount, error) {
	ticks, err := r.store.GetTicksForDay(r.Today())
	if err != nil {
		return nil, err
	}
	counts := make([]TodayCount, 0, len(ticks))
	for _, t := range ticks {
		counts = append(counts, TodayCount{HabitID: t.HabitID, Count: t.Count})
	}
	return counts, nil
}

// GetAllTicks returns the full tick history. Potentially expensive; used by
// aggregate analytics which recompute from scratch.
func (r *Repository) GetAllTicks() ([]models.DailyTick, error) {
	return r.store.GetAllTicks()
}
