// Package backup implements the portable JSON snapshot format. A snapshot
// captures every habit, every tick and the meta singleton, and restoring one
// replaces the entire dataset atomically.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/habitheat/internal/bus"
	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/constants"
	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/internal/storage/sqlite"
)

// FormatVersion identifies the snapshot layout. Bump only on incompatible
// changes to the payload shape.
const FormatVersion = 1

// Payload is the on-disk snapshot document.
type Payload struct {
	Version    int                `json:"version"`
	ExportedAt string             `json:"exportedAt"`
	Habits     []models.Habit     `json:"habits"`
	Ticks      []models.DailyTick `json:"ticks"`
	Meta       *models.AppMeta    `json:"meta"`
}

// Export snapshots the full dataset as a JSON document.
func Export(store *sqlite.Store, c clock.Clock) ([]byte, error) {
	habits, err := store.GetAllHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	ticks, err := store.GetAllTicks()
	if err != nil {
		return nil, fmt.Errorf("failed to read ticks: %w", err)
	}

	p := Payload{
		Version:    FormatVersion,
		ExportedAt: c.Now().UTC().Format(time.RFC3339),
		Habits:     habits,
		Ticks:      ticks,
	}
	if meta, err := store.GetMeta(); err == nil {
		p.Meta = &meta
	} else if err != sqlite.ErrNotFound {
		return nil, fmt.Errorf("failed to read meta: %w", err)
	}

	return json.MarshalIndent(p, "", "  ")
}

// Import replaces the entire dataset with the snapshot's contents. The
// document is parsed and checked before any write happens, so a malformed
// snapshot leaves existing data untouched. On success a single
// habit:created and a single tick:changed event fire with the bulk-import
// sentinel so derived views refresh once instead of per record.
func Import(store *sqlite.Store, b *bus.Bus, c clock.Clock, data []byte) error {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid backup file: %w", err)
	}
	if p.Version != FormatVersion {
		return fmt.Errorf("unsupported backup version %d (expected %d)", p.Version, FormatVersion)
	}

	for _, h := range p.Habits {
		if h.ID == "" {
			return fmt.Errorf("habit %q in backup has no id", h.Name)
		}
	}
	habits := backfillHabits(p.Habits, c.Now().UnixMilli())

	ticks := make([]models.DailyTick, 0, len(p.Ticks))
	for _, t := range p.Ticks {
		if t.HabitID == "" || !t.Date.Valid() {
			return fmt.Errorf("invalid tick record %q/%q in backup", t.HabitID, t.Date)
		}
		ticks = append(ticks, t)
	}

	if err := store.ReplaceAll(habits, ticks, p.Meta); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if b != nil {
		b.Publish(bus.TopicHabitCreated, constants.ImportSentinel)
		b.Publish(bus.TopicTickChanged, constants.ImportSentinel)
	}
	return nil
}

// backfillHabits fills fields that older or hand-edited snapshots may omit.
// sortOrder falls back to createdAt, then to now plus the record index so
// relative order stays stable; updatedAt falls back the same way.
func backfillHabits(habits []models.Habit, now int64) []models.Habit {
	out := make([]models.Habit, len(habits))
	for i, h := range habits {
		if h.CreatedAt == 0 {
			h.CreatedAt = now + int64(i)
		}
		if h.UpdatedAt == 0 {
			h.UpdatedAt = h.CreatedAt
		}
		if h.SortOrder == 0 {
			h.SortOrder = h.CreatedAt
		}
		out[i] = h
	}
	return out
}
