package backup

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitheat/internal/bus"
	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/constants"
	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/internal/storage/sqlite"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(nil); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var seedSeq int64

// seedHabit inserts directly through the store with distinct sort orders so
// listing order is deterministic.
func seedHabit(t *testing.T, store *sqlite.Store, id, name string) models.Habit {
	t.Helper()
	seedSeq++
	now := testNow.UnixMilli() + seedSeq
	h := models.Habit{
		ID:        id,
		Name:      name,
		Color:     models.ColorViolet,
		SortOrder: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.UpsertHabit(h); err != nil {
		t.Fatalf("failed to seed habit: %v", err)
	}
	return h
}

func TestExportShape(t *testing.T) {
	store := setupStore(t)
	seedHabit(t, store, "h1", "Run")
	if err := store.UpsertTick(models.DailyTick{HabitID: "h1", Date: "2026-08-29", Count: 2}); err != nil {
		t.Fatalf("failed to seed tick: %v", err)
	}

	data, err := Export(store, clock.Fixed{T: testNow})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if p.Version != 1 {
		t.Errorf("version = %d, want 1", p.Version)
	}
	if p.ExportedAt != "2026-08-30T12:00:00Z" {
		t.Errorf("exportedAt = %s", p.ExportedAt)
	}
	if len(p.Habits) != 1 || len(p.Ticks) != 1 {
		t.Errorf("payload has %d habits / %d ticks, want 1/1", len(p.Habits), len(p.Ticks))
	}
	if p.Meta == nil || p.Meta.Key != constants.MetaKey {
		t.Errorf("meta = %+v, want seeded singleton", p.Meta)
	}
}

func TestRoundTrip(t *testing.T) {
	src := setupStore(t)
	seedHabit(t, src, "h1", "Run")
	seedHabit(t, src, "h2", "Read")
	for _, tk := range []models.DailyTick{
		{HabitID: "h1", Date: "2026-08-28", Count: 1},
		{HabitID: "h2", Date: "2026-08-29", Count: 3},
	} {
		if err := src.UpsertTick(tk); err != nil {
			t.Fatalf("failed to seed tick: %v", err)
		}
	}

	data, err := Export(src, clock.Fixed{T: testNow})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := setupStore(t)
	seedHabit(t, dst, "stale", "Should Vanish")
	if err := Import(dst, nil, clock.Fixed{T: testNow}, data); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	habits, err := dst.GetAllHabits()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("got %d habits after import, want 2", len(habits))
	}
	for _, h := range habits {
		if h.ID == "stale" {
			t.Error("pre-import habit survived the restore")
		}
	}
	ticks, err := dst.GetAllTicks()
	if err != nil {
		t.Fatalf("tick list failed: %v", err)
	}
	if len(ticks) != 2 {
		t.Errorf("got %d ticks after import, want 2", len(ticks))
	}

	// Importing the same snapshot again is idempotent.
	if err := Import(dst, nil, clock.Fixed{T: testNow}, data); err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	again, _ := Export(dst, clock.Fixed{T: testNow})
	if string(again) != string(data) {
		t.Error("export after re-import differs from original snapshot")
	}
}

func TestImportEmitsSentinels(t *testing.T) {
	store := setupStore(t)
	b := bus.New(nil)
	t.Cleanup(func() { b.Close() })

	var created, changed []string
	b.Subscribe(bus.TopicHabitCreated, func(d string) { created = append(created, d) })
	b.Subscribe(bus.TopicTickChanged, func(d string) { changed = append(changed, d) })

	data, _ := json.Marshal(Payload{
		Version: 1,
		Habits: []models.Habit{{
			ID: "h1", Name: "Run", Color: models.ColorBlue,
			SortOrder: 1, CreatedAt: 1, UpdatedAt: 1,
		}},
		Ticks: []models.DailyTick{{HabitID: "h1", Date: "2026-08-29", Count: 1}},
	})
	if err := Import(store, b, clock.Fixed{T: testNow}, data); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(created) != 1 || created[0] != constants.ImportSentinel {
		t.Errorf("habit:created emissions = %v, want one %q", created, constants.ImportSentinel)
	}
	if len(changed) != 1 || changed[0] != constants.ImportSentinel {
		t.Errorf("tick:changed emissions = %v, want one %q", changed, constants.ImportSentinel)
	}
}

func TestImportBackfillsHabitFields(t *testing.T) {
	store := setupStore(t)

	data := []byte(`{
		"version": 1,
		"exportedAt": "2026-08-30T00:00:00Z",
		"habits": [
			{"id": "a", "name": "Has CreatedAt", "color": "emerald", "createdAt": 5000},
			{"id": "b", "name": "Bare", "color": "rose"}
		]
	}`)
	if err := Import(store, nil, clock.Fixed{T: testNow}, data); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	a, err := store.GetHabit("a")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if a.SortOrder != 5000 || a.UpdatedAt != 5000 {
		t.Errorf("habit a backfill = sortOrder %d updatedAt %d, want 5000/5000", a.SortOrder, a.UpdatedAt)
	}

	b, err := store.GetHabit("b")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	// Index 1 keeps b after any index-0 record with the same fallback base.
	want := testNow.UnixMilli() + 1
	if b.CreatedAt != want || b.SortOrder != want || b.UpdatedAt != want {
		t.Errorf("habit b backfill = %d/%d/%d, want all %d", b.CreatedAt, b.SortOrder, b.UpdatedAt, want)
	}
}

func TestImportRejectsMalformed(t *testing.T) {
	store := setupStore(t)
	keep := seedHabit(t, store, "keep", "Survivor")

	cases := map[string][]byte{
		"not json":      []byte(`{"version": 1,`),
		"wrong version": []byte(`{"version": 99, "habits": [], "ticks": []}`),
		"habit no id":   []byte(`{"version": 1, "habits": [{"name": "x", "color": "blue"}]}`),
		"bad tick date": []byte(`{"version": 1, "habits": [], "ticks": [{"habitId": "keep", "date": "not-a-date", "count": 1}]}`),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if err := Import(store, nil, clock.Fixed{T: testNow}, data); err == nil {
				t.Fatal("expected import to fail")
			}
			if _, err := store.GetHabit(keep.ID); err != nil {
				t.Errorf("existing data damaged by rejected import: %v", err)
			}
		})
	}
}

func TestImportToleratesMissingSections(t *testing.T) {
	store := setupStore(t)
	seedHabit(t, store, "old", "Old")

	// No habits, ticks or meta keys at all: restores to an empty dataset.
	if err := Import(store, nil, clock.Fixed{T: testNow}, []byte(`{"version": 1}`)); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	habits, err := store.GetAllHabits()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("got %d habits, want empty dataset", len(habits))
	}
}
