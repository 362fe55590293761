package repo

import (
	"testing"

	"github.com/julianstephens/habitheat/internal/clock"
)

func tickDays(t *testing.T, r *Repository, habitID string, days ...clock.DayKey) {
	t.Helper()
	for _, d := range days {
		if err := r.SetTick(habitID, d, 1); err != nil {
			t.Fatalf("failed to tick %s: %v", d, err)
		}
	}
}

func TestComputeStreaksEmpty(t *testing.T) {
	r, _ := setupRepo(t)
	h := mustCreate(t, r, "Fresh")

	s, err := r.ComputeStreaks(h.ID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if s.Current != 0 || s.Longest != 0 || s.LastMarkedOn != "" {
		t.Errorf("streaks for empty history = %+v, want zeros", s)
	}
}

func TestComputeStreaksSingleDay(t *testing.T) {
	r, _ := setupRepo(t)
	today := r.Today()

	t.Run("today only", func(t *testing.T) {
		h := mustCreate(t, r, "TodayOnly")
		tickDays(t, r, h.ID, today)

		s, err := r.ComputeStreaks(h.ID)
		if err != nil {
			t.Fatalf("compute failed: %v", err)
		}
		if s.Current != 1 || s.Longest != 1 {
			t.Errorf("streaks = %+v, want current=1 longest=1", s)
		}
		if s.LastMarkedOn != today {
			t.Errorf("lastMarkedOn = %s, want %s", s.LastMarkedOn, today)
		}
	})

	t.Run("isolated past day", func(t *testing.T) {
		h := mustCreate(t, r, "PastOnly")
		tickDays(t, r, h.ID, clock.AddDays(today, -10))

		s, err := r.ComputeStreaks(h.ID)
		if err != nil {
			t.Fatalf("compute failed: %v", err)
		}
		if s.Current != 0 || s.Longest != 1 {
			t.Errorf("streaks = %+v, want current=0 longest=1", s)
		}
		if s.LastMarkedOn != "" {
			t.Errorf("lastMarkedOn = %s, want unset when current is 0", s.LastMarkedOn)
		}
	})
}

func TestComputeStreaksUnbrokenRun(t *testing.T) {
	r, _ := setupRepo(t)
	h := mustCreate(t, r, "Unbroken")
	today := r.Today()

	// Ticked every day for 14 days ending today: current == longest == 14.
	for i := 0; i < 14; i++ {
		tickDays(t, r, h.ID, clock.AddDays(today, -i))
	}

	s, err := r.ComputeStreaks(h.ID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if s.Current != 14 || s.Longest != 14 {
		t.Errorf("streaks = %+v, want current=longest=14", s)
	}
	if s.LastMarkedOn != today {
		t.Errorf("lastMarkedOn = %s, want %s", s.LastMarkedOn, today)
	}
}

func TestComputeStreaksGapResets(t *testing.T) {
	r, _ := setupRepo(t)
	h := mustCreate(t, r, "Gappy")
	d := r.Today()

	// {D-5, D-4, D-1, D}: the walk from D stops at the missing D-2, so
	// current is 2; the longest contiguous run anywhere is also 2, with
	// {D-5, D-4} tying.
	tickDays(t, r, h.ID,
		clock.AddDays(d, -5), clock.AddDays(d, -4),
		clock.AddDays(d, -1), d)

	s, err := r.ComputeStreaks(h.ID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if s.Current != 2 {
		t.Errorf("current = %d, want 2", s.Current)
	}
	if s.Longest != 2 {
		t.Errorf("longest = %d, want 2", s.Longest)
	}
}

func TestComputeStreaksHistoricalLongest(t *testing.T) {
	r, _ := setupRepo(t)
	h := mustCreate(t, r, "Historical")
	today := r.Today()

	// A 5-day run far in the past beats the 2-day run ending today.
	for i := 0; i < 5; i++ {
		tickDays(t, r, h.ID, clock.AddDays(today, -30-i))
	}
	tickDays(t, r, h.ID, clock.AddDays(today, -1), today)

	s, err := r.ComputeStreaks(h.ID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if s.Current != 2 {
		t.Errorf("current = %d, want 2", s.Current)
	}
	if s.Longest != 5 {
		t.Errorf("longest = %d, want 5", s.Longest)
	}
}

func TestComputeStreaksEndedYesterday(t *testing.T) {
	r, _ := setupRepo(t)
	h := mustCreate(t, r, "Lapsed")
	today := r.Today()

	tickDays(t, r, h.ID, clock.AddDays(today, -3), clock.AddDays(today, -2), clock.AddDays(today, -1))

	s, err := r.ComputeStreaks(h.ID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	// Today is missing, so the walk stops immediately.
	if s.Current != 0 {
		t.Errorf("current = %d, want 0", s.Current)
	}
	if s.Longest != 3 {
		t.Errorf("longest = %d, want 3", s.Longest)
	}
}
