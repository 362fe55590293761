package repo

import (
	"sort"

	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
)

// ComputeStreaks derives the habit's streak state from its full tick
// history. Naive full rescan; fine at personal scale, and bounding the scan
// window would misreport longest for habits with old gaps.
func (r *Repository) ComputeStreaks(habitID string) (models.StreakSummary, error) {
	ticks, err := r.store.GetTicksForHabit(habitID)
	if err != nil {
		return models.StreakSummary{}, err
	}

	days := make(map[clock.DayKey]bool, len(ticks))
	for _, t := range ticks {
		if t.Count > 0 {
			days[t.Date] = true
		}
	}
	return streaksFromDays(days, r.Today()), nil
}

// streaksFromDays walks backward from today for the current streak and scans
// the sorted history once for the longest.
func streaksFromDays(days map[clock.DayKey]bool, today clock.DayKey) models.StreakSummary {
	var s models.StreakSummary

	cursor := today
	for days[cursor] {
		if s.LastMarkedOn == "" {
			s.LastMarkedOn = cursor
		}
		s.Current++
		cursor = clock.AddDays(cursor, -1)
	}

	sorted := make([]clock.DayKey, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	run := 0
	var prev clock.DayKey
	for _, d := range sorted {
		if prev != "" && d == clock.AddDays(prev, 1) {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
		prev = d
	}

	return s
}
