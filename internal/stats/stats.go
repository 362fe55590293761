// Package stats derives cross-habit aggregates from the full tick history.
// Everything here is a pure function recomputed from scratch on every
// relevant mutation; there is no incremental state to drift out of sync.
package stats

import (
	"sort"

	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
)

const leaderboardSize = 5

// Entry pairs a habit with its streak state.
type Entry struct {
	Habit        models.Habit
	Current      int
	Longest      int
	LastMarkedOn clock.DayKey
}

// Summary is the cross-habit aggregate view.
type Summary struct {
	TotalHabits       int
	TotalCompletions  int
	CompletionsLast30 int
	ActiveDays        int
	LastEntryDate     clock.DayKey
	LongestStreak     *Entry
	Leaderboard       []Entry
	Timeline          Timeline
}

// Summarize computes the summary for the given habits, their full tick
// history and precomputed per-habit streaks, as of today.
func Summarize(habits []models.Habit, ticks []models.DailyTick, streaks map[string]models.StreakSummary, today clock.DayKey) Summary {
	s := Summary{TotalHabits: len(habits)}
	if len(habits) == 0 {
		return s
	}

	activeDays := make(map[clock.DayKey]bool)
	windowStart := clock.AddDays(today, -29)
	for _, t := range ticks {
		s.TotalCompletions += t.Count
		activeDays[t.Date] = true
		if t.Date >= windowStart && t.Date <= today {
			s.CompletionsLast30 += t.Count
		}
		if t.Date > s.LastEntryDate {
			s.LastEntryDate = t.Date
		}
	}
	s.ActiveDays = len(activeDays)

	entries := make([]Entry, 0, len(habits))
	for _, h := range habits {
		st := streaks[h.ID]
		entries = append(entries, Entry{
			Habit:        h,
			Current:      st.Current,
			Longest:      st.Longest,
			LastMarkedOn: st.LastMarkedOn,
		})
	}

	// First-seen wins ties, so scan in habit order rather than sorting.
	for i := range entries {
		if s.LongestStreak == nil || entries[i].Longest > s.LongestStreak.Longest {
			s.LongestStreak = &entries[i]
		}
	}

	board := make([]Entry, len(entries))
	copy(board, entries)
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Current != board[j].Current {
			return board[i].Current > board[j].Current
		}
		return board[i].Longest > board[j].Longest
	})
	if len(board) > leaderboardSize {
		board = board[:leaderboardSize]
	}
	s.Leaderboard = board

	s.Timeline = buildTimeline(habits, ticks, today)
	return s
}
