package stats

import (
	"testing"

	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
)

// 2026-08-30 is a Sunday, so it starts its own calendar week.
const today = clock.DayKey("2026-08-30")

func habit(id, name string) models.Habit {
	return models.Habit{ID: id, Name: name, Color: models.ColorBlue}
}

func tick(habitID string, day clock.DayKey, count int) models.DailyTick {
	return models.DailyTick{HabitID: habitID, Date: day, Count: count}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil, today)
	if s.TotalHabits != 0 || s.TotalCompletions != 0 || s.ActiveDays != 0 {
		t.Errorf("empty summary = %+v, want zeros", s)
	}
	if s.LongestStreak != nil {
		t.Error("expected nil longest streak with no habits")
	}
	if s.Leaderboard != nil {
		t.Error("expected nil leaderboard with no habits")
	}
}

func TestSummarizeTotals(t *testing.T) {
	habits := []models.Habit{habit("a", "Run"), habit("b", "Read")}
	ticks := []models.DailyTick{
		tick("a", "2026-08-30", 2),
		tick("b", "2026-08-30", 1),
		tick("a", "2026-08-29", 1),
		tick("a", "2026-01-15", 3),
	}

	s := Summarize(habits, ticks, nil, today)
	if s.TotalHabits != 2 {
		t.Errorf("totalHabits = %d, want 2", s.TotalHabits)
	}
	if s.TotalCompletions != 7 {
		t.Errorf("totalCompletions = %d, want 7", s.TotalCompletions)
	}
	// Both habits on 2026-08-30 count as one active day.
	if s.ActiveDays != 3 {
		t.Errorf("activeDays = %d, want 3", s.ActiveDays)
	}
	if s.LastEntryDate != today {
		t.Errorf("lastEntryDate = %s, want %s", s.LastEntryDate, today)
	}
}

func TestSummarizeThirtyDayWindow(t *testing.T) {
	habits := []models.Habit{habit("a", "Run")}
	ticks := []models.DailyTick{
		tick("a", today, 1),
		tick("a", clock.AddDays(today, -29), 1), // day 30 of the window, in
		tick("a", clock.AddDays(today, -30), 1), // day 31, out
	}

	s := Summarize(habits, ticks, nil, today)
	if s.CompletionsLast30 != 2 {
		t.Errorf("completionsLast30 = %d, want 2 (window is today and the 29 days before)", s.CompletionsLast30)
	}
	if s.TotalCompletions != 3 {
		t.Errorf("totalCompletions = %d, want 3", s.TotalCompletions)
	}
}

func TestSummarizeLongestStreakFirstSeenWins(t *testing.T) {
	habits := []models.Habit{habit("a", "Run"), habit("b", "Read"), habit("c", "Swim")}
	streaks := map[string]models.StreakSummary{
		"a": {Current: 1, Longest: 4},
		"b": {Current: 0, Longest: 4},
		"c": {Current: 2, Longest: 3},
	}

	s := Summarize(habits, nil, streaks, today)
	if s.LongestStreak == nil {
		t.Fatal("expected a longest streak holder")
	}
	if s.LongestStreak.Habit.ID != "a" {
		t.Errorf("longest streak holder = %s, want first-listed habit a on tie", s.LongestStreak.Habit.ID)
	}
	if s.LongestStreak.Longest != 4 {
		t.Errorf("longest = %d, want 4", s.LongestStreak.Longest)
	}
}

func TestSummarizeLeaderboard(t *testing.T) {
	var habits []models.Habit
	streaks := map[string]models.StreakSummary{}
	for i, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		habits = append(habits, habit(id, id))
		streaks[id] = models.StreakSummary{Current: i, Longest: i}
	}
	// Tie on current between b and h, broken by longest.
	habits = append(habits, habit("h", "h"))
	streaks["h"] = models.StreakSummary{Current: 1, Longest: 9}

	s := Summarize(habits, nil, streaks, today)
	if len(s.Leaderboard) != 5 {
		t.Fatalf("leaderboard has %d entries, want 5", len(s.Leaderboard))
	}
	wantOrder := []string{"g", "f", "e", "d", "c"}
	for i, id := range wantOrder {
		if s.Leaderboard[i].Habit.ID != id {
			t.Errorf("leaderboard[%d] = %s, want %s", i, s.Leaderboard[i].Habit.ID, id)
		}
	}

	// Shrink to two so the tie-break is observable inside the cap.
	small := []models.Habit{habits[1], habits[7]} // b and h, both current=1
	s = Summarize(small, nil, streaks, today)
	if s.Leaderboard[0].Habit.ID != "h" {
		t.Errorf("tie-break winner = %s, want h (higher longest)", s.Leaderboard[0].Habit.ID)
	}
}

func TestWeekBuckets(t *testing.T) {
	ticks := []models.DailyTick{
		tick("a", today, 2),                     // current week (starts today, Sunday)
		tick("a", clock.AddDays(today, -1), 1),  // previous week
		tick("a", clock.AddDays(today, -7), 3),  // previous week
		tick("a", clock.AddDays(today, -56), 9), // 8 weeks back, outside the window
	}

	points := weekBuckets(ticks, today)
	if len(points) != 8 {
		t.Fatalf("got %d week buckets, want 8", len(points))
	}

	last := points[7]
	if last.Start != today {
		t.Errorf("current week starts %s, want %s", last.Start, today)
	}
	if last.Total != 2 {
		t.Errorf("current week total = %d, want 2", last.Total)
	}

	prev := points[6]
	if prev.Start != clock.AddDays(today, -7) {
		t.Errorf("previous week starts %s", prev.Start)
	}
	if prev.Total != 4 {
		t.Errorf("previous week total = %d, want 4", prev.Total)
	}

	oldest := points[0]
	if oldest.Total != 0 {
		t.Errorf("oldest bucket total = %d, want 0 (out-of-window tick leaked in)", oldest.Total)
	}
	if oldest.Delta != nil {
		t.Error("first bucket must have nil delta")
	}
	if last.Delta == nil || *last.Delta != 2-4 {
		t.Errorf("current week delta = %v, want -2", last.Delta)
	}
}

func TestMonthBuckets(t *testing.T) {
	ticks := []models.DailyTick{
		tick("a", "2026-08-01", 1),
		tick("a", "2026-08-31", 1),
		tick("a", "2026-07-15", 5),
		tick("a", "2026-02-28", 7), // 6 months back, outside the window
	}

	points := monthBuckets(ticks, today)
	if len(points) != 6 {
		t.Fatalf("got %d month buckets, want 6", len(points))
	}
	if points[0].Period != "2026-03" {
		t.Errorf("oldest month = %s, want 2026-03", points[0].Period)
	}
	if points[5].Period != "2026-08" {
		t.Errorf("newest month = %s, want 2026-08", points[5].Period)
	}
	if points[5].Total != 2 {
		t.Errorf("august total = %d, want 2", points[5].Total)
	}
	if points[4].Total != 5 {
		t.Errorf("july total = %d, want 5", points[4].Total)
	}
	if points[5].Delta == nil || *points[5].Delta != -3 {
		t.Errorf("august delta = %v, want -3", points[5].Delta)
	}
	if points[0].Delta != nil {
		t.Error("first month must have nil delta")
	}
}

func TestAtRiskHabits(t *testing.T) {
	yesterday := clock.AddDays(today, -1)

	habits := []models.Habit{
		habit("safe", "Marked Today"),
		habit("risk3", "Three Day Streak"),
		habit("risk1", "One Day Streak"),
		habit("lapsed", "Ended Two Days Ago"),
		habit("empty", "Never Marked"),
	}
	ticks := []models.DailyTick{
		tick("safe", today, 1),
		tick("safe", yesterday, 1),
		tick("risk3", yesterday, 1),
		tick("risk3", clock.AddDays(today, -2), 1),
		tick("risk3", clock.AddDays(today, -3), 1),
		tick("risk1", yesterday, 1),
		tick("lapsed", clock.AddDays(today, -2), 1),
	}

	got := atRiskHabits(habits, ticks, today)
	if len(got) != 2 {
		t.Fatalf("got %d at-risk habits, want 2: %+v", len(got), got)
	}
	if got[0].Habit.ID != "risk3" || got[0].StreakLength != 3 {
		t.Errorf("got[0] = %+v, want risk3 with length 3", got[0])
	}
	if got[1].Habit.ID != "risk1" || got[1].StreakLength != 1 {
		t.Errorf("got[1] = %+v, want risk1 with length 1", got[1])
	}
	for _, e := range got {
		if e.LastMarkedOn != yesterday {
			t.Errorf("lastMarkedOn = %s, want %s", e.LastMarkedOn, yesterday)
		}
	}
}

func TestAtRiskCapped(t *testing.T) {
	yesterday := clock.AddDays(today, -1)

	var habits []models.Habit
	var ticks []models.DailyTick
	for i, id := range []string{"w", "x", "y", "z"} {
		habits = append(habits, habit(id, id))
		// Streak lengths 1..4 ending yesterday.
		for d := 0; d <= i; d++ {
			ticks = append(ticks, tick(id, clock.AddDays(yesterday, -d), 1))
		}
	}

	got := atRiskHabits(habits, ticks, today)
	if len(got) != 3 {
		t.Fatalf("got %d at-risk habits, want cap of 3", len(got))
	}
	if got[0].Habit.ID != "z" || got[0].StreakLength != 4 {
		t.Errorf("got[0] = %+v, want z with length 4", got[0])
	}
	if got[2].StreakLength != 2 {
		t.Errorf("shortest surviving streak = %d, want 2", got[2].StreakLength)
	}
}
