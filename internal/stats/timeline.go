package stats

import (
	"sort"

	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
)

const (
	timelineWeeks  = 8
	timelineMonths = 6
	atRiskLimit    = 3
)

// TrendPoint is one calendar-aligned bucket of completions. Delta is the
// signed change versus the preceding bucket, nil for the first (baseline)
// bucket.
type TrendPoint struct {
	Period string
	Start  clock.DayKey
	End    clock.DayKey
	Total  int
	Delta  *int
}

// AtRiskEntry is a habit whose streak ended exactly yesterday.
type AtRiskEntry struct {
	Habit        models.Habit
	StreakLength int
	LastMarkedOn clock.DayKey
}

// Timeline is the trend view: weekly and monthly momentum plus streak
// alerts.
type Timeline struct {
	Weeks  []TrendPoint
	Months []TrendPoint
	AtRisk []AtRiskEntry
}

func buildTimeline(habits []models.Habit, ticks []models.DailyTick, today clock.DayKey) Timeline {
	return Timeline{
		Weeks:  weekBuckets(ticks, today),
		Months: monthBuckets(ticks, today),
		AtRisk: atRiskHabits(habits, ticks, today),
	}
}

// weekBuckets totals completions for the last 8 calendar weeks including the
// current one. Weeks start on Sunday.
func weekBuckets(ticks []models.DailyTick, today clock.DayKey) []TrendPoint {
	currentStart := clock.WeekStart(today)

	points := make([]TrendPoint, 0, timelineWeeks)
	for i := timelineWeeks - 1; i >= 0; i-- {
		start := clock.AddDays(currentStart, -7*i)
		points = append(points, TrendPoint{
			Period: string(start),
			Start:  start,
			End:    clock.AddDays(start, 6),
		})
	}
	fillTotals(points, ticks)
	applyDeltas(points)
	return points
}

// monthBuckets totals completions for the last 6 calendar months including
// the current one.
func monthBuckets(ticks []models.DailyTick, today clock.DayKey) []TrendPoint {
	points := make([]TrendPoint, 0, timelineMonths)
	for i := timelineMonths - 1; i >= 0; i-- {
		start := clock.AddMonths(today, -i)
		points = append(points, TrendPoint{
			Period: string(start[:7]),
			Start:  start,
			End:    clock.MonthEnd(start),
		})
	}
	fillTotals(points, ticks)
	applyDeltas(points)
	return points
}

func fillTotals(points []TrendPoint, ticks []models.DailyTick) {
	for _, t := range ticks {
		for i := range points {
			if t.Date >= points[i].Start && t.Date <= points[i].End {
				points[i].Total += t.Count
				break
			}
		}
	}
}

func applyDeltas(points []TrendPoint) {
	for i := 1; i < len(points); i++ {
		delta := points[i].Total - points[i-1].Total
		points[i].Delta = &delta
	}
}

// atRiskHabits finds habits marked yesterday but not yet today: their streak
// ends exactly yesterday and one missed day would break it. Sorted by streak
// length descending, then by recency of the last mark, capped at 3.
func atRiskHabits(habits []models.Habit, ticks []models.DailyTick, today clock.DayKey) []AtRiskEntry {
	yesterday := clock.AddDays(today, -1)

	byHabit := make(map[string]map[clock.DayKey]bool)
	for _, t := range ticks {
		if t.Count <= 0 {
			continue
		}
		if byHabit[t.HabitID] == nil {
			byHabit[t.HabitID] = make(map[clock.DayKey]bool)
		}
		byHabit[t.HabitID][t.Date] = true
	}

	var entries []AtRiskEntry
	for _, h := range habits {
		days := byHabit[h.ID]
		if len(days) == 0 || days[today] || !days[yesterday] {
			continue
		}

		length := 0
		cursor := yesterday
		for days[cursor] {
			length++
			cursor = clock.AddDays(cursor, -1)
		}
		entries = append(entries, AtRiskEntry{
			Habit:        h,
			StreakLength: length,
			LastMarkedOn: yesterday,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].StreakLength != entries[j].StreakLength {
			return entries[i].StreakLength > entries[j].StreakLength
		}
		return entries[i].LastMarkedOn > entries[j].LastMarkedOn
	})
	if len(entries) > atRiskLimit {
		entries = entries[:atRiskLimit]
	}
	return entries
}
