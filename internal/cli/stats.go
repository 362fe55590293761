package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/internal/stats"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	habits, err := ctx.Repo.GetAllHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'habitheat habit add'.")
		return nil
	}

	ticks, err := ctx.Repo.GetAllTicks()
	if err != nil {
		return err
	}
	streaks := make(map[string]models.StreakSummary, len(habits))
	for _, h := range habits {
		s, err := ctx.Repo.ComputeStreaks(h.ID)
		if err != nil {
			return err
		}
		streaks[h.ID] = s
	}

	s := stats.Summarize(habits, ticks, streaks, ctx.Repo.Today())

	fmt.Println(headerStyle.Render("Overview"))
	fmt.Printf("  Habits: %d   Completions: %d (last 30 days: %d)   Active days: %d\n",
		s.TotalHabits, s.TotalCompletions, s.CompletionsLast30, s.ActiveDays)
	if s.LastEntryDate != "" {
		fmt.Printf("  Last entry: %s\n", s.LastEntryDate)
	}
	if s.LongestStreak != nil && s.LongestStreak.Longest > 0 {
		fmt.Printf("  Longest streak: %d days (%s %s)\n",
			s.LongestStreak.Longest, Swatch(s.LongestStreak.Habit.Color), s.LongestStreak.Habit.Name)
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Current streaks"))
	for _, e := range s.Leaderboard {
		marker := ""
		if e.Current > 0 {
			marker = fmt.Sprintf("  (last: %s)", e.LastMarkedOn)
		}
		fmt.Printf("  %s %-20s %3d current / %3d best%s\n",
			Swatch(e.Habit.Color), e.Habit.Name, e.Current, e.Longest, faintStyle.Render(marker))
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Weekly trend"))
	fmt.Println("  " + renderTrend(s.Timeline.Weeks))
	fmt.Println(headerStyle.Render("Monthly trend"))
	fmt.Println("  " + renderTrend(s.Timeline.Months))

	if len(s.Timeline.AtRisk) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Streaks at risk"))
		for _, e := range s.Timeline.AtRisk {
			fmt.Printf("  %s %s — %d day streak ends today without a mark\n",
				Swatch(e.Habit.Color), e.Habit.Name, e.StreakLength)
		}
	}
	return nil
}

// renderTrend draws buckets as a sparkline with the latest total and delta.
func renderTrend(points []stats.TrendPoint) string {
	if len(points) == 0 {
		return ""
	}
	max := 0
	for _, p := range points {
		if p.Total > max {
			max = p.Total
		}
	}

	ramp := []rune("▁▂▃▄▅▆▇█")
	var bar strings.Builder
	for _, p := range points {
		idx := 0
		if max > 0 {
			idx = p.Total * (len(ramp) - 1) / max
		}
		bar.WriteRune(ramp[idx])
	}

	last := points[len(points)-1]
	out := fmt.Sprintf("%s  %d", bar.String(), last.Total)
	if last.Delta != nil {
		sign := "+"
		if *last.Delta < 0 {
			sign = ""
		}
		out += faintStyle.Render(fmt.Sprintf(" (%s%d vs previous)", sign, *last.Delta))
	}
	return out
}
