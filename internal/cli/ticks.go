package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
)

type MarkCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *MarkCmd) Run(ctx *Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}

	// Marking bumps the count by one so habits with targets above one can be
	// marked repeatedly through the day.
	m, err := ctx.Repo.GetRangeMap(h.ID, day, day)
	if err != nil {
		return err
	}
	next := m[day] + 1
	if err := ctx.Repo.SetTick(h.ID, day, next); err != nil {
		return err
	}
	fmt.Printf("Marked %q for %s (%d/%d)\n", h.Name, day, next, h.Target())
	return nil
}

type UnmarkCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *UnmarkCmd) Run(ctx *Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Repo.SetTick(h.ID, day, 0); err != nil {
		return err
	}
	fmt.Printf("Unmarked %q for %s\n", h.Name, day)
	return nil
}

type SetCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Count int    `arg:"" help:"Completion count. Zero removes the entry."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *SetCmd) Run(ctx *Context) error {
	if c.Count < 0 {
		return fmt.Errorf("count cannot be negative")
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Repo.SetTick(h.ID, day, c.Count); err != nil {
		return err
	}
	fmt.Printf("Set %q to %d for %s\n", h.Name, c.Count, day)
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	habits, err := ctx.Repo.GetAllHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'habitheat habit add'.")
		return nil
	}

	counts, err := ctx.Repo.GetAllToday()
	if err != nil {
		return err
	}
	byID := make(map[string]int, len(counts))
	for _, tc := range counts {
		byID[tc.HabitID] = tc.Count
	}

	today := ctx.Repo.Today()
	fmt.Println(headerStyle.Render(fmt.Sprintf("Habits for %s", today)))
	fmt.Println()

	done := 0
	for _, h := range habits {
		count := byID[h.ID]
		status := "[ ]"
		if count >= h.Target() {
			status = "[x]"
			done++
		} else if count > 0 {
			status = fmt.Sprintf("[%d]", count)
		}
		fmt.Printf("%s %s %s\n", status, Swatch(h.Color), h.Name)
	}
	fmt.Printf("\nDone: %d/%d\n", done, len(habits))
	return nil
}

type MonthCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Month string `help:"Month in YYYY-MM format (default: current month)."`
}

func (c *MonthCmd) Run(ctx *Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	start := clock.MonthStart(ctx.Repo.Today())
	if c.Month != "" {
		start = clock.DayKey(c.Month + "-01")
		if !start.Valid() {
			return fmt.Errorf("invalid month format: %s (expected YYYY-MM)", c.Month)
		}
	}

	m, err := ctx.Repo.GetRangeMap(h.ID, start, clock.MonthEnd(start))
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s %s  %s", Swatch(h.Color), h.Name, start[:7])))
	fmt.Println(renderHeatmap(h, m, start))
	return nil
}

// renderHeatmap draws a calendar month as a Sunday-first grid. Cell intensity
// tracks how much of the habit's daily target was met.
func renderHeatmap(h models.Habit, counts map[clock.DayKey]int, monthStart clock.DayKey) string {
	end := clock.MonthEnd(monthStart)
	target := h.Target()

	filled := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color.Hex()))
	partial := filled.Faint(true)

	out := faintStyle.Render("Su Mo Tu We Th Fr Sa") + "\n"

	// Leading blanks up to the month's first weekday.
	offset := clock.DaysBetween(clock.WeekStart(monthStart), monthStart)
	line := make([]string, 0, 7)
	for i := 0; i < offset; i++ {
		line = append(line, "  ")
	}

	for d := monthStart; d <= end; d = clock.AddDays(d, 1) {
		cell := faintStyle.Render("··")
		if count := counts[d]; count >= target {
			cell = filled.Render("██")
		} else if count > 0 {
			cell = partial.Render("▒▒")
		}
		line = append(line, cell)
		if len(line) == 7 {
			out += joinCells(line) + "\n"
			line = line[:0]
		}
	}
	if len(line) > 0 {
		out += joinCells(line) + "\n"
	}
	return out
}

func joinCells(cells []string) string {
	s := ""
	for i, c := range cells {
		if i > 0 {
			s += " "
		}
		s += c
	}
	return s
}
