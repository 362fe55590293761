package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
)

type SeedCmd struct{}

type seedDefinition struct {
	name      string
	color     models.HabitColor
	target    int
	days      int
	generator func(weekday time.Weekday, offset int) int
}

// Run loads a set of demo habits with plausible multi-month histories.
// Re-running reuses habits matched by name, so seeding is idempotent.
func (c *SeedCmd) Run(ctx *Context) error {
	seeds := []seedDefinition{
		{
			name: "Morning Run", color: models.ColorEmerald, target: 1, days: 210,
			generator: func(wd time.Weekday, _ int) int {
				if wd == time.Sunday {
					return 0
				}
				return 1
			},
		},
		{
			name: "Meditation Breathwork", color: models.ColorViolet, target: 1, days: 160,
			generator: func(_ time.Weekday, offset int) int {
				if offset%2 == 0 {
					return 1
				}
				return 0
			},
		},
		{
			name: "Hydrate 2L", color: models.ColorBlue, target: 2, days: 120,
			generator: func(_ time.Weekday, offset int) int {
				if offset%3 == 0 {
					return 2
				}
				return 1
			},
		},
		{
			name: "Strength Training", color: models.ColorRed, target: 1, days: 90,
			generator: func(wd time.Weekday, _ int) int {
				if wd == time.Tuesday || wd == time.Thursday || wd == time.Saturday {
					return 1
				}
				return 0
			},
		},
		{
			name: "Read 20 Pages", color: models.ColorAmber, target: 1, days: 365,
			generator: func(wd time.Weekday, offset int) int {
				if wd == time.Sunday && offset%4 == 0 {
					return 2
				}
				if wd == time.Saturday && offset%3 == 0 {
					return 2
				}
				return 1
			},
		},
	}

	existing, err := ctx.Repo.GetAllHabits()
	if err != nil {
		return err
	}
	byName := make(map[string]models.Habit, len(existing))
	for _, h := range existing {
		byName[h.Name] = h
	}

	today := ctx.Repo.Today()
	for _, seed := range seeds {
		habit, ok := byName[seed.name]
		if !ok {
			target := seed.target
			habit, err = ctx.Repo.CreateHabit(seed.name, seed.color, &target)
			if err != nil {
				return err
			}
		}

		for offset := seed.days - 1; offset >= 0; offset-- {
			day := clock.AddDays(today, -offset)
			value := seed.generator(day.Time(time.Local).Weekday(), seed.days-1-offset)
			if value > 0 {
				if err := ctx.Repo.SetTick(habit.ID, day, value); err != nil {
					return err
				}
			}
		}
		fmt.Printf("Seeded %q with %d days of history\n", seed.name, seed.days)
	}
	return nil
}
