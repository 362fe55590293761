package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/internal/validation"
)

type HabitCmd struct {
	Add  HabitAddCmd  `cmd:"" help:"Add a new habit."`
	Edit HabitEditCmd `cmd:"" help:"Edit an existing habit."`
	List HabitListCmd `cmd:"" help:"List habits."`
}

type HabitAddCmd struct {
	Name   string `arg:"" optional:"" help:"Habit name. Omit to fill in interactively."`
	Color  string `help:"Habit color." default:"blue"`
	Target int    `help:"Daily completion target." default:"0"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	name := c.Name
	color := models.HabitColor(c.Color)
	target := c.Target

	if name == "" {
		if err := habitForm(&name, &color, &target); err != nil {
			return err
		}
	}

	var targetPtr *int
	if target > 0 {
		targetPtr = &target
	}
	if err := validation.ValidateHabit(name, color, targetPtr); err != nil {
		return err
	}

	h, err := ctx.Repo.CreateHabit(name, color, targetPtr)
	if err != nil {
		return err
	}
	fmt.Printf("Added habit: %s %s\n", Swatch(h.Color), h.Name)
	return nil
}

// habitForm collects habit fields interactively.
func habitForm(name *string, color *models.HabitColor, target *int) error {
	colorOpts := make([]huh.Option[models.HabitColor], len(models.Palette))
	for i, c := range models.Palette {
		colorOpts[i] = huh.NewOption(string(c), c)
	}

	targetStr := ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(name).
				Validate(validation.ValidateName),
			huh.NewSelect[models.HabitColor]().
				Title("Color").
				Options(colorOpts...).
				Value(color),
			huh.NewInput().
				Title("Daily target (blank for once a day)").
				Value(&targetStr).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if s := strings.TrimSpace(targetStr); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			*target = n
		}
	}
	return nil
}

type HabitEditCmd struct {
	Habit  string `arg:"" help:"Habit name or id."`
	Name   string `help:"New name."`
	Color  string `help:"New color."`
	Target int    `help:"New daily target (0 clears back to once a day)." default:"-1"`
	Order  int64  `help:"New sort order." default:"-1"`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	var patch models.HabitPatch
	if c.Name != "" {
		if err := validation.ValidateName(c.Name); err != nil {
			return err
		}
		patch.Name = &c.Name
	}
	if c.Color != "" {
		color := models.HabitColor(c.Color)
		if err := validation.ValidateColor(color); err != nil {
			return err
		}
		patch.Color = &color
	}
	switch {
	case c.Target > 0:
		patch.TargetPerDay = &c.Target
	case c.Target == 0:
		one := 1
		patch.TargetPerDay = &one
	}
	if c.Order >= 0 {
		patch.SortOrder = &c.Order
	}

	if patch == (models.HabitPatch{}) {
		fmt.Println("Nothing to change.")
		return nil
	}
	if err := ctx.Repo.UpdateHabit(h.ID, patch); err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", h.Name)
	return nil
}

type HabitListCmd struct {
	IDs bool `help:"Show habit ids."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Repo.GetAllHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'habitheat habit add'.")
		return nil
	}

	for _, h := range habits {
		line := fmt.Sprintf("%s %s", Swatch(h.Color), h.Name)
		if h.Target() > 1 {
			line += faintStyle.Render(fmt.Sprintf(" (target %d/day)", h.Target()))
		}
		if c.IDs {
			line += faintStyle.Render("  " + h.ID)
		}
		fmt.Println(line)
	}
	return nil
}
