// Package cli holds the kong command tree and the shared command context.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitheat/internal/bus"
	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/internal/repo"
	"github.com/julianstephens/habitheat/internal/storage/sqlite"
)

// Context carries the wired application services into every command Run.
type Context struct {
	Store *sqlite.Store
	Repo  *repo.Repository
	Bus   *bus.Bus
	Clock clock.Clock
}

// ResolveHabit finds a habit by id, falling back to a case-insensitive name
// match. Commands accept either form so users never have to copy uuids.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	h, err := c.Repo.GetHabit(ref)
	if err == nil {
		return h, nil
	}
	if err != sqlite.ErrNotFound {
		return models.Habit{}, err
	}

	habits, err := c.Repo.GetAllHabits()
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}

// ResolveDay validates an optional --date flag, defaulting to today.
func (c *Context) ResolveDay(date string) (clock.DayKey, error) {
	if date == "" {
		return c.Repo.Today(), nil
	}
	d := clock.DayKey(date)
	if !d.Valid() {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return d, nil
}

// Swatch renders a colored block for the habit's palette color.
func Swatch(color models.HabitColor) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex())).Render("●")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)
