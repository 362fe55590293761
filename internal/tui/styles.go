package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitheat/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	faintStyle = lipgloss.NewStyle().Faint(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func swatch(c models.HabitColor) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("●")
}
