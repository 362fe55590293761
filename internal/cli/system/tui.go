package system

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitheat/internal/cli"
	"github.com/julianstephens/habitheat/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	p := tea.NewProgram(tui.NewModel(ctx.Repo), tea.WithAltScreen())

	// Bus notifications feed the program so the view refreshes when another
	// process (or this one) mutates data.
	cancel := tui.Wire(ctx.Bus, p)
	defer cancel()

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
