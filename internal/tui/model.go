// Package tui is the interactive today view. It reads everything through the
// repository and re-queries on every change notification, never mutating its
// own copy of the data.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitheat/internal/bus"
	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/internal/repo"
)

type row struct {
	habit  models.Habit
	count  int
	streak models.StreakSummary
}

// RefreshMsg asks the model to reload from the repository. Wire sends one for
// every bus notification.
type RefreshMsg struct{}

type dataMsg struct {
	today clock.DayKey
	rows  []row
}

type errMsg struct{ err error }

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Decrement key.Binding
	Quit      key.Binding
}

var keys = KeyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Decrement: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "decrement")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Decrement, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type Model struct {
	repo     *repo.Repository
	keys     KeyMap
	help     help.Model
	today    clock.DayKey
	rows     []row
	cursor   int
	err      error
	quitting bool
}

func NewModel(r *repo.Repository) Model {
	return Model{repo: r, keys: keys, help: help.New()}
}

// Wire subscribes the program to every data-change topic and returns a cancel
// func that must run before the bus closes. Notifications arrive after quit
// too; bubbletea drops sends to a finished program, which is exactly the
// recompute-then-discard contract.
func Wire(b *bus.Bus, p *tea.Program) func() {
	notify := func(string) { p.Send(RefreshMsg{}) }
	cancels := []func(){
		b.Subscribe(bus.TopicHabitCreated, notify),
		b.Subscribe(bus.TopicHabitUpdated, notify),
		b.Subscribe(bus.TopicTickChanged, notify),
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// load re-queries habits, today's counts and streaks in one command.
func (m Model) load() tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		habits, err := r.GetAllHabits()
		if err != nil {
			return errMsg{err}
		}
		counts, err := r.GetAllToday()
		if err != nil {
			return errMsg{err}
		}
		byID := make(map[string]int, len(counts))
		for _, tc := range counts {
			byID[tc.HabitID] = tc.Count
		}

		rows := make([]row, 0, len(habits))
		for _, h := range habits {
			streak, err := r.ComputeStreaks(h.ID)
			if err != nil {
				return errMsg{err}
			}
			rows = append(rows, row{habit: h, count: byID[h.ID], streak: streak})
		}
		return dataMsg{today: r.Today(), rows: rows}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dataMsg:
		m.today = msg.today
		m.rows = msg.rows
		m.err = nil
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case RefreshMsg:
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if len(m.rows) > 0 {
				id := m.rows[m.cursor].habit.ID
				r := m.repo
				return m, func() tea.Msg {
					if _, err := r.ToggleToday(id); err != nil {
						return errMsg{err}
					}
					return RefreshMsg{}
				}
			}
		case key.Matches(msg, m.keys.Decrement):
			if len(m.rows) > 0 {
				id := m.rows[m.cursor].habit.ID
				r := m.repo
				return m, func() tea.Msg {
					if err := r.DecrementToday(id); err != nil {
						return errMsg{err}
					}
					return RefreshMsg{}
				}
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := titleStyle.Render(fmt.Sprintf("habitheat  %s", m.today)) + "\n\n"

	if m.err != nil {
		s += dangerStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	if len(m.rows) == 0 {
		s += faintStyle.Render("No habits yet. Add one with 'habitheat habit add'.") + "\n"
	}

	for i, r := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		status := "[ ]"
		if r.count >= r.habit.Target() {
			status = doneStyle.Render("[x]")
		} else if r.count > 0 {
			status = fmt.Sprintf("[%d]", r.count)
		}

		line := fmt.Sprintf("%s%s %s %s", cursor, status, swatch(r.habit.Color), r.habit.Name)
		if r.streak.Current > 0 {
			line += faintStyle.Render(fmt.Sprintf("  %d🔥", r.streak.Current))
		}
		s += line + "\n"
	}

	s += "\n" + m.help.View(m.keys)
	return docStyle.Render(s)
}
