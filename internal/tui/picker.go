package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var presetInfo = map[string]string{
	"classic":  "six points, one pin",
	"rope":     "hanging chain",
	"bridge":   "pinned at both ends",
	"cloth":    "grid on a few pins",
	"curtain":  "grid pinned along the top",
	"pendulum": "two-link swing",
	"rain":     "rope catching drops",
}

// Picker is a menu over scene names. After the program exits, Selected
// holds the chosen name, or "" if the user quit.
type Picker struct {
	names    []string
	cursor   int
	Selected string
}

func NewPicker(names []string) Picker {
	return Picker{names: names}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		p.Selected = ""
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.names) > 0 {
			p.Selected = p.names[p.cursor]
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p Picker) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("r o p e s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range p.names {
		desc := presetInfo[name]
		if i == p.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

// Pick shows the menu and returns the chosen name, or "" if cancelled.
func Pick(names []string) (string, error) {
	m, err := tea.NewProgram(NewPicker(names), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	return m.(Picker).Selected, nil
}
