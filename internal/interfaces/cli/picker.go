package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"instrshot.dev/cli/internal/core/plugin"
)

var errPickCanceled = errors.New("plugin selection canceled")

type pickerItem struct {
	name        string
	description string
}

// pickerModel lets the user choose a plugin from the registry
type pickerModel struct {
	items    []pickerItem
	cursor   int
	chosen   string
	canceled bool
}

func newPickerModel(registry *plugin.Registry) pickerModel {
	m := pickerModel{}
	for p := range registry.All() {
		m.items = append(m.items, pickerItem{name: p.Name(), description: p.Description()})
	}
	return m
}

// Init implements the Bubble Tea init method
func (m pickerModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.canceled = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "enter":
		if len(m.items) > 0 {
			m.chosen = m.items[m.cursor].name
		}
		return m, tea.Quit
	}
	return m, nil
}

// View implements the Bubble Tea view method
func (m pickerModel) View() string {
	if m.chosen != "" || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Select a screenshot plugin"))
	b.WriteString("\n\n")
	for i, item := range m.items {
		line := fmt.Sprintf("  %-18s %s", item.name, mutedStyle.Render(item.description))
		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Render("> " + fmt.Sprintf("%-18s", item.name) + " " + item.description)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("↑/k up • ↓/j down • enter select • q quit"))
	b.WriteString("\n")
	return b.String()
}

// pickPlugin runs the picker on the command's terminal and returns the chosen name
func pickPlugin(cmd *cobra.Command, registry *plugin.Registry) (string, error) {
	model := newPickerModel(registry)
	if len(model.items) == 0 {
		return "", fmt.Errorf("no screenshot plugins registered")
	}

	program := tea.NewProgram(model, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.ErrOrStderr()))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("plugin picker: %w", err)
	}

	result := final.(pickerModel)
	if result.canceled || result.chosen == "" {
		return "", errPickCanceled
	}
	return result.chosen, nil
}
