package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	logoStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("12")).Bold(true)
	summaryStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const logo = `
 _            _       _ _     _
| |_ ___   __| | ___ | (_)___| |_
| __/ _ \ / _` + "`" + ` |/ _ \| | / __| __|
| || (_) | (_| | (_) | | \__ \ |_
 \__\___/ \__,_|\___/|_|_|___/\__|
`

// MenuItem is one command offered by the start menu.
type MenuItem struct {
	Name    string
	Summary string
}

type MenuModel struct {
	items    []MenuItem
	cursor   int
	selected string
	quitting bool
}

func NewMenuModel(items []MenuItem) MenuModel {
	return MenuModel{items: items}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	n := len(m.items)
	if n == 0 {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.cursor = (m.cursor - 1 + n) % n
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % n
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = n - 1
	case "enter":
		m.selected = m.items[m.cursor].Name
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	width := 0
	for _, item := range m.items {
		width = max(width, len(item.Name))
	}

	var s strings.Builder
	s.WriteString(logoStyle.Render(logo))
	s.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("%-*s  %s", width, item.Name, summaryStyle.Render(item.Summary))
		if i == m.cursor {
			s.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			s.WriteString(itemStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	s.WriteString(summaryStyle.Render("\n↑/↓ or j/k move • enter run • q quit"))
	s.WriteString("\n")
	return s.String()
}

// Selected is the chosen command name, or "" when the menu was dismissed.
func (m MenuModel) Selected() string {
	return m.selected
}

func RunMenu(items []MenuItem) (string, error) {
	final, err := tea.NewProgram(NewMenuModel(items)).Run()
	if err != nil {
		return "", err
	}
	return final.(MenuModel).Selected(), nil
}
