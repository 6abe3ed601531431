package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aishakabeer/todolist/pkg/models"
)

var (
	completedTaskStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("42")).
				Padding(0, 1)

	pendingTaskStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("214")).
				Padding(0, 1)

	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	subTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true).
				Padding(0, 1)
)

const (
	pendingIcon   = "○"
	completedIcon = "✓"
)

// TaskList renders tasks split into a pending and a completed box, keeping
// the order they were added in.
type TaskList struct {
	Pending   []*models.Task
	Completed []*models.Task
	Width     int
	Title     string
}

func NewTaskList(width int) *TaskList {
	return &TaskList{
		Pending:   make([]*models.Task, 0),
		Completed: make([]*models.Task, 0),
		Width:     width,
		Title:     "Tasks",
	}
}

func (l *TaskList) Add(tasks ...*models.Task) {
	for _, t := range tasks {
		if t.Completed {
			l.Completed = append(l.Completed, t)
		} else {
			l.Pending = append(l.Pending, t)
		}
	}
}

func (l *TaskList) View() string {
	var boxes []string

	if len(l.Pending) > 0 {
		boxes = append(boxes, l.renderBox("Pending", l.Pending, pendingTaskStyle, pendingIcon))
	}

	if len(l.Completed) > 0 {
		boxes = append(boxes, l.renderBox("Completed", l.Completed, completedTaskStyle, completedIcon))
	}

	var content string
	if len(boxes) == 0 {
		content = placeholderStyle.Render("No tasks found")
	} else {
		content = strings.Join(boxes, "\n")
	}

	if l.Title != "" {
		return listHeaderStyle.Render(l.Title) + "\n" + content
	}
	return content
}

func (l *TaskList) renderBox(title string, tasks []*models.Task, style lipgloss.Style, icon string) string {
	boxWidth := l.Width

	subTitle := subTitleStyle.Foreground(style.GetForeground()).Render(fmt.Sprintf("%s (%d)", title, len(tasks)))

	innerWidth := boxWidth - 4
	if innerWidth < 0 {
		innerWidth = 0
	}

	// icon, space, date, space
	const prefixWidth = 2 + len(models.DateLayout) + 1
	nameWidth := innerWidth - prefixWidth
	if nameWidth < 0 {
		nameWidth = 0
	}

	var lines []string
	for _, t := range tasks {
		wrapped := lipgloss.NewStyle().Width(nameWidth).Render(t.Title)
		for i, line := range strings.Split(wrapped, "\n") {
			if i == 0 {
				lines = append(lines, fmt.Sprintf("%s %s %s", icon, t.DueDate, line))
			} else {
				lines = append(lines, strings.Repeat(" ", prefixWidth)+line)
			}
		}
	}

	body := strings.Join(lines, "\n")
	return style.Width(boxWidth).Render(subTitle + "\n" + body)
}
