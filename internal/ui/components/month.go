package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aishakabeer/todolist/internal/calendar"
	"github.com/Aishakabeer/todolist/internal/tasks"
)

const cellWidth = 5

var (
	monthTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(cellWidth).
			Align(lipgloss.Right)

	dayStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Right)

	busyDayStyle = dayStyle.
			Foreground(lipgloss.Color("214")).
			Bold(true)

	todayStyle = dayStyle.
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12"))

	agendaDateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// MonthCalendar renders a month grid followed by an agenda of the tasks due
// in that month. Days with tasks are marked with an asterisk.
type MonthCalendar struct {
	Month *tasks.MonthView
}

func NewMonthCalendar(view *tasks.MonthView) *MonthCalendar {
	return &MonthCalendar{Month: view}
}

func (c *MonthCalendar) View() string {
	g := c.Month.Grid

	var b strings.Builder
	b.WriteString(monthTitleStyle.Render(fmt.Sprintf("%s %d", g.MonthName, g.Year)))
	b.WriteString("\n")

	header := make([]string, 0, len(c.Month.Weekdays))
	for _, wd := range c.Month.Weekdays {
		header = append(header, weekdayStyle.Render(wd))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, week := range g.Weeks {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, c.renderCell(cell))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if agenda := c.agenda(); agenda != "" {
		b.WriteString("\n\n")
		b.WriteString(agenda)
	}
	return b.String()
}

func (c *MonthCalendar) renderCell(cell *calendar.Cell) string {
	if cell == nil {
		return strings.Repeat(" ", cellWidth)
	}

	label := fmt.Sprintf("%d ", cell.Day)
	style := dayStyle
	if len(c.Month.TasksOn(cell.Date)) > 0 {
		label = fmt.Sprintf("%d*", cell.Day)
		style = busyDayStyle
	}
	if cell.IsToday {
		style = todayStyle
	}
	return style.Render(label)
}

func (c *MonthCalendar) agenda() string {
	var lines []string
	for _, week := range c.Month.Grid.Weeks {
		for _, cell := range week {
			if cell == nil {
				continue
			}
			for _, t := range c.Month.TasksOn(cell.Date) {
				icon := pendingIcon
				if t.Completed {
					icon = completedIcon
				}
				lines = append(lines, fmt.Sprintf("%s %s %s",
					agendaDateStyle.Render(cell.Date.Time().Format("Jan 02")), icon, t.Title))
			}
		}
	}
	return strings.Join(lines, "\n")
}
