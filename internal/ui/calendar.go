package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aishakabeer/todolist/internal/calendar"
	"github.com/Aishakabeer/todolist/internal/tasks"
	"github.com/Aishakabeer/todolist/internal/ui/components"
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const helpText = "h/l: previous/next month  t: today  j/k: scroll  q: quit"

// monthLoadedMsg carries the month it was requested for; loads that finish
// after the user has moved on are dropped.
type monthLoadedMsg struct {
	year  int
	month time.Month
	view  *tasks.MonthView
	err   error
}

// CalendarModel is an interactive month browser.
type CalendarModel struct {
	ctx      context.Context
	svc      *tasks.Service
	year     int
	month    time.Month
	view     *tasks.MonthView
	scroller *components.Scroller
	err      error
	quitting bool
}

func NewCalendarModel(ctx context.Context, svc *tasks.Service, year int, month time.Month) CalendarModel {
	return CalendarModel{
		ctx:      ctx,
		svc:      svc,
		year:     year,
		month:    month,
		scroller: components.NewScroller(80, 20),
	}
}

func (m CalendarModel) Init() tea.Cmd {
	return m.load()
}

func (m CalendarModel) load() tea.Cmd {
	ctx, svc, year, month := m.ctx, m.svc, m.year, m.month
	return func() tea.Msg {
		view, err := svc.Month(ctx, year, month)
		return monthLoadedMsg{year: year, month: month, view: view, err: err}
	}
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "left", "h":
			prev := calendar.PrevMonth(m.year, m.month)
			m.year, m.month = prev.Year, prev.Month
			return m, m.load()

		case "right", "l":
			next := calendar.NextMonth(m.year, m.month)
			m.year, m.month = next.Year, next.Month
			return m, m.load()

		case "t":
			today := m.svc.Today()
			m.year, m.month = today.Year, today.Month
			return m, m.load()
		}

	case tea.WindowSizeMsg:
		// keep room for the help line
		m.scroller.SetSize(msg.Width, msg.Height-2)
		m.refresh()
		return m, nil

	case monthLoadedMsg:
		if msg.year != m.year || msg.month != m.month {
			return m, nil
		}
		m.view, m.err = msg.view, msg.err
		m.refresh()
		return m, nil
	}

	return m, m.scroller.Update(msg)
}

func (m CalendarModel) refresh() {
	if m.view != nil {
		m.scroller.SetContent(components.NewMonthCalendar(m.view).View())
	}
}

func (m CalendarModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("failed to load %s %d: %v", m.month, m.year, m.err)))
	} else {
		s.WriteString(m.scroller.View())
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(helpText))
	s.WriteString("\n")
	return s.String()
}

// Month reports the month currently shown.
func (m CalendarModel) Month() (int, time.Month) {
	return m.year, m.month
}

func RunCalendar(ctx context.Context, svc *tasks.Service, year int, month time.Month) error {
	p := tea.NewProgram(NewCalendarModel(ctx, svc, year, month), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
