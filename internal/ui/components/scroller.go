package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	scrollbarTrackStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("236"))

	scrollbarHandleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))
)

// Scroller shows pre-rendered content in a viewport with a scrollbar once
// the content is taller than the viewport.
type Scroller struct {
	viewport viewport.Model
	content  string
}

func NewScroller(width, height int) *Scroller {
	s := &Scroller{}
	s.SetSize(width, height)
	return s
}

// SetSize resizes the viewport, leaving one column for the scrollbar.
func (s *Scroller) SetSize(width, height int) {
	vpWidth := width
	if width > 0 {
		vpWidth = width - 1
	}
	s.viewport = viewport.New(vpWidth, height)
	s.updateContent()
}

// SetContent replaces the content and scrolls back to the top.
func (s *Scroller) SetContent(content string) {
	s.content = content
	s.updateContent()
}

func (s *Scroller) updateContent() {
	s.viewport.SetContent(contentStyle.Render(s.content))
	s.viewport.GotoTop()
}

func (s *Scroller) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

func (s *Scroller) View() string {
	if s.viewport.TotalLineCount() <= s.viewport.Height {
		return s.viewport.View()
	}

	h := s.viewport.Height
	handlePos := int(float64(h-1) * s.viewport.ScrollPercent())

	var sb strings.Builder
	for i := 0; i < h; i++ {
		if i == handlePos {
			sb.WriteString(scrollbarHandleStyle.Render("┃"))
		} else {
			sb.WriteString(scrollbarTrackStyle.Render("│"))
		}
		if i < h-1 {
			sb.WriteString("\n")
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, s.viewport.View(), sb.String())
}

func (s *Scroller) Height() int {
	return s.viewport.Height
}
