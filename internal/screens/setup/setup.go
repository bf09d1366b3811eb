package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingo/internal/api"
	"github.com/abhisek/lingo/internal/router"
	"github.com/abhisek/lingo/internal/screen"
	sessionscreen "github.com/abhisek/lingo/internal/screens/session"
	sess "github.com/abhisek/lingo/internal/session"
	"github.com/abhisek/lingo/internal/ui/components"
	"github.com/abhisek/lingo/internal/ui/layout"
	"github.com/abhisek/lingo/internal/ui/theme"
)

// Paper configuration choices. The backend validates these too; the lists
// here just bound the picker.
var (
	modes  = []string{"vocabulary", "grammar", "listening", "reading", "mixed"}
	levels = []string{"A1", "A2", "B1", "B2", "C1"}
	counts = []int{5, 10, 15, 20}
)

// row indices for the picker
const (
	rowMode = iota
	rowLevel
	rowCount
	rowStart
)

// SetupScreen collects the paper configuration before a session starts.
type SetupScreen struct {
	flow *sess.Flow

	row      int
	modeIdx  int
	levelIdx int
	countIdx int

	start components.Button
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen with sensible defaults.
func New(flow *sess.Flow) *SetupScreen {
	s := &SetupScreen{
		flow:     flow,
		countIdx: 1, // 10 questions
	}
	s.start = components.NewButton("Start", false, s.pushSession)
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Paper"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Row"},
		{Key: "←/→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// request builds the session creation payload from the current picks.
func (s *SetupScreen) request() *api.CreateSessionRequest {
	return &api.CreateSessionRequest{
		Mode:          modes[s.modeIdx],
		Level:         levels[s.levelIdx],
		QuestionCount: counts[s.countIdx],
	}
}

func (s *SetupScreen) pushSession() tea.Cmd {
	req := s.request()
	return func() tea.Msg {
		return router.PushScreenMsg{
			Screen: sessionscreen.New(s.flow, req),
		}
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.row > rowMode {
			s.row--
		}
	case "down", "j":
		if s.row < rowStart {
			s.row++
		}
	case "left", "h":
		s.cycle(-1)
	case "right", "l":
		s.cycle(1)
	case "enter":
		if s.row == rowStart {
			return s, s.pushSession()
		}
		s.row++
	}

	s.start.Active = s.row == rowStart
	return s, nil
}

// cycle moves the selection on the active row, wrapping at the ends.
func (s *SetupScreen) cycle(delta int) {
	switch s.row {
	case rowMode:
		s.modeIdx = wrap(s.modeIdx+delta, len(modes))
	case rowLevel:
		s.levelIdx = wrap(s.levelIdx+delta, len(levels))
	case rowCount:
		s.countIdx = wrap(s.countIdx+delta, len(counts))
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(theme.Title.Width(width).Render("Set up your paper"))
	b.WriteString("\n\n\n")

	b.WriteString(s.renderRow(width, rowMode, "Mode", modes[s.modeIdx]))
	b.WriteString("\n")
	b.WriteString(s.renderRow(width, rowLevel, "Level", levels[s.levelIdx]))
	b.WriteString("\n")
	b.WriteString(s.renderRow(width, rowCount, "Questions", fmt.Sprintf("%d", counts[s.countIdx])))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.start.View()))

	return b.String()
}

func (s *SetupScreen) renderRow(width, row int, label, value string) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12)
	valueStyle := theme.Unselected
	rendered := "   " + value + "   "
	if s.row == row {
		valueStyle = theme.Selected
		rendered = " ◂ " + value + " ▸ "
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		labelStyle.Render(label)+valueStyle.Render(rendered))
}
