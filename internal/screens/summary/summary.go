package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingo/internal/api"
	"github.com/abhisek/lingo/internal/router"
	"github.com/abhisek/lingo/internal/screen"
	sess "github.com/abhisek/lingo/internal/session"
	"github.com/abhisek/lingo/internal/ui/components"
	"github.com/abhisek/lingo/internal/ui/layout"
	"github.com/abhisek/lingo/internal/ui/theme"
)

const requestTimeout = 30 * time.Second

// detailLoadedMsg is sent when the session detail fetch finishes.
type detailLoadedMsg struct {
	Detail *api.SessionDetail
	Err    error
}

// SummaryScreen shows the final record for a completed session. The detail is
// fetched read-only; the store keeps its completed state until the learner
// leaves, at which point it is reset for the next paper.
type SummaryScreen struct {
	flow      *sess.Flow
	sessionID int

	detail *api.SessionDetail
	errMsg string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for the given completed session.
func New(flow *sess.Flow, sessionID int) *SummaryScreen {
	return &SummaryScreen{
		flow:      flow,
		sessionID: sessionID,
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return s.loadDetail()
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Enter", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.detail = msg.Detail
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r", "R":
			if s.errMsg != "" {
				s.errMsg = ""
				return s, s.loadDetail()
			}
		case "enter", "esc":
			// Leaving the summary clears session state for the next paper.
			s.flow.Store().Reset()
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}

	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Could not load summary: %s\n\n  Press R to retry or Enter to go home.", s.errMsg))
	}
	if s.detail == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Loading your results...")
	}
	return s.renderDetail(width)
}

func (s *SummaryScreen) renderDetail(width int) string {
	d := s.detail

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(theme.Title.Width(width).Render("Paper Complete"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf("%s · %s", d.Mode, d.Level)))
	b.WriteString("\n\n")

	scoreStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%d / %d correct", d.CorrectCount, d.TotalQuestions)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Accuracy", d.Accuracy, true, min(width-12, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Best streak", fmt.Sprintf("%d", d.MaxStreak)},
		{"Time", formatDuration(d.DurationSecs)},
		{"Session", fmt.Sprintf("#%d", d.SessionID)},
	}
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	for _, row := range rows {
		line := labelStyle.Render(row.label) + valueStyle.Render(row.value)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(encouragement(d.Accuracy)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Hint.GetForeground()).
		Render("Press Enter to return home"))

	return b.String()
}

func (s *SummaryScreen) loadDetail() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		detail, err := s.flow.Detail(ctx, s.sessionID)
		return detailLoadedMsg{Detail: detail, Err: err}
	}
}

func formatDuration(secs int) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

func encouragement(accuracy float64) string {
	switch {
	case accuracy >= 0.9:
		return "Outstanding! Try the next level."
	case accuracy >= 0.7:
		return "Solid work. Keep the streak going."
	case accuracy >= 0.5:
		return "Good effort. Review the missed skills and go again."
	default:
		return "Every paper counts. Another round will help it stick."
	}
}
