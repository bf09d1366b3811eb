package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingo/internal/api"
	"github.com/abhisek/lingo/internal/ui/theme"
)

// renderQuestionView renders the active exercise.
func (s *SessionScreen) renderQuestionView(width int) string {
	store := s.flow.Store()
	q := store.CurrentExercise()
	if q == nil {
		return renderLoading(width)
	}

	stats := store.Stats()
	elapsed := int(store.Elapsed().Seconds())

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", s.req.Mode, s.req.Level))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s %d  %s %d:%02d",
			stats.TotalQuestions+1,
			s.req.QuestionCount,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("🔥"),
			stats.CurrentStreak,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render("T"),
			elapsed/60, elapsed%60,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Reading sets carry a passage above the prompt.
	if q.Passage != "" {
		passageStyle := lipgloss.NewStyle().
			Width(min(width-8, 72)).
			Foreground(theme.TextDim)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, passageStyle.Render(q.Passage)))
		b.WriteString("\n\n")
	}

	if q.AudioURL != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Hint.GetForeground()).
			Render("♪ Listening exercise — play the clip in your player: " + q.AudioURL))
		b.WriteString("\n\n")
	}

	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(q.Prompt))
	b.WriteString("\n\n")

	if len(q.Options) > 0 {
		b.WriteString(s.renderOptions(width))
	} else {
		answerLine := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + s.input.View())
		b.WriteString(answerLine)
	}

	return b.String()
}

// renderOptions renders multiple-choice options with the selection cursor.
func (s *SessionScreen) renderOptions(width int) string {
	q := s.flow.Store().CurrentExercise()
	if q == nil {
		return ""
	}

	var b strings.Builder
	for i, opt := range q.Options {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt.Text)

		if i == s.selected {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	selectLine := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\nSelect (1-%d) or use arrows + Enter", len(q.Options)))
	b.WriteString(selectLine)

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderFeedback renders the feedback overlay for the last submission.
func (s *SessionScreen) renderFeedback(width int) string {
	store := s.flow.Store()
	fb := store.Feedback()
	if fb == nil {
		return renderLoading(width)
	}

	var b strings.Builder
	b.WriteString("\n\n")

	if fb.IsCorrect {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Your answer: %s    Correct answer: %s",
				formatAnswer(fb.YourAnswer), formatAnswer(fb.CorrectAnswer))))
	}

	b.WriteString("\n\n")

	if fb.Explanation != "" {
		expStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, expStyle.Render(fb.Explanation)))
		b.WriteString("\n\n")
	}

	if len(fb.Skills) > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Worth reviewing"))
		b.WriteString("\n")
		for _, skill := range fb.Skills {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderSkill(skill, width)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	stats := store.Stats()
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Score %d/%d · accuracy %.0f%% · streak %d",
			stats.CorrectCount, stats.TotalQuestions, stats.Accuracy*100, stats.CurrentStreak)))
	b.WriteString("\n\n")

	continueHint := "Press Enter for the next question"
	if s.paperDone() {
		continueHint = "Paper complete — press Enter for your summary"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(continueHint))

	return b.String()
}

// renderSkill renders one remediation entry according to its variant.
func renderSkill(skill api.SkillInfo, width int) string {
	nameStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(theme.Text).Width(min(width-12, 64))

	switch {
	case skill.Lexical != nil:
		return nameStyle.Render("  "+skill.Lexical.Word) + "  " +
			bodyStyle.Render(skill.Lexical.Definition)
	case skill.Grammatical != nil:
		line := nameStyle.Render("  "+skill.Name) + "  " + bodyStyle.Render(skill.Grammatical.Rule)
		if skill.Grammatical.Pattern != "" {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (" + skill.Grammatical.Pattern + ")")
		}
		return line
	default:
		return nameStyle.Render("  " + skill.Name)
	}
}

// formatAnswer makes an opaque answer payload readable. The backend owns the
// shape; the common single-field forms are unwrapped, everything else is
// shown raw.
func formatAnswer(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "—"
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err == nil && len(m) == 1 {
		for _, v := range m {
			return v
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// renderQuitConfirm renders the finish-early confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Finish this paper early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answered questions are already scored."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, finish now"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderLoading renders the waiting state.
func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing your paper...")
}

// renderError renders an error message with the retry hint.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press R to retry or Esc to go back.", errMsg))
}
