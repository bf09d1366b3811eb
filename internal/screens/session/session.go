package session

import (
	"context"
	"encoding/json"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingo/internal/api"
	"github.com/abhisek/lingo/internal/router"
	"github.com/abhisek/lingo/internal/screen"
	"github.com/abhisek/lingo/internal/screens/summary"
	sess "github.com/abhisek/lingo/internal/session"
	"github.com/abhisek/lingo/internal/ui/components"
	"github.com/abhisek/lingo/internal/ui/layout"
)

// requestTimeout bounds each backend call issued from this screen.
const requestTimeout = 30 * time.Second

// SessionScreen drives one practice session: question display, answer
// submission, feedback, and completion. All session state lives in the flow's
// store; this screen only keeps presentation state (selection cursor, text
// input, in-flight guard).
type SessionScreen struct {
	flow *sess.Flow
	req  *api.CreateSessionRequest

	input    components.AnswerInput
	selected int

	// inFlight disables the submitting controls while a request is out.
	// This is the only guard against double-submission; the store itself
	// takes no locks.
	inFlight bool

	showQuitConfirm bool

	errMsg string
	retry  func() tea.Cmd
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen that will start a session from the given paper
// configuration on Init.
func New(flow *sess.Flow, req *api.CreateSessionRequest) *SessionScreen {
	return &SessionScreen{
		flow:  flow,
		req:   req,
		input: components.NewAnswerInput("Type your answer...", 40),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	s.inFlight = true
	return tea.Batch(s.startSession(), tickCmd())
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	store := s.flow.Store()
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.showQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Finish now"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if store.ShowFeedback() {
		if s.paperDone() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "See summary"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next question"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Finish early"},
	}
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	store := s.flow.Store()
	if store.CurrentExercise() == nil {
		return renderLoading(width)
	}
	if s.showQuitConfirm {
		return renderQuitConfirm(width)
	}
	if store.ShowFeedback() {
		return s.renderFeedback(width)
	}
	return s.renderQuestionView(width)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		return s.handleStarted(msg)

	case answerSubmittedMsg:
		return s.handleSubmitted(msg)

	case nextExerciseMsg:
		return s.handleNext(msg)

	case sessionCompletedMsg:
		return s.handleCompleted(msg)

	case elapsedTickMsg:
		// Re-arm unconditionally: session creation can outlast the first
		// tick, and a dropped chain would freeze the elapsed display for
		// the rest of the session.
		return s, tickCmd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward to the text input while a typed question is active.
	if s.typingActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

// typingActive reports whether keystrokes should feed the answer input.
func (s *SessionScreen) typingActive() bool {
	store := s.flow.Store()
	q := store.CurrentExercise()
	return q != nil && !store.ShowFeedback() && !s.showQuitConfirm &&
		!s.inFlight && s.errMsg == "" && len(q.Options) == 0
}

// paperDone reports whether the configured number of questions has been
// answered. The server owns the count; this mirrors its stats.
func (s *SessionScreen) paperDone() bool {
	stats := s.flow.Store().Stats()
	return s.req.QuestionCount > 0 && stats.TotalQuestions >= s.req.QuestionCount
}

func (s *SessionScreen) handleStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	s.inFlight = false
	if msg.Err != nil {
		s.fail(msg.Err, s.startSession)
		return s, nil
	}
	s.prepareForQuestion()
	return s, s.input.Init()
}

func (s *SessionScreen) handleSubmitted(msg answerSubmittedMsg) (screen.Screen, tea.Cmd) {
	s.inFlight = false
	if msg.Err != nil {
		answer := s.currentAnswer()
		s.fail(msg.Err, func() tea.Cmd { return s.submitAnswer(answer) })
		return s, nil
	}
	// Feedback is already in the store; mark the input with the result.
	if fb := s.flow.Store().Feedback(); fb != nil {
		s.input.Submit(fb.IsCorrect)
	}
	return s, nil
}

func (s *SessionScreen) handleNext(msg nextExerciseMsg) (screen.Screen, tea.Cmd) {
	s.inFlight = false
	if msg.Err != nil {
		s.fail(msg.Err, s.nextExercise)
		return s, nil
	}
	s.prepareForQuestion()
	return s, s.input.Init()
}

func (s *SessionScreen) handleCompleted(msg sessionCompletedMsg) (screen.Screen, tea.Cmd) {
	s.inFlight = false
	if msg.Err != nil {
		s.fail(msg.Err, s.completeSession)
		return s, nil
	}
	sessionID := s.flow.Store().SessionID()
	return s, func() tea.Msg {
		return router.PushScreenMsg{
			Screen: summary.New(s.flow, sessionID),
		}
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: manual retry re-invokes the failed operation.
	if s.errMsg != "" {
		switch key {
		case "r", "R":
			retry := s.retry
			s.errMsg = ""
			s.retry = nil
			if retry != nil {
				s.inFlight = true
				return s, retry()
			}
			return s, nil
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	// Ignore input while a request is in flight (re-entry guard).
	if s.inFlight {
		return s, nil
	}

	store := s.flow.Store()

	if s.showQuitConfirm {
		switch key {
		case "y", "Y":
			s.showQuitConfirm = false
			s.inFlight = true
			return s, s.completeSession()
		case "n", "N", "esc":
			s.showQuitConfirm = false
			return s, nil
		}
		return s, nil
	}

	if store.ShowFeedback() {
		if key == "enter" {
			s.inFlight = true
			if s.paperDone() {
				return s, s.completeSession()
			}
			return s, s.nextExercise()
		}
		return s, nil
	}

	q := store.CurrentExercise()
	if q == nil {
		return s, nil
	}

	switch key {
	case "esc":
		s.showQuitConfirm = true
		return s, nil
	case "enter":
		return s.submit()
	}

	if len(q.Options) > 0 {
		switch key {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(q.Options)-1 {
				s.selected++
			}
			return s, nil
		case "1", "2", "3", "4":
			idx := int(key[0] - '1')
			if idx < len(q.Options) {
				s.selected = idx
				return s.submit()
			}
			return s, nil
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit validates and sends the current answer.
func (s *SessionScreen) submit() (screen.Screen, tea.Cmd) {
	answer := s.currentAnswer()
	if answer == nil {
		return s, nil
	}
	s.inFlight = true
	return s, s.submitAnswer(answer)
}

// currentAnswer builds the opaque answer payload for the exercise on
// display, nil when there is nothing to send.
func (s *SessionScreen) currentAnswer() json.RawMessage {
	q := s.flow.Store().CurrentExercise()
	if q == nil {
		return nil
	}
	if len(q.Options) > 0 {
		if s.selected < 0 || s.selected >= len(q.Options) {
			return nil
		}
		payload, _ := json.Marshal(map[string]string{"option_id": q.Options[s.selected].ID})
		return payload
	}
	text := s.input.Value()
	if text == "" {
		return nil
	}
	payload, _ := json.Marshal(map[string]string{"text": text})
	return payload
}

// prepareForQuestion resets presentation state for the exercise now in the
// store.
func (s *SessionScreen) prepareForQuestion() {
	s.selected = 0
	s.input = components.NewAnswerInput("Type your answer...", 40)
}

// fail records an error together with the operation to re-invoke on retry.
func (s *SessionScreen) fail(err error, retry func() tea.Cmd) {
	s.errMsg = err.Error()
	s.retry = retry
}

func (s *SessionScreen) startSession() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := s.flow.Start(ctx, s.req)
		return sessionStartedMsg{Err: err}
	}
}

func (s *SessionScreen) submitAnswer(answer json.RawMessage) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := s.flow.Submit(ctx, answer)
		return answerSubmittedMsg{Err: err}
	}
}

func (s *SessionScreen) nextExercise() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := s.flow.Next(ctx)
		return nextExerciseMsg{Err: err}
	}
}

func (s *SessionScreen) completeSession() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := s.flow.Complete(ctx)
		return sessionCompletedMsg{Resp: resp, Err: err}
	}
}

// tickCmd returns a 1-second tick command for the elapsed display.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return elapsedTickMsg(t)
	})
}
