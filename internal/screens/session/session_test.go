package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingo/internal/api"
	"github.com/abhisek/lingo/internal/router"
	sess "github.com/abhisek/lingo/internal/session"
)

// stubBackend returns canned responses for the flow under test.
type stubBackend struct {
	createResp   *api.CreateSessionResponse
	submitResp   *api.SubmitAnswerResponse
	nextResp     *api.Exercise
	completeResp *api.CompleteSessionResponse
	detailResp   *api.SessionDetail
	err          error

	submitCalls   int
	completeCalls int
}

func (b *stubBackend) CreateSession(_ context.Context, _ *api.CreateSessionRequest) (*api.CreateSessionResponse, error) {
	return b.createResp, b.err
}

func (b *stubBackend) SubmitAnswer(_ context.Context, _ int, _ *api.SubmitAnswerRequest) (*api.SubmitAnswerResponse, error) {
	b.submitCalls++
	if b.err != nil {
		return nil, b.err
	}
	return b.submitResp, nil
}

func (b *stubBackend) NextExercise(_ context.Context, _ int) (*api.Exercise, error) {
	return b.nextResp, b.err
}

func (b *stubBackend) CompleteSession(_ context.Context, _ int) (*api.CompleteSessionResponse, error) {
	b.completeCalls++
	if b.err != nil {
		return nil, b.err
	}
	return b.completeResp, nil
}

func (b *stubBackend) GetSession(_ context.Context, _ int) (*api.SessionDetail, error) {
	return b.detailResp, b.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func mcExercise(id int) *api.Exercise {
	return &api.Exercise{
		ExerciseID: id,
		Type:       api.TypeMultipleChoice,
		Prompt:     "Which word means 'house'?",
		Options: []api.Option{
			{ID: "a", Text: "casa"},
			{ID: "b", Text: "mesa"},
			{ID: "c", Text: "silla"},
		},
	}
}

func clozeExercise(id int) *api.Exercise {
	return &api.Exercise{
		ExerciseID: id,
		Type:       api.TypeCloze,
		Prompt:     "Yo ___ al mercado ayer.",
	}
}

// activeScreen returns a screen whose flow holds a started session showing
// the given exercise.
func activeScreen(t *testing.T, backend *stubBackend, q *api.Exercise) *SessionScreen {
	t.Helper()
	store := sess.NewStore()
	store.SetSession(42, sess.StatusActive)
	store.AdvanceToQuestion(q)
	store.StartTimer()
	flow := sess.NewFlow(backend, store)

	s := New(flow, &api.CreateSessionRequest{Mode: "vocabulary", Level: "B1", QuestionCount: 2})
	return s
}

func TestTitle(t *testing.T) {
	s := activeScreen(t, &stubBackend{}, mcExercise(1))
	if s.Title() != "Practice" {
		t.Errorf("Title = %q, want Practice", s.Title())
	}
}

func TestStartError_ShowsRetry(t *testing.T) {
	backend := &stubBackend{err: errors.New("connection refused")}
	store := sess.NewStore()
	s := New(sess.NewFlow(backend, store), &api.CreateSessionRequest{Mode: "mixed", QuestionCount: 5})

	msg := s.startSession()()
	started, ok := msg.(sessionStartedMsg)
	if !ok || started.Err == nil {
		t.Fatalf("expected sessionStartedMsg with error, got %#v", msg)
	}
	s.Update(started)

	if s.errMsg == "" {
		t.Fatal("expected error message after failed start")
	}
	view := s.View(80, 24)
	if view == "" {
		t.Error("expected non-empty error view")
	}

	// R retries the failed operation.
	backend.err = nil
	backend.createResp = &api.CreateSessionResponse{
		SessionID:     42,
		Status:        "active",
		FirstQuestion: mcExercise(1),
	}
	_, cmd := s.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	if !s.inFlight {
		t.Error("expected in-flight guard during retry")
	}
	s.Update(cmd())
	if store.SessionID() != 42 {
		t.Errorf("store session = %d, want 42 after retry", store.SessionID())
	}
}

func TestSubmit_NumberKey(t *testing.T) {
	backend := &stubBackend{
		submitResp: &api.SubmitAnswerResponse{
			Feedback:     api.Feedback{IsCorrect: true},
			SessionStats: api.Stats{TotalQuestions: 1, CorrectCount: 1, Accuracy: 1, CurrentStreak: 1, MaxStreak: 1},
		},
	}
	s := activeScreen(t, backend, mcExercise(1))

	_, cmd := s.Update(keyPress('2'))
	if cmd == nil {
		t.Fatal("expected submit command from number key")
	}
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(cmd())

	if backend.submitCalls != 1 {
		t.Errorf("submitCalls = %d, want 1", backend.submitCalls)
	}
	if !s.flow.Store().ShowFeedback() {
		t.Error("expected feedback visible after submit")
	}
}

func TestSubmit_InFlightGuard(t *testing.T) {
	backend := &stubBackend{
		submitResp: &api.SubmitAnswerResponse{Feedback: api.Feedback{IsCorrect: true}},
	}
	s := activeScreen(t, backend, mcExercise(1))

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected submit command")
	}

	// A second Enter while the first request is out must be ignored.
	_, cmd2 := s.Update(specialKey(tea.KeyEnter))
	if cmd2 != nil {
		t.Error("expected second submit to be swallowed by in-flight guard")
	}
}

func TestSubmit_ClozeRequiresText(t *testing.T) {
	s := activeScreen(t, &stubBackend{}, clozeExercise(1))

	// Empty input: Enter is a no-op.
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for empty cloze answer")
	}
	if s.inFlight {
		t.Error("expected no in-flight request for empty answer")
	}
}

func TestCurrentAnswer_Shapes(t *testing.T) {
	s := activeScreen(t, &stubBackend{}, mcExercise(1))
	s.selected = 2

	var got map[string]string
	if err := json.Unmarshal(s.currentAnswer(), &got); err != nil {
		t.Fatalf("unmarshal answer: %v", err)
	}
	if got["option_id"] != "c" {
		t.Errorf(`option_id = %q, want "c"`, got["option_id"])
	}
}

func TestFeedbackEnter_FetchesNext(t *testing.T) {
	backend := &stubBackend{nextResp: mcExercise(2)}
	s := activeScreen(t, backend, mcExercise(1))
	store := s.flow.Store()
	store.SetFeedback(&api.Feedback{IsCorrect: true}, api.Stats{TotalQuestions: 1, CorrectCount: 1})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected next-exercise command")
	}
	s.Update(cmd())

	if store.ShowFeedback() {
		t.Error("expected feedback cleared after advance")
	}
	q := store.CurrentExercise()
	if q == nil || q.ExerciseID != 2 {
		t.Error("expected exercise 2 on display")
	}
}

func TestFeedbackEnter_CompletesWhenPaperDone(t *testing.T) {
	backend := &stubBackend{
		completeResp: &api.CompleteSessionResponse{
			SessionID:  42,
			Status:     "completed",
			FinalStats: api.Stats{TotalQuestions: 2, CorrectCount: 2},
		},
	}
	s := activeScreen(t, backend, mcExercise(2))
	store := s.flow.Store()
	// QuestionCount is 2; two answered questions finish the paper.
	store.SetFeedback(&api.Feedback{IsCorrect: true}, api.Stats{TotalQuestions: 2, CorrectCount: 2})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	_, pushCmd := s.Update(cmd())
	if backend.completeCalls != 1 {
		t.Errorf("completeCalls = %d, want 1", backend.completeCalls)
	}
	if pushCmd == nil {
		t.Fatal("expected navigation command to summary")
	}
	if _, ok := pushCmd().(router.PushScreenMsg); !ok {
		t.Error("expected PushScreenMsg to summary screen")
	}
}

func TestQuitConfirm(t *testing.T) {
	backend := &stubBackend{
		completeResp: &api.CompleteSessionResponse{SessionID: 42, Status: "completed"},
	}
	s := activeScreen(t, backend, mcExercise(1))

	// Esc opens the confirmation, N dismisses it.
	s.Update(specialKey(tea.KeyEscape))
	if !s.showQuitConfirm {
		t.Fatal("expected quit confirmation after Esc")
	}
	s.Update(keyPress('n'))
	if s.showQuitConfirm {
		t.Fatal("expected confirmation dismissed by N")
	}

	// Y finishes the session early.
	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected completion command from Y")
	}
	s.Update(cmd())
	if backend.completeCalls != 1 {
		t.Errorf("completeCalls = %d, want 1", backend.completeCalls)
	}
}

func TestView_States(t *testing.T) {
	backend := &stubBackend{}
	s := activeScreen(t, backend, mcExercise(1))

	if s.View(80, 24) == "" {
		t.Error("expected question view")
	}

	s.flow.Store().SetFeedback(&api.Feedback{
		IsCorrect:     false,
		YourAnswer:    json.RawMessage(`{"option_id":"b"}`),
		CorrectAnswer: json.RawMessage(`{"option_id":"a"}`),
		Explanation:   "casa is the word for house",
	}, api.Stats{TotalQuestions: 1})
	if s.View(80, 24) == "" {
		t.Error("expected feedback view")
	}

	s.showQuitConfirm = true
	if s.View(80, 24) == "" {
		t.Error("expected quit-confirm view")
	}
}

func TestElapsedTick_RearmsWhileSessionPending(t *testing.T) {
	// The first tick can land before session creation finishes. It must
	// re-arm itself anyway, or the elapsed display freezes for the whole
	// session.
	s := New(sess.NewFlow(&stubBackend{}, sess.NewStore()), &api.CreateSessionRequest{Mode: "mixed", QuestionCount: 5})

	_, cmd := s.Update(elapsedTickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected tick re-armed while no session is tracked yet")
	}

	// And it keeps ticking once the session is live.
	s2 := activeScreen(t, &stubBackend{}, mcExercise(1))
	_, cmd = s2.Update(elapsedTickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected tick re-armed during an active session")
	}
}

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single field object", `{"option_id":"b"}`, "b"},
		{"text object", `{"text":"fui"}`, "fui"},
		{"plain string", `"fui"`, "fui"},
		{"empty", ``, "—"},
		{"multi field object", `{"a":"1","b":"2"}`, `{"a":"1","b":"2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAnswer(json.RawMessage(tt.raw))
			if got != tt.want {
				t.Errorf("formatAnswer(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
