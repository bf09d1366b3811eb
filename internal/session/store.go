package session

import (
	"time"

	"github.com/abhisek/lingo/internal/api"
)

// Status mirrors the server-side session status. The server is
// authoritative; the client only tracks the last value it was told.
type Status string

const (
	StatusNone       Status = ""
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
)

// Phase is the client-observable lifecycle position, derived from store
// state rather than tracked separately.
type Phase int

const (
	PhaseIdle          Phase = iota // no session
	PhaseQuestionShown              // an exercise is displayed
	PhaseFeedbackShown              // feedback overlay is visible
)

// Store is the single in-memory source of truth for one active exercise
// session. It is a plain state container: every mutation happens through a
// fixed set of operations, each applying its full transition in one call so
// a render never observes an intermediate state. Instances are constructed
// and injected; there is no package-level singleton. Nothing is persisted.
type Store struct {
	now func() time.Time

	sessionID    int
	status       Status
	current      *api.Exercise
	stats        api.Stats
	feedback     *api.Feedback
	showFeedback bool
	timerStart   time.Time // zero value means no timer running
}

// NewStore creates an empty store using the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates an empty store with an injected clock, so timer
// behavior is testable without sleeping.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// SetSession installs a new session identity. Stats return to zero-state and
// any feedback is cleared; starting a new session overwrites whatever
// session was tracked before.
func (s *Store) SetSession(id int, status Status) {
	s.sessionID = id
	s.status = status
	s.stats = api.Stats{}
	s.feedback = nil
	s.showFeedback = false
}

// AdvanceToQuestion replaces the current exercise and hides any feedback in
// the same call. Callers cannot reorder the two steps, so the UI never sees
// a new question next to stale feedback.
func (s *Store) AdvanceToQuestion(q *api.Exercise) {
	s.showFeedback = false
	s.feedback = nil
	s.current = q
}

// SetFeedback installs the submission result and the refreshed stats as one
// transition.
func (s *Store) SetFeedback(fb *api.Feedback, stats api.Stats) {
	s.feedback = fb
	s.stats = stats
	s.showFeedback = true
}

// ClearFeedback hides and drops the feedback payload. Idempotent.
func (s *Store) ClearFeedback() {
	s.showFeedback = false
	s.feedback = nil
}

// UpdateStats replaces the stats wholesale.
func (s *Store) UpdateStats(stats api.Stats) {
	s.stats = stats
}

// StartTimer records now as the question start. A running timer is
// overwritten, never stacked.
func (s *Store) StartTimer() {
	s.timerStart = s.now()
}

// StopTimer returns whole elapsed seconds since StartTimer and clears the
// timer. With no timer running it returns 0.
func (s *Store) StopTimer() int {
	if s.timerStart.IsZero() {
		return 0
	}
	elapsed := int(s.now().Sub(s.timerStart) / time.Second)
	s.timerStart = time.Time{}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Reset returns every field to its initial value, from any prior state.
func (s *Store) Reset() {
	s.sessionID = 0
	s.status = StatusNone
	s.current = nil
	s.stats = api.Stats{}
	s.feedback = nil
	s.showFeedback = false
	s.timerStart = time.Time{}
}

// SessionID returns the tracked session id, 0 when idle.
func (s *Store) SessionID() int { return s.sessionID }

// Status returns the last known server status.
func (s *Store) Status() Status { return s.status }

// CurrentExercise returns the exercise on display, nil when none.
func (s *Store) CurrentExercise() *api.Exercise { return s.current }

// Stats returns the mirrored session stats.
func (s *Store) Stats() api.Stats { return s.stats }

// Feedback returns the last submission result. The value may linger after
// being hidden; renderers must gate on ShowFeedback.
func (s *Store) Feedback() *api.Feedback { return s.feedback }

// ShowFeedback reports whether feedback should be rendered.
func (s *Store) ShowFeedback() bool { return s.showFeedback }

// TimerRunning reports whether a question timer is active.
func (s *Store) TimerRunning() bool { return !s.timerStart.IsZero() }

// Elapsed returns the time since StartTimer without clearing the timer, for
// display purposes. Zero when no timer is running.
func (s *Store) Elapsed() time.Duration {
	if s.timerStart.IsZero() {
		return 0
	}
	return s.now().Sub(s.timerStart)
}

// Phase derives the lifecycle position from the current state.
func (s *Store) Phase() Phase {
	switch {
	case s.showFeedback:
		return PhaseFeedbackShown
	case s.current != nil:
		return PhaseQuestionShown
	default:
		return PhaseIdle
	}
}
