package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/abhisek/lingo/internal/api"
)

var (
	// ErrNoSession indicates a lifecycle operation was invoked before Start.
	ErrNoSession = errors.New("no active session")

	// ErrNoExercise indicates an answer was submitted with no exercise on
	// display.
	ErrNoExercise = errors.New("no exercise to answer")
)

// detailTTL bounds how long a cached session detail is served before the
// summary page refetches it anyway.
const detailTTL = 5 * time.Minute

// Backend is the slice of the API client the flow layer depends on.
type Backend interface {
	CreateSession(ctx context.Context, req *api.CreateSessionRequest) (*api.CreateSessionResponse, error)
	SubmitAnswer(ctx context.Context, sessionID int, req *api.SubmitAnswerRequest) (*api.SubmitAnswerResponse, error)
	NextExercise(ctx context.Context, sessionID int) (*api.Exercise, error)
	CompleteSession(ctx context.Context, sessionID int) (*api.CompleteSessionResponse, error)
	GetSession(ctx context.Context, sessionID int) (*api.SessionDetail, error)
}

var _ Backend = (*api.Client)(nil)

// Flow binds backend calls to store transitions, one bounded operation per
// lifecycle step. Each operation issues exactly one request and, on success,
// applies exactly one store transition. On failure the error is returned and
// the store is left at its last known-good state; retries are the caller's
// decision, by invoking the operation again.
type Flow struct {
	backend Backend
	store   *Store
	details *gocache.Cache
}

// NewFlow creates a Flow over the given backend and store.
func NewFlow(backend Backend, store *Store) *Flow {
	return &Flow{
		backend: backend,
		store:   store,
		details: gocache.New(detailTTL, 2*detailTTL),
	}
}

// Store exposes the underlying store for rendering.
func (f *Flow) Store() *Store { return f.store }

// Start creates a session from a paper configuration. On success the store
// gains the session identity and the first question, and the question timer
// starts. Navigation to the session screen is the caller's side of the hook.
func (f *Flow) Start(ctx context.Context, req *api.CreateSessionRequest) (*api.CreateSessionResponse, error) {
	resp, err := f.backend.CreateSession(ctx, req)
	if err != nil {
		return nil, err
	}
	f.store.SetSession(resp.SessionID, Status(resp.Status))
	f.store.AdvanceToQuestion(resp.FirstQuestion)
	f.store.StartTimer()
	return resp, nil
}

// Submit sends the answer for the exercise on display. The timer is stopped
// and its value stamped onto the request before it is sent, so a slow
// response cannot shift time onto the wrong question. On success the
// feedback and refreshed stats land in the store as one transition.
func (f *Flow) Submit(ctx context.Context, answer json.RawMessage) (*api.SubmitAnswerResponse, error) {
	if f.store.SessionID() == 0 {
		return nil, ErrNoSession
	}
	q := f.store.CurrentExercise()
	if q == nil {
		return nil, ErrNoExercise
	}

	req := &api.SubmitAnswerRequest{
		ExerciseID: q.ExerciseID,
		Answer:     answer,
		TimeSpent:  f.store.StopTimer(),
	}
	resp, err := f.backend.SubmitAnswer(ctx, f.store.SessionID(), req)
	if err != nil {
		return nil, err
	}
	f.store.SetFeedback(&resp.Feedback, resp.SessionStats)
	return resp, nil
}

// Next fetches the next exercise. On success the feedback clears and the new
// question appears atomically, then the timer restarts.
func (f *Flow) Next(ctx context.Context) (*api.Exercise, error) {
	if f.store.SessionID() == 0 {
		return nil, ErrNoSession
	}
	q, err := f.backend.NextExercise(ctx, f.store.SessionID())
	if err != nil {
		return nil, err
	}
	f.store.AdvanceToQuestion(q)
	f.store.StartTimer()
	return q, nil
}

// Complete finishes the session and invalidates any cached detail for it so
// the summary page refetches fresh totals. The store is not reset here; the
// summary screen owns Reset on its exit actions.
func (f *Flow) Complete(ctx context.Context) (*api.CompleteSessionResponse, error) {
	id := f.store.SessionID()
	if id == 0 {
		return nil, ErrNoSession
	}
	resp, err := f.backend.CompleteSession(ctx, id)
	if err != nil {
		return nil, err
	}
	f.details.Delete(detailKey(id))
	return resp, nil
}

// Detail fetches a session's detail record. Results are cached briefly and
// served from cache on repeat lookups; Complete invalidates the entry. The
// store is never touched.
func (f *Flow) Detail(ctx context.Context, sessionID int) (*api.SessionDetail, error) {
	key := detailKey(sessionID)
	if cached, ok := f.details.Get(key); ok {
		return cached.(*api.SessionDetail), nil
	}
	detail, err := f.backend.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	f.details.Set(key, detail, gocache.DefaultExpiration)
	return detail, nil
}

func detailKey(sessionID int) string {
	return strconv.Itoa(sessionID)
}
