package session

import (
	"time"

	"github.com/abhisek/lingo/internal/api"
)

// sessionStartedMsg is sent when session creation finishes.
type sessionStartedMsg struct {
	Err error
}

// answerSubmittedMsg is sent when an answer submission finishes.
type answerSubmittedMsg struct {
	Err error
}

// nextExerciseMsg is sent when the next exercise has been fetched.
type nextExerciseMsg struct {
	Err error
}

// sessionCompletedMsg is sent when session completion finishes.
type sessionCompletedMsg struct {
	Resp *api.CompleteSessionResponse
	Err  error
}

// elapsedTickMsg is sent every second to refresh the elapsed-time display.
type elapsedTickMsg time.Time
