package api

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound indicates the backend has no session with the
	// requested id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionCompleted indicates the session no longer accepts answers.
	ErrSessionCompleted = errors.New("session already completed")
)

// APIError is a non-2xx response from the backend. The client performs no
// recovery; callers decide whether to surface or retry manually.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Unwrap maps well-known backend responses onto sentinel errors so callers
// can use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 404, e.Code == "session_not_found":
		return ErrSessionNotFound
	case e.Code == "session_completed":
		return ErrSessionCompleted
	}
	return nil
}

// ErrInvalidPayload indicates a response body that does not conform to the
// expected shape (malformed JSON or a schema violation).
type ErrInvalidPayload struct {
	Content []byte
	Err     error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid backend payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }
