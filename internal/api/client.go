package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Client is a stateless wrapper around the exercise-session endpoints. Every
// call is one request producing one response; there are no retries and no
// client-side state.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the backend API root.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: "http://localhost:8080/api/v1",
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSession starts a new practice session from a paper configuration.
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error) {
	var resp CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/exercise-sessions", req, &resp); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &resp, nil
}

// SubmitAnswer sends one answer for the session's current exercise.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID int, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error) {
	path := fmt.Sprintf("/exercise-sessions/%d/submit-answer", sessionID)
	var resp SubmitAnswerResponse
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}
	return &resp, nil
}

// NextExercise fetches the next adaptively selected exercise.
func (c *Client) NextExercise(ctx context.Context, sessionID int) (*Exercise, error) {
	path := fmt.Sprintf("/exercise-sessions/%d/next-exercise", sessionID)
	var resp Exercise
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("next exercise: %w", err)
	}
	return &resp, nil
}

// CompleteSession marks the session finished and returns final totals.
func (c *Client) CompleteSession(ctx context.Context, sessionID int) (*CompleteSessionResponse, error) {
	path := fmt.Sprintf("/exercise-sessions/%d/complete", sessionID)
	var resp CompleteSessionResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	return &resp, nil
}

// GetSession fetches the detail record for a session.
func (c *Client) GetSession(ctx context.Context, sessionID int) (*SessionDetail, error) {
	path := fmt.Sprintf("/exercise-sessions/%d", sessionID)
	var resp SessionDetail
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &resp, nil
}

// errorEnvelope is the backend's error body shape.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do issues one JSON request and decodes the response into out. Non-2xx
// responses become *APIError; malformed bodies become *ErrInvalidPayload.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env errorEnvelope
		if jsonErr := json.Unmarshal(data, &env); jsonErr == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Custom unmarshalers (skill payloads) already produce
		// *ErrInvalidPayload; don't wrap those a second time.
		var invalid *ErrInvalidPayload
		if errors.As(err, &invalid) {
			return invalid
		}
		return &ErrInvalidPayload{Content: data, Err: err}
	}
	return nil
}
