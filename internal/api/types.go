package api

import "encoding/json"

// ExerciseType identifies how a question is answered.
type ExerciseType string

const (
	TypeMultipleChoice ExerciseType = "multiple_choice"
	TypeCloze          ExerciseType = "cloze"
	TypeListening      ExerciseType = "listening"
	TypeReading        ExerciseType = "reading"
)

// Option is one answer choice for a multiple-choice exercise.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Exercise is the unit currently shown to the learner. The backend owns its
// structure; the client replaces it wholesale on every transition and never
// mutates it.
type Exercise struct {
	ExerciseID int          `json:"exercise_id"`
	Type       ExerciseType `json:"type"`
	Prompt     string       `json:"prompt"`
	Passage    string       `json:"passage,omitempty"`
	AudioURL   string       `json:"audio_url,omitempty"`
	Options    []Option     `json:"options,omitempty"`
}

// Stats is the server-computed running aggregate for a session. The client
// mirrors it; it never derives accuracy or streaks locally.
type Stats struct {
	TotalQuestions int     `json:"total_questions"`
	CorrectCount   int     `json:"correct_count"`
	Accuracy       float64 `json:"accuracy"`
	CurrentStreak  int     `json:"current_streak"`
	MaxStreak      int     `json:"max_streak"`
}

// Feedback is the result of one answer submission. YourAnswer and
// CorrectAnswer are kept raw: their shape depends on the exercise type and
// only the backend knows it.
type Feedback struct {
	IsCorrect     bool            `json:"is_correct"`
	YourAnswer    json.RawMessage `json:"your_answer"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	Explanation   string          `json:"explanation,omitempty"`
	Skills        []SkillInfo     `json:"skills,omitempty"`
}

// CreateSessionRequest configures a practice paper.
type CreateSessionRequest struct {
	Mode          string `json:"mode"`
	Level         string `json:"level"`
	QuestionCount int    `json:"question_count"`
}

// CreateSessionResponse is the backend's reply to session creation.
type CreateSessionResponse struct {
	SessionID     int       `json:"session_id"`
	Status        string    `json:"status"`
	FirstQuestion *Exercise `json:"first_question"`
}

// SubmitAnswerRequest carries one answer. TimeSpent is stamped by the flow
// layer from the store's question timer before the request is sent.
type SubmitAnswerRequest struct {
	ExerciseID int             `json:"exercise_id"`
	Answer     json.RawMessage `json:"answer"`
	TimeSpent  int             `json:"time_spent"`
}

// SubmitAnswerResponse bundles the feedback with refreshed session stats.
type SubmitAnswerResponse struct {
	Feedback
	SessionStats Stats `json:"session_stats"`
}

// CompleteSessionResponse is the completion payload.
type CompleteSessionResponse struct {
	SessionID  int    `json:"session_id"`
	Status     string `json:"status"`
	FinalStats Stats  `json:"final_stats"`
}

// SessionDetail is the full record shown on the summary page.
type SessionDetail struct {
	SessionID      int     `json:"session_id"`
	Status         string  `json:"status"`
	Mode           string  `json:"mode"`
	Level          string  `json:"level"`
	TotalQuestions int     `json:"total_questions"`
	CorrectCount   int     `json:"correct_count"`
	Accuracy       float64 `json:"accuracy"`
	MaxStreak      int     `json:"max_streak"`
	DurationSecs   int     `json:"duration_secs"`
	CompletedAt    string  `json:"completed_at,omitempty"`
}
