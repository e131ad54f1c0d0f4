package models

import (
	"time"
)

// EmptyAnswer is the sentinel stored when answer capture produced no
// intelligible speech. Report breakdowns flag these turns as empty.
const EmptyAnswer = "[No answer provided]"

// Status of an interview session. Completed is terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Session holds all state for one interview attempt.
//
// QuestionNumber always equals len(AskedQuestions); a question may be
// outstanding without a saved turn, so len(Turns) <= QuestionNumber.
type Session struct {
	ID              string    `json:"id"`
	RoleKey         string    `json:"role_key"`
	ExperienceKey   string    `json:"experience_key"`
	CandidateName   string    `json:"candidate_name"`
	DurationSeconds int       `json:"duration_seconds"`
	QuestionNumber  int       `json:"question_number"`
	AskedQuestions  []string  `json:"asked_questions"`
	Turns           []Turn    `json:"turns"`
	Status          Status    `json:"status"`
	State           State     `json:"state"`
	CreatedAt       time.Time `json:"created_at"`

	// PendingEvals holds evaluations produced by the conversational-reply
	// step until the client persists the turn, keyed by question ordinal.
	// Scores never round-trip through the client.
	PendingEvals map[int]Evaluation `json:"pending_evals,omitempty"`
}

// Completed reports whether the session has reached its terminal status.
func (s *Session) Completed() bool {
	return s.Status == StatusCompleted
}

// Turn is one question/answer/evaluation cycle. Immutable once appended.
type Turn struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Score    float64  `json:"score"`
	Feedback Feedback `json:"feedback"`
}

// Empty reports whether the turn carries the empty-answer sentinel.
func (t Turn) Empty() bool {
	return t.Answer == EmptyAnswer || t.Answer == ""
}

// Feedback is the structured critique attached to a turn.
type Feedback struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Tip        string   `json:"tip"`
}

// Evaluation is the evaluation oracle's reply for a single answer.
type Evaluation struct {
	Score      float64  `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Tip        string   `json:"tip"`
	Reply      string   `json:"reply"`
}

// Feedback converts the evaluation into the per-turn feedback record.
func (e Evaluation) Feedback() Feedback {
	return Feedback{Strengths: e.Strengths, Weaknesses: e.Weaknesses, Tip: e.Tip}
}

// NeutralEvaluation is the fallback used when the evaluation oracle is
// unreachable: the turn still proceeds with a generic reply and mid score.
func NeutralEvaluation() Evaluation {
	return Evaluation{
		Score:      5.0,
		Strengths:  []string{"Provided an answer"},
		Weaknesses: []string{"Could not evaluate"},
		Tip:        "Try to be more specific and structured in your response.",
		Reply:      "Good effort, but try to be more specific and closer to what the question is actually asking.",
	}
}
