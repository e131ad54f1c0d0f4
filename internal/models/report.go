package models

import "time"

// Report is the final interview summary, derived from a session at
// completion time and never stored on the session itself.
type Report struct {
	AverageScore   float64       `json:"avg_score"`
	TotalQuestions int           `json:"total_questions"`
	Responses      []ReportEntry `json:"responses"`
	FinalFeedback  string        `json:"final_feedback"`
}

// ReportEntry is the per-question breakdown row.
type ReportEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Score    float64  `json:"score"`
	Feedback Feedback `json:"feedback"`
	Empty    bool     `json:"empty"`
}

// ArchivedReport is a completed report persisted for later review.
type ArchivedReport struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	CandidateName   string    `json:"candidate_name"`
	Role            string    `json:"role"`
	Experience      string    `json:"experience"`
	DurationSeconds int       `json:"duration_seconds"`
	AverageScore    float64   `json:"avg_score"`
	TotalQuestions  int       `json:"total_questions"`
	Report          Report    `json:"report"`
	CreatedAt       time.Time `json:"created_at"`
}
