package report

import (
	"context"
	"errors"
	"testing"

	"github.com/prepvoice/backend/internal/catalog"
	"github.com/prepvoice/backend/internal/models"
)

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summarize(context.Context, []models.Turn, catalog.Role, catalog.Experience) (string, error) {
	return s.text, s.err
}

func testSession(scores ...float64) *models.Session {
	sess := &models.Session{ID: "s1"}
	for _, score := range scores {
		sess.Turns = append(sess.Turns, models.Turn{
			Question: "q",
			Answer:   "a",
			Score:    score,
		})
	}
	return sess
}

func TestBuildEmptySession(t *testing.T) {
	a := NewAggregator(stubSummarizer{text: "unused"}, nil)

	rep := a.Build(context.Background(), testSession(), catalog.Role{Name: "SE"}, catalog.Experience{Name: "Junior"})
	if rep.AverageScore != 0 {
		t.Errorf("avg: got %.1f, want 0", rep.AverageScore)
	}
	if rep.TotalQuestions != 0 || len(rep.Responses) != 0 {
		t.Errorf("breakdown should be empty: %+v", rep)
	}
	if rep.FinalFeedback != "No responses were recorded." {
		t.Errorf("final feedback: %q", rep.FinalFeedback)
	}
}

func TestBuildAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"single", []float64{7}, 7.0},
		{"even mean", []float64{8, 6, 10}, 8.0},
		{"rounded to one decimal", []float64{7, 6}, 6.5},
		{"rounded up", []float64{7, 7, 8}, 7.3},
		{"all zero", []float64{0, 0}, 0},
	}
	a := NewAggregator(stubSummarizer{text: "ok"}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := a.Build(context.Background(), testSession(tt.scores...), catalog.Role{}, catalog.Experience{})
			if rep.AverageScore != tt.want {
				t.Errorf("avg: got %v, want %v", rep.AverageScore, tt.want)
			}
			if rep.TotalQuestions != len(tt.scores) {
				t.Errorf("total: got %d, want %d", rep.TotalQuestions, len(tt.scores))
			}
		})
	}
}

func TestBuildFlagsEmptyAnswers(t *testing.T) {
	a := NewAggregator(stubSummarizer{text: "ok"}, nil)
	sess := &models.Session{
		ID: "s1",
		Turns: []models.Turn{
			{Question: "q1", Answer: "real answer", Score: 8},
			{Question: "q2", Answer: models.EmptyAnswer, Score: 0},
		},
	}

	rep := a.Build(context.Background(), sess, catalog.Role{}, catalog.Experience{})
	if rep.Responses[0].Empty {
		t.Error("answered turn flagged empty")
	}
	if !rep.Responses[1].Empty {
		t.Error("sentinel turn not flagged empty")
	}
	if rep.AverageScore != 4.0 {
		t.Errorf("avg counts empty turns: got %.1f, want 4.0", rep.AverageScore)
	}
}

func TestBuildSummaryFallback(t *testing.T) {
	a := NewAggregator(stubSummarizer{err: errors.New("oracle down")}, nil)

	rep := a.Build(context.Background(), testSession(7), catalog.Role{}, catalog.Experience{})
	if rep.FinalFeedback != "Could not generate detailed feedback." {
		t.Errorf("final feedback: %q", rep.FinalFeedback)
	}
	if rep.AverageScore != 7 {
		t.Errorf("scores must survive a summary failure, got %.1f", rep.AverageScore)
	}
}

func TestBuildSummarySuccess(t *testing.T) {
	a := NewAggregator(stubSummarizer{text: "Good session overall."}, nil)

	rep := a.Build(context.Background(), testSession(9), catalog.Role{}, catalog.Experience{})
	if rep.FinalFeedback != "Good session overall." {
		t.Errorf("final feedback: %q", rep.FinalFeedback)
	}
}
