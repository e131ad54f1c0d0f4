// Package report turns a finished session into the final interview report.
package report

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/prepvoice/backend/internal/catalog"
	"github.com/prepvoice/backend/internal/models"
)

const (
	noResponsesFeedback = "No responses were recorded."
	fallbackFeedback    = "Could not generate detailed feedback."
)

// Summarizer produces the qualitative final feedback over the whole session.
type Summarizer interface {
	Summarize(ctx context.Context, turns []models.Turn, role catalog.Role, exp catalog.Experience) (string, error)
}

// Aggregator builds reports. Report generation never fails: summary errors
// fall back to fixed text and an empty session yields an empty report.
type Aggregator struct {
	summarizer Summarizer
	logger     *zap.Logger
}

// NewAggregator creates a report aggregator.
func NewAggregator(summarizer Summarizer, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{summarizer: summarizer, logger: logger}
}

// Build computes the average score and per-question breakdown and requests
// the final qualitative summary.
func (a *Aggregator) Build(ctx context.Context, sess *models.Session, role catalog.Role, exp catalog.Experience) models.Report {
	entries := make([]models.ReportEntry, 0, len(sess.Turns))
	var sum float64
	for _, t := range sess.Turns {
		entries = append(entries, models.ReportEntry{
			Question: t.Question,
			Answer:   t.Answer,
			Score:    t.Score,
			Feedback: t.Feedback,
			Empty:    t.Empty(),
		})
		sum += t.Score
	}

	var avg float64
	if len(entries) > 0 {
		avg = round1(sum / float64(len(entries)))
	}

	return models.Report{
		AverageScore:   avg,
		TotalQuestions: len(entries),
		Responses:      entries,
		FinalFeedback:  a.finalFeedback(ctx, sess, role, exp),
	}
}

func (a *Aggregator) finalFeedback(ctx context.Context, sess *models.Session, role catalog.Role, exp catalog.Experience) string {
	if len(sess.Turns) == 0 {
		return noResponsesFeedback
	}
	feedback, err := a.summarizer.Summarize(ctx, sess.Turns, role, exp)
	if err != nil {
		a.logger.Warn("final feedback unavailable", zap.String("session_id", sess.ID), zap.Error(err))
		return fallbackFeedback
	}
	return feedback
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
