// Package interview drives the question/answer loop of a mock-interview
// session: issue question, speak it, capture the spoken answer, evaluate,
// persist the turn, and finally aggregate the report.
package interview

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prepvoice/backend/internal/catalog"
	"github.com/prepvoice/backend/internal/models"
	"github.com/prepvoice/backend/internal/report"
	"github.com/prepvoice/backend/internal/session"
	"github.com/prepvoice/backend/internal/speech"
)

// QuestionOracle generates interview questions and the session intro.
type QuestionOracle interface {
	GenerateQuestion(ctx context.Context, role catalog.Role, exp catalog.Experience, ordinal int, asked []string) (string, error)
	IntroText(candidateName string, role catalog.Role, exp catalog.Experience, durationMinutes int) string
}

// Evaluator scores one answer and produces the conversational reply.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string, role catalog.Role, exp catalog.Experience, ordinal int) (models.Evaluation, error)
}

// ReportArchiver queues completed reports for archival. Archival is a
// nice-to-have: failures are logged and never block completion.
type ReportArchiver interface {
	EnqueueReport(ctx context.Context, rec models.ArchivedReport) error
}

// Service orchestrates interview sessions.
type Service struct {
	store      session.Store
	questions  QuestionOracle
	evaluator  Evaluator
	reports    *report.Aggregator
	output     speech.Output
	capture    speech.Capture
	catalog    *catalog.Catalog
	archiver   ReportArchiver
	maxSilence time.Duration
	logger     *zap.Logger
}

// NewService creates the orchestrator. archiver may be nil.
func NewService(
	store session.Store,
	questions QuestionOracle,
	evaluator Evaluator,
	reports *report.Aggregator,
	output speech.Output,
	capture speech.Capture,
	cat *catalog.Catalog,
	archiver ReportArchiver,
	maxSilence time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		questions:  questions,
		evaluator:  evaluator,
		reports:    reports,
		output:     output,
		capture:    capture,
		catalog:    cat,
		archiver:   archiver,
		maxSilence: maxSilence,
		logger:     logger,
	}
}

// StartResult is returned when a session is created.
type StartResult struct {
	SessionID       string
	RoleName        string
	ExperienceName  string
	IntroText       string
	DurationMinutes int
}

// Question is one issued question with its ordinal.
type Question struct {
	Text   string
	Number int
}

// Start creates a session and returns its id with the spoken introduction.
func (s *Service) Start(ctx context.Context, roleKey, expKey string, durationMinutes int, candidateName string) (StartResult, error) {
	role := s.catalog.Role(roleKey)
	exp := s.catalog.Experience(expKey)

	sess := &models.Session{
		ID:              uuid.New().String(),
		RoleKey:         roleKey,
		ExperienceKey:   expKey,
		CandidateName:   candidateName,
		DurationSeconds: durationMinutes * 60,
		Status:          models.StatusActive,
		State:           models.StateCreated,
		CreatedAt:       time.Now(),
		PendingEvals:    make(map[int]models.Evaluation),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return StartResult{}, err
	}

	s.logger.Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("role", role.Name),
		zap.String("experience", exp.Name),
		zap.Int("duration_min", durationMinutes),
	)
	return StartResult{
		SessionID:       sess.ID,
		RoleName:        role.Name,
		ExperienceName:  exp.Name,
		IntroText:       s.questions.IntroText(candidateName, role, exp, durationMinutes),
		DurationMinutes: durationMinutes,
	}, nil
}

// NextQuestion asks the oracle for a new question, appends it to the asked
// list, and increments the question counter. An oracle failure leaves the
// session untouched so the counter/asked-list invariant holds across
// retries.
func (s *Service) NextQuestion(ctx context.Context, id string) (Question, error) {
	sess, err := s.active(ctx, id)
	if err != nil {
		return Question{}, err
	}

	role := s.catalog.Role(sess.RoleKey)
	exp := s.catalog.Experience(sess.ExperienceKey)
	ordinal := sess.QuestionNumber + 1

	text, err := s.questions.GenerateQuestion(ctx, role, exp, ordinal, sess.AskedQuestions)
	if err != nil {
		return Question{}, errors.Join(ErrOracle, err)
	}

	var issued Question
	err = s.store.Mutate(ctx, id, func(m *models.Session) error {
		if err := s.advance(m, EventQuestion); err != nil {
			return err
		}
		m.AskedQuestions = append(m.AskedQuestions, text)
		m.QuestionNumber = len(m.AskedQuestions)
		issued = Question{Text: text, Number: m.QuestionNumber}
		return nil
	})
	if err != nil {
		return Question{}, err
	}
	return issued, nil
}

// RecordAnswer captures one spoken answer. Capture trouble never escapes:
// no intelligible speech, a missing device, or a capture tool failure all
// degrade to the empty-answer sentinel so the session continues.
func (s *Service) RecordAnswer(ctx context.Context, id string) (string, error) {
	if _, err := s.active(ctx, id); err != nil {
		return "", err
	}

	answer, err := s.capture.Listen(ctx, s.maxSilence)
	if err != nil {
		s.logger.Warn("answer capture failed", zap.String("session_id", id), zap.Error(err))
		answer = ""
	}
	if answer == "" {
		answer = models.EmptyAnswer
	}

	if err := s.store.Mutate(ctx, id, func(m *models.Session) error {
		return s.advance(m, EventCaptured)
	}); err != nil {
		return "", err
	}
	return answer, nil
}

// Respond evaluates the answer to question ordinal and returns the
// conversational reply. The evaluation is held on the session until the
// turn is persisted; an oracle failure substitutes the neutral evaluation
// rather than aborting the turn.
func (s *Service) Respond(ctx context.Context, id, answer string, ordinal int) (models.Evaluation, error) {
	sess, err := s.active(ctx, id)
	if err != nil {
		return models.Evaluation{}, err
	}

	question := ""
	if ordinal >= 1 && ordinal <= len(sess.AskedQuestions) {
		question = sess.AskedQuestions[ordinal-1]
	}

	role := s.catalog.Role(sess.RoleKey)
	exp := s.catalog.Experience(sess.ExperienceKey)

	eval, err := s.evaluator.Evaluate(ctx, question, answer, role, exp, ordinal)
	if err != nil {
		s.logger.Warn("evaluation failed, using neutral fallback",
			zap.String("session_id", id), zap.Int("ordinal", ordinal), zap.Error(err))
		eval = models.NeutralEvaluation()
	}

	if err := s.store.Mutate(ctx, id, func(m *models.Session) error {
		if err := s.advance(m, EventEvaluated); err != nil {
			return err
		}
		if m.PendingEvals == nil {
			m.PendingEvals = make(map[int]models.Evaluation)
		}
		m.PendingEvals[ordinal] = eval
		return nil
	}); err != nil {
		return models.Evaluation{}, err
	}
	return eval, nil
}

// SaveTurn appends the turn for question, folding in the evaluation stashed
// by Respond. An empty answer is stored as the sentinel with score zero and
// no oracle call. A non-empty answer saved without a prior Respond is
// evaluated here, with the neutral fallback if the oracle fails. Callers
// save each question at most once.
func (s *Service) SaveTurn(ctx context.Context, id, question, answer string) error {
	sess, err := s.active(ctx, id)
	if err != nil {
		return err
	}
	if len(sess.Turns) >= sess.QuestionNumber {
		return ErrNoOutstandingQuestion
	}

	ordinal := questionOrdinal(sess, question)
	empty := answer == "" || answer == models.EmptyAnswer

	eval, pending := sess.PendingEvals[ordinal]
	if !pending && !empty {
		role := s.catalog.Role(sess.RoleKey)
		exp := s.catalog.Experience(sess.ExperienceKey)
		eval, err = s.evaluator.Evaluate(ctx, question, answer, role, exp, ordinal)
		if err != nil {
			s.logger.Warn("save-time evaluation failed, using neutral fallback",
				zap.String("session_id", id), zap.Int("ordinal", ordinal), zap.Error(err))
			eval = models.NeutralEvaluation()
		}
	}

	turn := models.Turn{Question: question, Answer: answer, Score: eval.Score, Feedback: eval.Feedback()}
	if empty {
		turn.Answer = models.EmptyAnswer
		turn.Score = 0
		turn.Feedback = models.Feedback{}
	}

	return s.store.Mutate(ctx, id, func(m *models.Session) error {
		if err := s.advance(m, EventSaved); err != nil {
			return err
		}
		if len(m.Turns) >= m.QuestionNumber {
			return ErrNoOutstandingQuestion
		}
		m.Turns = append(m.Turns, turn)
		delete(m.PendingEvals, ordinal)
		return nil
	})
}

// Speak plays text through the voice output, blocking until it finishes.
// Device trouble is logged and swallowed; the turn proceeds without audio.
func (s *Service) Speak(ctx context.Context, id, text string) error {
	if _, err := s.active(ctx, id); err != nil {
		return err
	}

	if err := s.output.Speak(ctx, text); err != nil {
		s.logger.Warn("speech output failed", zap.String("session_id", id), zap.Error(err))
		return nil
	}

	_ = s.store.Mutate(ctx, id, func(m *models.Session) error {
		return s.advance(m, EventSpoken)
	})
	return nil
}

// StopSpeech cancels any in-progress speech. Always succeeds, including
// when nothing is playing.
func (s *Service) StopSpeech(id string) {
	s.output.Cancel()
	s.logger.Debug("speech stop requested", zap.String("session_id", id))
}

// Complete finishes the session and builds the report. It is reachable
// from any state (explicit quit or timer expiry); already-saved partial
// turns are reported and outstanding questions simply have no breakdown
// row. Completing an already-completed session rebuilds the same report.
func (s *Service) Complete(ctx context.Context, id string) (models.Report, error) {
	var snapshot models.Session
	err := s.store.Mutate(ctx, id, func(m *models.Session) error {
		m.Status = models.StatusCompleted
		m.State = models.StateCompleted
		snapshot = *m
		return nil
	})
	if err != nil {
		return models.Report{}, err
	}

	role := s.catalog.Role(snapshot.RoleKey)
	exp := s.catalog.Experience(snapshot.ExperienceKey)
	rep := s.reports.Build(ctx, &snapshot, role, exp)

	if s.archiver != nil {
		rec := models.ArchivedReport{
			SessionID:       snapshot.ID,
			CandidateName:   snapshot.CandidateName,
			Role:            role.Name,
			Experience:      exp.Name,
			DurationSeconds: snapshot.DurationSeconds,
			AverageScore:    rep.AverageScore,
			TotalQuestions:  rep.TotalQuestions,
			Report:          rep,
		}
		if err := s.archiver.EnqueueReport(ctx, rec); err != nil {
			s.logger.Warn("report archive enqueue failed", zap.String("session_id", id), zap.Error(err))
		}
	}

	s.logger.Info("session completed",
		zap.String("session_id", id),
		zap.Float64("avg_score", rep.AverageScore),
		zap.Int("turns", rep.TotalQuestions),
	)
	return rep, nil
}

// active loads the session and rejects completed ones.
func (s *Service) active(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Completed() {
		return nil, ErrSessionClosed
	}
	return sess, nil
}

// advance applies the turn state machine. The completed gate is hard;
// out-of-order events from a degraded client keep the current state and
// are only logged, per the best-effort design.
func (s *Service) advance(m *models.Session, e Event) error {
	next, err := Advance(m.State, e)
	if err != nil {
		if errors.Is(err, ErrSessionClosed) {
			return err
		}
		s.logger.Debug("out-of-order event",
			zap.String("session_id", m.ID),
			zap.String("state", string(m.State)),
			zap.String("event", string(e)),
		)
		return nil
	}
	m.State = next
	return nil
}

// questionOrdinal resolves which issued question a turn belongs to,
// preferring the exact text match and falling back to the next unsaved
// slot.
func questionOrdinal(sess *models.Session, question string) int {
	for i, q := range sess.AskedQuestions {
		if q == question {
			return i + 1
		}
	}
	return len(sess.Turns) + 1
}
