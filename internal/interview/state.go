package interview

import (
	"fmt"

	"github.com/prepvoice/backend/internal/models"
)

// Event drives a session's turn state machine.
type Event string

const (
	// EventQuestion: a new question was issued.
	EventQuestion Event = "question"
	// EventSpoken: the question finished playing to the candidate.
	EventSpoken Event = "spoken"
	// EventCaptured: an answer (possibly empty) was captured.
	EventCaptured Event = "captured"
	// EventEvaluated: the answer was evaluated.
	EventEvaluated Event = "evaluated"
	// EventSaved: the turn was persisted.
	EventSaved Event = "saved"
	// EventCompleted: the session was completed (quit or timer expiry).
	EventCompleted Event = "completed"
)

// transitions lists the legal source states per event. Several events
// accept multiple sources on purpose: the nice-to-have path may fail
// (audio skipped, capture empty) and the turn still has to move forward,
// and partial turns may be saved mid-cycle on timer expiry.
var transitions = map[Event]map[models.State]bool{
	EventQuestion: {
		models.StateCreated:          true,
		models.StateAwaitingQuestion: true,
	},
	EventSpoken: {
		models.StateQuestionDelivered: true,
	},
	EventCaptured: {
		models.StateQuestionDelivered: true,
		models.StateAwaitingAnswer:    true,
	},
	EventEvaluated: {
		models.StateQuestionDelivered: true,
		models.StateAwaitingAnswer:    true,
		models.StateAnswerCaptured:    true,
	},
	EventSaved: {
		models.StateQuestionDelivered: true,
		models.StateAwaitingAnswer:    true,
		models.StateAnswerCaptured:    true,
		models.StateEvaluated:         true,
	},
}

var targets = map[Event]models.State{
	EventQuestion:  models.StateQuestionDelivered,
	EventSpoken:    models.StateAwaitingAnswer,
	EventCaptured:  models.StateAnswerCaptured,
	EventEvaluated: models.StateEvaluated,
	EventSaved:     models.StateAwaitingQuestion,
	EventCompleted: models.StateCompleted,
}

// Advance is the pure transition function for the turn state machine.
// Completed is terminal: every event against it fails with ErrSessionClosed.
// EventCompleted is reachable from any live state. EventSpoken outside the
// question-delivered state leaves the state unchanged, since intro and
// reply text are spoken at arbitrary points of the cycle.
func Advance(s models.State, e Event) (models.State, error) {
	if s == models.StateCompleted {
		return s, ErrSessionClosed
	}
	if e == EventCompleted {
		return models.StateCompleted, nil
	}
	allowed, ok := transitions[e]
	if !ok {
		return s, fmt.Errorf("unknown event %q", e)
	}
	if !allowed[s] {
		if e == EventSpoken {
			return s, nil
		}
		return s, fmt.Errorf("event %q not valid in state %q", e, s)
	}
	return targets[e], nil
}
