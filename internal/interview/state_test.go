package interview

import (
	"errors"
	"testing"

	"github.com/prepvoice/backend/internal/models"
)

func TestAdvanceCanonicalCycle(t *testing.T) {
	steps := []struct {
		event Event
		want  models.State
	}{
		{EventQuestion, models.StateQuestionDelivered},
		{EventSpoken, models.StateAwaitingAnswer},
		{EventCaptured, models.StateAnswerCaptured},
		{EventEvaluated, models.StateEvaluated},
		{EventSaved, models.StateAwaitingQuestion},
		{EventQuestion, models.StateQuestionDelivered},
	}

	state := models.StateCreated
	for i, step := range steps {
		next, err := Advance(state, step.event)
		if err != nil {
			t.Fatalf("step %d (%s): unexpected error: %v", i, step.event, err)
		}
		if next != step.want {
			t.Fatalf("step %d (%s): got state %q, want %q", i, step.event, next, step.want)
		}
		state = next
	}
}

func TestAdvanceCompletedIsTerminal(t *testing.T) {
	for _, event := range []Event{EventQuestion, EventSpoken, EventCaptured, EventEvaluated, EventSaved, EventCompleted} {
		if _, err := Advance(models.StateCompleted, event); !errors.Is(err, ErrSessionClosed) {
			t.Errorf("event %s on completed session: got %v, want ErrSessionClosed", event, err)
		}
	}
}

func TestAdvanceCompleteFromAnyLiveState(t *testing.T) {
	live := []models.State{
		models.StateCreated,
		models.StateAwaitingQuestion,
		models.StateQuestionDelivered,
		models.StateAwaitingAnswer,
		models.StateAnswerCaptured,
		models.StateEvaluated,
	}
	for _, s := range live {
		next, err := Advance(s, EventCompleted)
		if err != nil {
			t.Fatalf("complete from %s: %v", s, err)
		}
		if next != models.StateCompleted {
			t.Fatalf("complete from %s: got %q", s, next)
		}
	}
}

func TestAdvanceDegradedPaths(t *testing.T) {
	// Audio failed: capture directly after question delivery.
	if next, err := Advance(models.StateQuestionDelivered, EventCaptured); err != nil || next != models.StateAnswerCaptured {
		t.Fatalf("capture after delivery: state %q, err %v", next, err)
	}
	// Partial turn saved mid-cycle on timer expiry.
	if next, err := Advance(models.StateAwaitingAnswer, EventSaved); err != nil || next != models.StateAwaitingQuestion {
		t.Fatalf("save mid-turn: state %q, err %v", next, err)
	}
	// Intro/reply speech outside question delivery keeps the state.
	if next, err := Advance(models.StateCreated, EventSpoken); err != nil || next != models.StateCreated {
		t.Fatalf("idle spoken: state %q, err %v", next, err)
	}
}

func TestAdvanceRejectsOutOfOrder(t *testing.T) {
	if _, err := Advance(models.StateCreated, EventSaved); err == nil {
		t.Fatal("save before any question should be rejected")
	}
	if _, err := Advance(models.StateQuestionDelivered, EventQuestion); err == nil {
		t.Fatal("second question without saving should be rejected by the pure machine")
	}
}
