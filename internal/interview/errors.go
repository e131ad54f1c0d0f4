package interview

import "errors"

var (
	// ErrSessionClosed is returned for any turn operation against a
	// completed session. Only report generation remains valid.
	ErrSessionClosed = errors.New("session is closed")

	// ErrOracle marks failures of the AI service on the must-have path
	// (question generation). The caller's UI shows a retry affordance.
	ErrOracle = errors.New("interview oracle unavailable")

	// ErrNoOutstandingQuestion is returned when a turn is saved without a
	// matching issued question; saving it would corrupt the turn ledger.
	ErrNoOutstandingQuestion = errors.New("no outstanding question to save")
)
