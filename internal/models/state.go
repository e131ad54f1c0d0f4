package models

// State is the position of a session within its turn cycle. Transitions are
// driven by the interview package's pure transition function; the session
// only records where it currently stands.
type State string

const (
	StateCreated           State = "created"
	StateAwaitingQuestion  State = "awaiting_question"
	StateQuestionDelivered State = "question_delivered"
	StateAwaitingAnswer    State = "awaiting_answer"
	StateAnswerCaptured    State = "answer_captured"
	StateEvaluated         State = "evaluated"
	StateCompleted         State = "completed"
)
