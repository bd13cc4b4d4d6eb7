package interview

// State is the controller's position in the interview flow. Exactly one
// state is active at a time and every transition happens under the
// controller's lock.
type State string

const (
	StateIdle             State = "idle"
	StateIntroduction     State = "introduction"
	StateAwaitingQuestion State = "awaiting_question"
	StatePresenting       State = "presenting"
	StateRecording        State = "recording"
	StateSubmitting       State = "submitting"
	StateAwaitingReaction State = "awaiting_reaction"
	StateCompleting       State = "completing"
	StateDone             State = "done"
	StateFailed           State = "failed"
)
