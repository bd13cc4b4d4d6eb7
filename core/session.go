package interview

import (
	"log"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Session tracks one interview from start to completion. CurrentTurn is
// monotonically non-decreasing and Completed flips false to true exactly
// once, guarded by the controller's completion latch.
type Session struct {
	ID          string
	TotalTurns  int
	CurrentTurn int
	Completed   bool

	answers []Answer
}

// Answer is the per-turn record backing the save-session call.
type Answer struct {
	QuestionNumber int
	Question       string
	Answer         string
	Reaction       string
}

// Turn is one open question/answer cycle. The transcript is owned by the
// assembler until finalized, after which it is immutable.
type Turn struct {
	ID         string
	Number     int
	PromptText string
	Transcript string

	finalized bool
}

func newTurn(number int, promptText string) *Turn {
	return &Turn{
		ID:         uuid.NewString(),
		Number:     number,
		PromptText: promptText,
	}
}

func (s *Session) recordAnswer(turn *Turn) {
	s.answers = append(s.answers, Answer{
		QuestionNumber: turn.Number,
		Question:       turn.PromptText,
		Answer:         turn.Transcript,
	})
}

func (s *Session) recordReaction(reaction string) {
	if len(s.answers) == 0 {
		return
	}
	s.answers[len(s.answers)-1].Reaction = reaction
}

// Snapshot returns a point-in-time copy of the session, answers included,
// safe to hand to display code while the flow keeps mutating the original.
func (s *Session) Snapshot() Session {
	var snapshot Session
	if err := copier.CopyWithOption(&snapshot, s, copier.Option{DeepCopy: true}); err != nil {
		log.Printf("Failed to snapshot session: %v", err)
		return Session{ID: s.ID, TotalTurns: s.TotalTurns, CurrentTurn: s.CurrentTurn, Completed: s.Completed}
	}
	snapshot.answers = make([]Answer, len(s.answers))
	copy(snapshot.answers, s.answers)
	return snapshot
}

// Answers returns the recorded question/answer pairs in turn order.
// The receiver is a value so snapshots can be queried directly.
func (s Session) Answers() []Answer {
	answers := make([]Answer, len(s.answers))
	copy(answers, s.answers)
	return answers
}
