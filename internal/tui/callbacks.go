package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	interview "github.com/VanBaNguyen/SurveyCode/core"
	"github.com/VanBaNguyen/SurveyCode/core/review"
)

// Callbacks bridges controller callbacks into program messages. The
// handoff hook runs before the program is told to quit, so the caller
// can capture the artifact for the feedback viewer.
func Callbacks(p *tea.Program, onHandoff func(artifact *review.Artifact)) []interview.RunOption {
	return []interview.RunOption{
		interview.WithStateChangedCallback(func(state interview.State) {
			p.Send(StateMsg{State: state})
		}),
		interview.WithQuestionCallback(func(number int, text string) {
			p.Send(QuestionMsg{Number: number, Text: text})
		}),
		interview.WithTranscriptCallback(func(display string) {
			p.Send(TranscriptMsg{Display: display})
		}),
		interview.WithReactionCallback(func(text string) {
			p.Send(ReactionMsg{Text: text})
		}),
		interview.WithNoticeCallback(func(message string) {
			p.Send(NoticeMsg{Message: message})
		}),
		interview.WithFailureCallback(func(message string) {
			p.Send(FailureMsg{Message: message})
		}),
		interview.WithHandoffCallback(func(artifact *review.Artifact) {
			if onHandoff != nil {
				onHandoff(artifact)
			}
			p.Send(HandoffMsg{})
		}),
	}
}
