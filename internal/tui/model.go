// Package tui renders the interview status surface: progress, the
// current question, the live transcript with its partial overlay, and
// validation or failure banners.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	interview "github.com/VanBaNguyen/SurveyCode/core"
)

const maxViewWidth = 90

// Controls is the slice of the controller the view drives.
type Controls interface {
	StartRecording() error
	Submit() error
}

// Messages pushed into the program from controller callbacks.
type (
	StateMsg      struct{ State interview.State }
	QuestionMsg   struct {
		Number int
		Text   string
	}
	TranscriptMsg struct{ Display string }
	ReactionMsg   struct{ Text string }
	NoticeMsg     struct{ Message string }
	FailureMsg    struct{ Message string }
	HandoffMsg    struct{}
)

type Model struct {
	controls   Controls
	totalTurns int

	state      interview.State
	questionNo int
	question   string
	transcript string
	reaction   string
	notice     string
	failure    string
	finished   bool

	spinner  spinner.Model
	progress progress.Model
	width    int
	height   int
}

func NewModel(controls Controls, totalTurns int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	return Model{
		controls:   controls,
		totalTurns: totalTurns,
		state:      interview.StateIdle,
		spinner:    s,
		progress:   progress.New(progress.WithDefaultGradient()),
		width:      maxViewWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.controls != nil {
				if err := m.controls.StartRecording(); err != nil {
					m.notice = err.Error()
				} else {
					m.notice = ""
				}
			}
			return m, nil
		case "s":
			if m.controls != nil {
				if err := m.controls.Submit(); err != nil {
					m.notice = err.Error()
				} else {
					m.notice = ""
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StateMsg:
		m.state = msg.State
		if msg.State == interview.StateRecording {
			m.notice = ""
		}
		return m, nil

	case QuestionMsg:
		m.questionNo = msg.Number
		m.question = msg.Text
		m.transcript = ""
		m.reaction = ""
		return m, nil

	case TranscriptMsg:
		m.transcript = msg.Display
		return m, nil

	case ReactionMsg:
		m.reaction = msg.Text
		return m, nil

	case NoticeMsg:
		m.notice = msg.Message
		return m, nil

	case FailureMsg:
		m.failure = msg.Message
		return m, nil

	case HandoffMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	width := m.width
	if width > maxViewWidth {
		width = maxViewWidth
	}
	wrap := width - 4

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)
	questionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E5E7EB")).
		Bold(true)
	transcriptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF"))
	reactionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Italic(true)
	noticeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B"))
	failureStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Voice Interview"))
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.totalTurns > 0 {
		ratio := float64(m.questionNo) / float64(m.totalTurns)
		b.WriteString(m.progress.ViewAs(ratio))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.question != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Question %d of %d", m.questionNo, m.totalTurns)))
		b.WriteString("\n")
		b.WriteString(questionStyle.Render(wordwrap.String(m.question, wrap)))
		b.WriteString("\n\n")
	}

	if m.transcript != "" {
		b.WriteString(dimStyle.Render("Your answer:"))
		b.WriteString("\n")
		b.WriteString(transcriptStyle.Render(wordwrap.String(m.transcript, wrap)))
		b.WriteString("\n\n")
	}

	if m.reaction != "" {
		b.WriteString(reactionStyle.Render(wordwrap.String(m.reaction, wrap)))
		b.WriteString("\n\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(wordwrap.String(m.notice, wrap)))
		b.WriteString("\n\n")
	}
	if m.failure != "" {
		b.WriteString(failureStyle.Render(wordwrap.String("Error: "+m.failure, wrap)))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("s: submit answer · r: retry microphone · q: quit"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		Padding(1, 2).
		Width(width).
		Render(b.String())
}

func (m Model) statusLine() string {
	switch m.state {
	case interview.StateIdle:
		return m.spinner.View() + " Connecting..."
	case interview.StateIntroduction:
		return m.spinner.View() + " Introducing the interview"
	case interview.StateAwaitingQuestion:
		return m.spinner.View() + " Fetching the next question"
	case interview.StatePresenting:
		return m.spinner.View() + " Reading the question aloud"
	case interview.StateRecording:
		return "● Recording — speak your answer"
	case interview.StateSubmitting:
		return m.spinner.View() + " Submitting your answer"
	case interview.StateAwaitingReaction:
		return m.spinner.View() + " Waiting for the interviewer"
	case interview.StateCompleting:
		return m.spinner.View() + " Preparing your feedback"
	case interview.StateDone:
		return "✓ Interview complete"
	case interview.StateFailed:
		return "✗ Interview failed"
	default:
		return string(m.state)
	}
}
