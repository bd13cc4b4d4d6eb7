package interview

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/VanBaNguyen/SurveyCode/core/events"
	"github.com/VanBaNguyen/SurveyCode/core/review"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Controller drives the interview turn state machine: request a
// question, present it, record the answer, submit, wait for the
// reaction, advance. Exactly one turn is open at a time and the
// completion path runs at most once per session, guarded by an atomic
// one-shot latch.
type Controller struct {
	mu      sync.Mutex
	state   State
	session *Session
	turn    *Turn

	service     InterviewService
	dial        ChannelDialer
	channel     SessionChannel
	submissions SubmissionStore

	speech    *speechPlayer
	input     *audioInput
	output    AudioOutput
	assembler *transcriptAssembler

	// completed is the one-shot completion latch. The completion path is
	// reachable from both the service's exhaustion signal and the locally
	// counted turn match; whichever fires second is a no-op.
	completed atomic.Bool

	closeOnce sync.Once
	doneOnce  sync.Once
	done      chan struct{}

	runOptions  RunOptions
	baseContext context.Context

	totalTurns int

	introSettle    time.Duration
	reactionSettle time.Duration
	questionSettle time.Duration
}

func NewController(service InterviewService, opts ...ControllerOption) *Controller {
	c := &Controller{
		state:          StateIdle,
		service:        service,
		assembler:      newTranscriptAssembler(),
		done:           make(chan struct{}),
		baseContext:    context.Background(),
		totalTurns:     defaultTotalTurns,
		introSettle:    introSettleDelay,
		reactionSettle: reactionSettleDelay,
		questionSettle: questionSettleDelay,
	}
	c.input = newAudioInput(nil, c.handleFrame)

	for _, opt := range opts {
		opt(c)
	}

	c.speech = newSpeechPlayer(c.synthesize, c.output)
	return c
}

func (c *Controller) synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.service == nil {
		return nil, fmt.Errorf("no interview service configured")
	}
	return c.service.Synthesize(ctx, text)
}

// Run starts the session and dials the push-event channel. It returns
// once the channel is up; the flow itself advances on inbound events.
// Call Run at most once per controller instance.
func (c *Controller) Run(ctx context.Context, opts ...RunOption) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		log.Println("Warning: interview already started, skipping Run")
		return fmt.Errorf("interview already started")
	}
	c.runOptions = RunOptions{}
	for _, opt := range opts {
		opt(&c.runOptions)
	}
	c.baseContext = ctx
	c.mu.Unlock()

	ctx, span := tracer.Start(ctx, "start interview session")
	defer span.End()

	if c.dial == nil {
		return fmt.Errorf("no channel dialer configured")
	}

	session, err := c.service.StartSession(ctx)
	if err != nil {
		recordedErr := fmt.Errorf("failed to start session: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	c.mu.Lock()
	c.session = &Session{ID: session.SessionID, TotalTurns: c.totalTurns}
	c.mu.Unlock()

	channel, err := c.dial(c.baseContext, session.SessionID, c.HandleEvent)
	if err != nil {
		recordedErr := fmt.Errorf("failed to open session channel: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	c.mu.Lock()
	c.channel = channel
	c.mu.Unlock()

	go func() {
		<-c.baseContext.Done()
		c.Close()
	}()
	return nil
}

// HandleEvent dispatches one inbound channel event. Long-running
// handlers run on their own goroutine so the channel's read loop is
// never blocked behind narration.
func (c *Controller) HandleEvent(event events.Event) {
	switch e := event.(type) {
	case events.SessionConnected:
		go c.begin()
	case events.TranscriptFragment:
		c.handleTranscript(e)
	case events.AutoSubmit:
		go c.handleAutoSubmit(e)
	case events.Reaction:
		go c.handleReaction(e)
	case events.SessionError:
		go c.fail(e.Message)
	default:
		logger.Warn("Ignoring unexpected event", "kind", event.Kind())
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a point-in-time snapshot of session progress.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}
	}
	return c.session.Snapshot()
}

// Done is closed when the interview reaches Done or Failed, or the
// controller is closed.
func (c *Controller) Done() <-chan struct{} { return c.done }

func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if err := c.input.Close(); err != nil {
			logger.Warn("Failed to close audio input", "error", err)
		}

		c.mu.Lock()
		channel := c.channel
		c.mu.Unlock()
		if channel != nil {
			if err := channel.Close(); err != nil {
				logger.Warn("Failed to close session channel", "error", err)
			}
		}

		c.signalDone()
	})
}

// StartRecording arms capture for the open turn. It is the user's retry
// path after a device failure; requests issued while the question is
// still being presented are refused.
func (c *Controller) StartRecording() error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	switch state {
	case StatePresenting:
		return ErrRecordingNotReady
	case StateRecording:
		return c.input.Arm(c.baseContext)
	default:
		return ErrNoOpenTurn
	}
}

// Submit finalizes the open turn with the accumulated transcript. It
// rejects answers under the minimum length without changing state.
func (c *Controller) Submit() error {
	c.mu.Lock()
	if c.state == StatePresenting {
		c.mu.Unlock()
		return ErrRecordingNotReady
	}
	if c.state != StateRecording || c.turn == nil || c.turn.finalized {
		c.mu.Unlock()
		return ErrNoOpenTurn
	}
	c.mu.Unlock()

	transcript := strings.TrimSpace(c.assembler.Display())
	if utf8.RuneCountInString(transcript) < minAnswerLength {
		c.notice(ErrAnswerTooShort.Error())
		return ErrAnswerTooShort
	}

	c.finalizeTurn(transcript)
	return nil
}

// begin runs the introduction once the channel reports connected.
func (c *Controller) begin() {
	if !c.transitionFrom(StateIdle, StateIntroduction) {
		return
	}

	c.speech.Speak(c.baseContext, welcomeText)
	time.Sleep(c.introSettle)

	if !c.transitionFrom(StateIntroduction, StateAwaitingQuestion) {
		return
	}
	c.fetchQuestion()
}

func (c *Controller) fetchQuestion() {
	ctx, span := tracer.Start(c.baseContext, "fetch next question")
	defer span.End()

	c.mu.Lock()
	sessionID := c.session.ID
	c.mu.Unlock()

	question, err := c.service.NextQuestion(ctx, sessionID)
	if err != nil {
		recordedErr := fmt.Errorf("failed to fetch next question: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		c.fail(recordedErr.Error())
		return
	}

	if question.Completed {
		c.complete()
		return
	}

	c.mu.Lock()
	if c.state != StateAwaitingQuestion {
		c.mu.Unlock()
		logger.Warn("Dropping question fetched outside awaiting state", "state", string(c.state))
		return
	}
	if c.turn != nil && !c.turn.finalized {
		c.mu.Unlock()
		logger.Warn("Dropping question fetched while a turn is still open")
		return
	}
	c.turn = newTurn(question.QuestionNumber, question.Question)
	c.session.CurrentTurn = question.QuestionNumber
	c.state = StatePresenting
	c.mu.Unlock()
	c.assembler.Reset()

	c.stateChanged(StatePresenting)
	if c.runOptions.onQuestion != nil {
		c.runOptions.onQuestion(question.QuestionNumber, question.Question)
	}

	c.speech.Speak(c.baseContext, question.Question)
	time.Sleep(c.questionSettle)

	if !c.transitionFrom(StatePresenting, StateRecording) {
		return
	}

	if err := c.input.Arm(c.baseContext); err != nil {
		logger.Warn("Audio capture unavailable, falling back to manual submit", "error", err)
		c.notice(ErrCaptureUnavailable.Error())
	}
}

func (c *Controller) handleFrame(frame []byte) {
	if c.runOptions.onInputAudio != nil {
		c.runOptions.onInputAudio(frame)
	}

	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		return
	}
	if err := channel.EmitAudioFrame(frame); err != nil {
		logger.Warn("Failed to emit audio frame", "error", err)
	}
}

func (c *Controller) handleTranscript(fragment events.TranscriptFragment) {
	c.mu.Lock()
	open := c.turn != nil && !c.turn.finalized
	c.mu.Unlock()
	if !open {
		return
	}

	display := c.assembler.Fold(fragment.Text, fragment.IsFinal, fragment.FullTranscript)
	if c.runOptions.onTranscript != nil {
		c.runOptions.onTranscript(display)
	}
}

// handleAutoSubmit honors the server's silence detection. A duplicate
// signal for an already finalized turn is a no-op.
func (c *Controller) handleAutoSubmit(event events.AutoSubmit) {
	transcript := strings.TrimSpace(event.Transcript)
	if transcript == "" {
		transcript = strings.TrimSpace(c.assembler.Final())
	}
	c.finalizeTurn(transcript)
}

func (c *Controller) finalizeTurn(transcript string) {
	c.mu.Lock()
	turn := c.turn
	// Only a recording turn can be finalized. A submit signal that lands
	// after the session failed, or after the next turn was already
	// fetched, is stale and must not advance the flow.
	if c.state != StateRecording || turn == nil || turn.finalized {
		c.mu.Unlock()
		return
	}
	turn.finalized = true
	turn.Transcript = transcript
	c.session.recordAnswer(turn)
	c.state = StateSubmitting
	c.mu.Unlock()
	c.stateChanged(StateSubmitting)

	if err := c.input.Disarm(); err != nil {
		logger.Warn("Failed to disarm audio capture", "error", err)
	}

	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		c.fail("session channel is not connected")
		return
	}
	if err := channel.SubmitTurn(turn.Number, transcript, turn.PromptText); err != nil {
		c.fail(fmt.Sprintf("failed to submit answer: %v", err))
		return
	}

	c.transitionFrom(StateSubmitting, StateAwaitingReaction)
}

func (c *Controller) handleReaction(event events.Reaction) {
	c.mu.Lock()
	if c.state != StateAwaitingReaction {
		c.mu.Unlock()
		logger.Warn("Dropping reaction outside awaiting state", "state", string(c.state))
		return
	}
	c.session.recordReaction(event.Text)
	lastTurn := c.session.CurrentTurn
	totalTurns := c.session.TotalTurns
	c.mu.Unlock()

	if c.runOptions.onReaction != nil {
		c.runOptions.onReaction(event.Text)
	}

	c.speech.Speak(c.baseContext, event.Text)
	time.Sleep(c.reactionSettle)

	// The advance decision uses the locally tracked turn counter only;
	// the next fetch's response is not consulted, so a racing redundant
	// fetch cannot double-advance the flow.
	if lastTurn >= totalTurns {
		c.complete()
		return
	}

	c.transitionFrom(StateAwaitingReaction, StateAwaitingQuestion)
	c.fetchQuestion()
}

// complete runs the one-shot completion path: review submission,
// feedback write-back, closing narration, save, handoff.
func (c *Controller) complete() {
	c.mu.Lock()
	failed := c.state == StateFailed
	c.mu.Unlock()
	if failed {
		return
	}

	if !c.completed.CompareAndSwap(false, true) {
		return
	}

	ctx, span := tracer.Start(c.baseContext, "complete interview")
	defer span.End()

	c.mu.Lock()
	c.state = StateCompleting
	c.session.Completed = true
	sessionID := c.session.ID
	c.mu.Unlock()
	c.stateChanged(StateCompleting)

	if err := c.input.Disarm(); err != nil {
		logger.Warn("Failed to disarm audio capture", "error", err)
	}

	artifact := c.buildArtifact(ctx, sessionID)

	c.speech.Speak(ctx, closingText)
	if feedback, ok := artifact.Feedback(); ok {
		c.speech.Speak(ctx, feedback)
	}

	if err := c.service.SaveSession(ctx, sessionID); err != nil {
		recordedErr := fmt.Errorf("failed to save session: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
	}

	c.mu.Lock()
	c.state = StateDone
	c.mu.Unlock()
	c.stateChanged(StateDone)

	if c.runOptions.onHandoff != nil {
		c.runOptions.onHandoff(artifact)
	}
	c.signalDone()
}

// buildArtifact assembles the handoff payload. The review call is
// best-effort: on failure the artifact goes out without feedback.
func (c *Controller) buildArtifact(ctx context.Context, sessionID string) *review.Artifact {
	var code, language string
	if c.submissions != nil {
		submission, ok, err := c.submissions.Load()
		if err != nil {
			logger.Warn("Failed to load prior submission", "error", err)
		} else if ok {
			code, language = submission.Code, submission.Language
		}
	}

	artifact := review.NewArtifact(code, language)
	if code == "" {
		return artifact
	}

	result, err := c.service.SubmitReview(ctx, sessionID, code)
	if err != nil {
		recordedErr := fmt.Errorf("failed to submit code for review: %w", err)
		span := trace.SpanFromContext(ctx)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return artifact
	}

	artifact.AttachFeedback(result.Feedback)
	if c.submissions != nil {
		if err := c.submissions.AttachFeedback(result.Feedback); err != nil {
			logger.Warn("Failed to store feedback", "error", err)
		}
	}
	return artifact
}

func (c *Controller) fail(reason string) {
	c.mu.Lock()
	if c.state == StateDone || c.state == StateFailed {
		c.mu.Unlock()
		return
	}
	c.state = StateFailed
	c.mu.Unlock()
	c.stateChanged(StateFailed)

	if err := c.input.Disarm(); err != nil {
		logger.Warn("Failed to disarm audio capture", "error", err)
	}

	if c.runOptions.onFailure != nil {
		c.runOptions.onFailure(reason)
	}
	c.signalDone()
}

func (c *Controller) transitionFrom(from, to State) bool {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return false
	}
	c.state = to
	c.mu.Unlock()
	c.stateChanged(to)
	return true
}

func (c *Controller) stateChanged(state State) {
	if c.runOptions.onStateChanged != nil {
		c.runOptions.onStateChanged(state)
	}
}

func (c *Controller) notice(message string) {
	if c.runOptions.onNotice != nil {
		c.runOptions.onNotice(message)
	}
}

func (c *Controller) signalDone() {
	c.doneOnce.Do(func() { close(c.done) })
}
