package interview

import (
	"context"

	"github.com/VanBaNguyen/SurveyCode/core/api"
	"github.com/VanBaNguyen/SurveyCode/core/audio"
	"github.com/VanBaNguyen/SurveyCode/core/events"
	"github.com/VanBaNguyen/SurveyCode/core/review"
	"github.com/VanBaNguyen/SurveyCode/core/store"
)

type ControllerOption func(*Controller)

// AudioInput is a microphone device client with explicit capture controls.
type AudioInput interface {
	EncodingInfo() audio.EncodingInfo
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	Close()
}

func WithAudioInput(client AudioInput) ControllerOption {
	return func(c *Controller) { c.input.Set(client) }
}

// AudioOutput is a playback device client that reports, via marks, when
// queued audio has finished playing.
type AudioOutput interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	Mark(mark string, callback func(string)) error
	ClearBuffer()
}

func WithAudioOutput(client AudioOutput) ControllerOption {
	return func(c *Controller) { c.output = client }
}

// InterviewService is the request/response surface of the remote
// interview service.
type InterviewService interface {
	StartSession(ctx context.Context) (*api.Session, error)
	NextQuestion(ctx context.Context, sessionID string) (*api.Question, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
	SubmitReview(ctx context.Context, sessionID, code string) (*api.Review, error)
	SaveSession(ctx context.Context, sessionID string) error
}

// SessionChannel is the outbound half of the push-event channel. Inbound
// events reach the controller through the handler passed to the dialer.
type SessionChannel interface {
	EmitAudioFrame(frame []byte) error
	SubmitTurn(turnNumber int, transcript, promptText string) error
	Close() error
}

// ChannelDialer opens the push-event channel for a started session.
type ChannelDialer func(ctx context.Context, sessionID string, onEvent func(events.Event)) (SessionChannel, error)

func WithChannelDialer(dial ChannelDialer) ControllerOption {
	return func(c *Controller) { c.dial = dial }
}

// SubmissionStore provides the prior code submission under review and
// the write-back slot for the produced feedback.
type SubmissionStore interface {
	Load() (store.Submission, bool, error)
	AttachFeedback(feedback string) error
}

func WithSubmissionStore(submissions SubmissionStore) ControllerOption {
	return func(c *Controller) { c.submissions = submissions }
}

func WithTotalTurns(totalTurns int) ControllerOption {
	return func(c *Controller) {
		if totalTurns > 0 {
			c.totalTurns = totalTurns
		}
	}
}

type RunOptions struct {
	onStateChanged func(state State)
	onQuestion     func(number int, text string)
	onTranscript   func(display string)
	onReaction     func(text string)
	onNotice       func(message string)
	onFailure      func(message string)
	onHandoff      func(artifact *review.Artifact)
	onInputAudio   func(frame []byte)
}

type RunOption func(*RunOptions)

func WithStateChangedCallback(callback func(state State)) RunOption {
	return func(o *RunOptions) { o.onStateChanged = callback }
}

func WithQuestionCallback(callback func(number int, text string)) RunOption {
	return func(o *RunOptions) { o.onQuestion = callback }
}

// WithTranscriptCallback registers a callback for the live display
// transcript, including the current partial overlay.
func WithTranscriptCallback(callback func(display string)) RunOption {
	return func(o *RunOptions) { o.onTranscript = callback }
}

func WithReactionCallback(callback func(text string)) RunOption {
	return func(o *RunOptions) { o.onReaction = callback }
}

// WithNoticeCallback registers a callback for non-fatal, user-visible
// conditions: validation rejections, capture unavailability.
func WithNoticeCallback(callback func(message string)) RunOption {
	return func(o *RunOptions) { o.onNotice = callback }
}

func WithFailureCallback(callback func(message string)) RunOption {
	return func(o *RunOptions) { o.onFailure = callback }
}

// WithHandoffCallback registers the handoff to the feedback collaborator.
// It fires exactly once, on completion, with the reviewed artifact.
func WithHandoffCallback(callback func(artifact *review.Artifact)) RunOption {
	return func(o *RunOptions) { o.onHandoff = callback }
}

// WithInputAudioCallback registers a callback for captured PCM frames.
//
// The provided slice is passed through as-is (no defensive copy). The
// callback runs inline on the frame-delivery path and should not block.
func WithInputAudioCallback(callback func(frame []byte)) RunOption {
	return func(o *RunOptions) { o.onInputAudio = callback }
}
