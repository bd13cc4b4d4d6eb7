package interview

import "errors"

var (
	// ErrAnswerTooShort rejects a submit whose transcript is under the
	// minimum length. It never changes controller state.
	ErrAnswerTooShort = errors.New("answer is too short, please say a bit more before submitting")

	// ErrRecordingNotReady refuses a start-recording request issued while
	// the question is still being presented.
	ErrRecordingNotReady = errors.New("recording is not available until the question finishes playing")

	// ErrNoOpenTurn refuses user actions when no turn is in progress.
	ErrNoOpenTurn = errors.New("no turn is currently open")

	// ErrCaptureUnavailable reports that no microphone device is usable.
	ErrCaptureUnavailable = errors.New("audio capture is unavailable")
)
