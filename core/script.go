package interview

import "time"

// Narration script and pacing. The settling delays keep back-to-back
// utterances from running into each other on the playback device.
const (
	welcomeText = "Welcome to your interview. I'll ask you a few questions about the code you just wrote. Take your time with each answer."
	closingText = "That's all my questions. Thank you, I'll put together your feedback now."

	introSettleDelay    = 1500 * time.Millisecond
	reactionSettleDelay = 1500 * time.Millisecond
	questionSettleDelay = 500 * time.Millisecond

	minAnswerLength   = 10
	defaultTotalTurns = 5
)
