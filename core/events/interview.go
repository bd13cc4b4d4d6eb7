package events

const (
	// KindTranscriptFragment identifies streamed answer transcription.
	KindTranscriptFragment Kind = "interview.transcript_fragment"
	// KindReaction identifies the interviewer's reaction to an answer.
	KindReaction Kind = "interview.reaction"
	// KindAutoSubmit identifies server-detected silence finalizing a turn.
	KindAutoSubmit Kind = "interview.auto_submit"
)

// TranscriptFragment carries one streamed transcription piece. Partial
// fragments (IsFinal false) are display-only and superseded by the next
// fragment; final fragments carry the authoritative FullTranscript.
type TranscriptFragment struct {
	Base
	Text           string
	IsFinal        bool
	FullTranscript string
}

// NewTranscriptFragment creates a transcript fragment event.
func NewTranscriptFragment(text string, isFinal bool, fullTranscript string) TranscriptFragment {
	return TranscriptFragment{
		Base:           NewBase(KindTranscriptFragment),
		Text:           text,
		IsFinal:        isFinal,
		FullTranscript: fullTranscript,
	}
}

// Reaction carries the interviewer's spoken reaction to the answer just
// submitted. HasAudio reports whether the service synthesized narration.
type Reaction struct {
	Base
	Text     string
	HasAudio bool
}

// NewReaction creates a reaction event.
func NewReaction(text string, hasAudio bool) Reaction {
	return Reaction{Base: NewBase(KindReaction), Text: text, HasAudio: hasAudio}
}

// AutoSubmit reports that the service detected sustained silence and
// finalized the in-progress answer with the given transcript.
type AutoSubmit struct {
	Base
	Transcript string
}

// NewAutoSubmit creates an auto-submit event.
func NewAutoSubmit(transcript string) AutoSubmit {
	return AutoSubmit{Base: NewBase(KindAutoSubmit), Transcript: transcript}
}
