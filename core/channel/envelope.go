package channel

import "encoding/json"

// envelope is the wire frame for every message on the push channel, both
// directions: a routing key plus an event-specific payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names pushed by the interview service.
const (
	eventConnected     = "connected"
	eventTranscription = "transcription"
	eventReaction      = "reaction"
	eventAutoSubmit    = "auto_submit"
	eventError         = "error"
)

// Outbound event names emitted by the client.
const (
	eventAudioChunk   = "audio_chunk"
	eventSubmitAnswer = "submit_answer"
)

type transcriptionPayload struct {
	Text           string `json:"text"`
	IsFinal        bool   `json:"is_final"`
	FullTranscript string `json:"full_transcript"`
}

type reactionPayload struct {
	Reaction string `json:"reaction"`
	HasAudio bool   `json:"has_audio"`
}

type autoSubmitPayload struct {
	Transcript string `json:"transcript"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type audioChunkPayload struct {
	SessionID string `json:"session_id"`
	Audio     []byte `json:"audio"`
}

type submitAnswerPayload struct {
	SessionID      string `json:"session_id"`
	Answer         string `json:"answer"`
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
}
