// Package channel maintains the persistent push-event connection to the
// interview service: outbound audio frames and turn submissions, inbound
// transcription fragments, reactions and control events.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/VanBaNguyen/SurveyCode/core/events"
)

// EventHandler receives every inbound event in arrival order. Handlers run
// on the read loop goroutine and should hand work off instead of blocking.
type EventHandler func(events.Event)

type Channel struct {
	sessionID string

	conn   *websocket.Conn
	connMu sync.Mutex

	emit EventHandler

	closeOnce sync.Once
	done      chan struct{}
}

// Dial opens the push channel keyed by sessionID and starts the read loop.
// rawURL is the ws:// or wss:// endpoint of the interview service.
func Dial(ctx context.Context, rawURL, sessionID string, onEvent EventHandler) (*Channel, error) {
	ctx, span := tracer.Start(ctx, "open session channel")
	defer span.End()

	if onEvent == nil {
		onEvent = func(events.Event) {}
	}

	endpoint, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid channel endpoint: %w", err)
	}
	queryParams := endpoint.Query()
	queryParams.Set("session_id", sessionID)
	endpoint.RawQuery = queryParams.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to interview service: %w", err)
	}

	c := &Channel{
		sessionID: sessionID,
		conn:      conn,
		emit:      onEvent,
		done:      make(chan struct{}),
	}
	go c.readAndProcessMessages(conn)

	return c, nil
}

// EmitAudioFrame streams one captured PCM frame to the service. Ownership
// of the frame transfers to the channel; callers must not reuse it.
func (c *Channel) EmitAudioFrame(frame []byte) error {
	return c.writeEnvelope(eventAudioChunk, audioChunkPayload{
		SessionID: c.sessionID,
		Audio:     frame,
	})
}

// SubmitTurn sends the finalized answer for one turn.
func (c *Channel) SubmitTurn(turnNumber int, transcript, promptText string) error {
	return c.writeEnvelope(eventSubmitAnswer, submitAnswerPayload{
		SessionID:      c.sessionID,
		Answer:         transcript,
		QuestionNumber: turnNumber,
		Question:       promptText,
	})
}

// Close shuts the connection down. Safe to call more than once.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.connMu.Lock()
		defer c.connMu.Unlock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the read loop exits.
func (c *Channel) Done() <-chan struct{} { return c.done }

func (c *Channel) writeEnvelope(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if err := c.conn.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		return fmt.Errorf("failed to write %s to interview service: %w", event, err)
	}
	return nil
}

func (c *Channel) readAndProcessMessages(conn *websocket.Conn) {
	defer close(c.done)

	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.emit(events.NewSessionError(fmt.Sprintf("session channel lost: %v", err)))
			}
			conn.Close()
			return
		}

		c.processMessage(msg)
	}
}

func (c *Channel) processMessage(msg envelope) {
	switch msg.Event {
	case eventConnected:
		c.emit(events.NewSessionConnected())

	case eventTranscription:
		var payload transcriptionPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Warn("failed to unmarshal transcription payload", "error", err)
			return
		}
		c.emit(events.NewTranscriptFragment(payload.Text, payload.IsFinal, payload.FullTranscript))

	case eventReaction:
		var payload reactionPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Warn("failed to unmarshal reaction payload", "error", err)
			return
		}
		c.emit(events.NewReaction(payload.Reaction, payload.HasAudio))

	case eventAutoSubmit:
		var payload autoSubmitPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Warn("failed to unmarshal auto-submit payload", "error", err)
			return
		}
		c.emit(events.NewAutoSubmit(payload.Transcript))

	case eventError:
		var payload errorPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Warn("failed to unmarshal error payload", "error", err)
			return
		}
		c.emit(events.NewSessionError(payload.Message))

	default:
		logger.Warn("skipped event of unknown type", "event", msg.Event)
	}
}
