package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/VanBaNguyen/SurveyCode/core/events"
)

var upgrader = websocket.Upgrader{}

// dialTestChannel spins up a websocket server running serve and dials it.
func dialTestChannel(t *testing.T, onEvent EventHandler, serve func(conn *websocket.Conn)) *Channel {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session_id"); got != "sess-1" {
			t.Errorf("expected session_id query %q, got %q", "sess-1", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade connection: %v", err)
			return
		}
		serve(conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	ch, err := Dial(context.Background(), wsURL, "sess-1", onEvent)
	if err != nil {
		t.Fatalf("expected dial to succeed, got %v", err)
	}
	t.Cleanup(func() { ch.Close() })

	return ch
}

func awaitEvent(t *testing.T, received <-chan events.Event) events.Event {
	t.Helper()
	select {
	case event := <-received:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

func TestDialDispatchesInboundEvents(t *testing.T) {
	received := make(chan events.Event, 8)

	dialTestChannel(t, func(e events.Event) { received <- e }, func(conn *websocket.Conn) {
		defer conn.Close()
		conn.WriteJSON(envelope{Event: "connected"})
		conn.WriteJSON(envelope{
			Event: "transcription",
			Data:  json.RawMessage(`{"text":"hello","is_final":false,"full_transcript":""}`),
		})
		conn.WriteJSON(envelope{
			Event: "transcription",
			Data:  json.RawMessage(`{"text":"hello world","is_final":true,"full_transcript":"hello world"}`),
		})
		conn.WriteJSON(envelope{
			Event: "reaction",
			Data:  json.RawMessage(`{"reaction":"That's interesting!","has_audio":true}`),
		})
		conn.WriteJSON(envelope{
			Event: "auto_submit",
			Data:  json.RawMessage(`{"transcript":"hello world"}`),
		})
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})

	if _, ok := awaitEvent(t, received).(events.SessionConnected); !ok {
		t.Fatalf("expected first event to be SessionConnected")
	}

	partial, ok := awaitEvent(t, received).(events.TranscriptFragment)
	if !ok || partial.IsFinal {
		t.Fatalf("expected a partial transcript fragment, got %+v", partial)
	}
	if partial.Text != "hello" {
		t.Fatalf("expected partial text %q, got %q", "hello", partial.Text)
	}

	final, ok := awaitEvent(t, received).(events.TranscriptFragment)
	if !ok || !final.IsFinal {
		t.Fatalf("expected a final transcript fragment, got %+v", final)
	}
	if final.FullTranscript != "hello world" {
		t.Fatalf("expected full transcript %q, got %q", "hello world", final.FullTranscript)
	}

	reaction, ok := awaitEvent(t, received).(events.Reaction)
	if !ok {
		t.Fatalf("expected a reaction event")
	}
	if reaction.Text != "That's interesting!" || !reaction.HasAudio {
		t.Fatalf("unexpected reaction payload %+v", reaction)
	}

	autoSubmit, ok := awaitEvent(t, received).(events.AutoSubmit)
	if !ok {
		t.Fatalf("expected an auto-submit event")
	}
	if autoSubmit.Transcript != "hello world" {
		t.Fatalf("expected auto-submit transcript %q, got %q", "hello world", autoSubmit.Transcript)
	}
}

func TestServiceErrorEventIsDispatched(t *testing.T) {
	received := make(chan events.Event, 1)

	dialTestChannel(t, func(e events.Event) { received <- e }, func(conn *websocket.Conn) {
		defer conn.Close()
		conn.WriteJSON(envelope{Event: "error", Data: json.RawMessage(`{"message":"Invalid session"}`)})
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})

	sessionErr, ok := awaitEvent(t, received).(events.SessionError)
	if !ok {
		t.Fatalf("expected a session error event")
	}
	if sessionErr.Message != "Invalid session" {
		t.Fatalf("expected error message %q, got %q", "Invalid session", sessionErr.Message)
	}
}

func TestAbnormalDisconnectSurfacesAsSessionError(t *testing.T) {
	received := make(chan events.Event, 1)

	ch := dialTestChannel(t, func(e events.Event) { received <- e }, func(conn *websocket.Conn) {
		// Drop the connection without a close handshake.
		conn.Close()
	})

	if _, ok := awaitEvent(t, received).(events.SessionError); !ok {
		t.Fatalf("expected abnormal disconnect to surface as a session error")
	}

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected read loop to exit after disconnect")
	}
}

func TestOutboundEnvelopesCarrySessionAndPayload(t *testing.T) {
	type outbound struct {
		env  envelope
		data map[string]any
	}
	got := make(chan outbound, 2)

	ch := dialTestChannel(t, nil, func(conn *websocket.Conn) {
		defer conn.Close()
		for i := 0; i < 2; i++ {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			var data map[string]any
			json.Unmarshal(env.Data, &data)
			got <- outbound{env: env, data: data}
		}
	})

	if err := ch.EmitAudioFrame([]byte{0x01, 0x02}); err != nil {
		t.Fatalf("expected audio frame emission to succeed, got %v", err)
	}
	if err := ch.SubmitTurn(2, "my answer text", "What are your interests?"); err != nil {
		t.Fatalf("expected turn submission to succeed, got %v", err)
	}

	select {
	case frame := <-got:
		if frame.env.Event != "audio_chunk" {
			t.Fatalf("expected audio_chunk event, got %q", frame.env.Event)
		}
		if frame.data["session_id"] != "sess-1" {
			t.Fatalf("expected audio chunk keyed by session, got %v", frame.data["session_id"])
		}
		// encoding/json carries []byte as base64: 0x01 0x02 -> "AQI=".
		if frame.data["audio"] != "AQI=" {
			t.Fatalf("expected base64 audio payload %q, got %v", "AQI=", frame.data["audio"])
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for audio chunk")
	}

	select {
	case submit := <-got:
		if submit.env.Event != "submit_answer" {
			t.Fatalf("expected submit_answer event, got %q", submit.env.Event)
		}
		if submit.data["answer"] != "my answer text" {
			t.Fatalf("unexpected answer payload %v", submit.data["answer"])
		}
		if submit.data["question_number"] != float64(2) {
			t.Fatalf("expected question number 2, got %v", submit.data["question_number"])
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for submit answer")
	}
}
