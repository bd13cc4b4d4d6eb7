package interview

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

// speechPlayer narrates one utterance at a time: synthesize the text,
// queue the audio on the output device, and block until the device
// reports playback finished. The mutex serializes callers so prompts,
// reactions, and feedback narration never overlap audibly.
//
// Narration is best-effort: synthesis or playback failure resolves the
// call immediately instead of blocking the flow.
type speechPlayer struct {
	mu sync.Mutex

	synthesize func(ctx context.Context, text string) ([]byte, error)
	output     AudioOutput
}

func newSpeechPlayer(synthesize func(ctx context.Context, text string) ([]byte, error), output AudioOutput) *speechPlayer {
	return &speechPlayer{synthesize: synthesize, output: output}
}

// Speak plays text to completion. It returns once per call, on playback
// end or on any failure along the way.
func (p *speechPlayer) Speak(ctx context.Context, text string) {
	if p == nil || text == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, span := tracer.Start(ctx, "speak utterance")
	defer span.End()

	if p.synthesize == nil || p.output == nil {
		return
	}

	audio, err := p.synthesize(ctx, text)
	if err != nil {
		recordedErr := fmt.Errorf("failed to synthesize utterance: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return
	}
	if len(audio) == 0 {
		return
	}

	if err := p.output.SendAudio(audio); err != nil {
		recordedErr := fmt.Errorf("failed to queue utterance audio: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return
	}

	done := make(chan struct{})
	var once sync.Once
	if err := p.output.Mark(uuid.NewString(), func(string) {
		once.Do(func() { close(done) })
	}); err != nil {
		recordedErr := fmt.Errorf("failed to mark utterance end: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
		p.output.ClearBuffer()
	}
}
