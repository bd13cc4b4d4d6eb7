package interview

import (
	"strings"
	"sync"
)

// transcriptAssembler folds streaming transcription fragments into one
// canonical text per turn. Final fragments replace the authoritative
// transcript; partial fragments are a display-only overlay that the next
// fragment supersedes. Finalized text never shrinks.
type transcriptAssembler struct {
	mu sync.Mutex

	final   string
	overlay string
}

func newTranscriptAssembler() *transcriptAssembler {
	return &transcriptAssembler{}
}

// Fold applies one fragment and returns the current display text.
func (a *transcriptAssembler) Fold(text string, isFinal bool, fullTranscript string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if isFinal {
		a.overlay = ""
		switch {
		case fullTranscript != "" && len(fullTranscript) >= len(a.final):
			a.final = fullTranscript
		case text != "":
			// A final without a usable full transcript still appends, so a
			// pause mid-sentence never drops earlier finalized text.
			a.final = joinTranscript(a.final, text)
		}
		return a.final
	}

	a.overlay = text
	return joinTranscript(a.final, a.overlay)
}

// Final returns the authoritative transcript, ignoring any overlay.
func (a *transcriptAssembler) Final() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.final
}

// Display returns the transcript including the current partial overlay.
func (a *transcriptAssembler) Display() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return joinTranscript(a.final, a.overlay)
}

// Reset clears the assembler for the next turn.
func (a *transcriptAssembler) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.final = ""
	a.overlay = ""
}

func joinTranscript(final, tail string) string {
	if final == "" {
		return tail
	}
	if tail == "" {
		return final
	}
	return strings.TrimSpace(final) + " " + tail
}
