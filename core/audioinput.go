package interview

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VanBaNguyen/SurveyCode/core/audio"
)

// frameQueueDepth bounds the capture-to-emit queue. Device callbacks
// never block on a slow network send; overflow frames are dropped with a
// warning instead.
const frameQueueDepth = 64

// audioInput is the capture facade: it owns the singleton microphone
// device and hands out one capture segment at a time. A segment is a
// non-restartable frame stream scoped to one recording; disarming is
// synchronously effective, so no frame from one turn can leak into the
// next segment.
type audioInput struct {
	// device is the configured capture client, nil when no microphone is
	// available.
	device AudioInput

	// configured reports whether a concrete device is wired.
	configured atomic.Bool
	// capturing reports whether a segment currently holds the device.
	capturing atomic.Bool

	mu      sync.Mutex
	segment *captureSegment

	// onFrame receives fixed-size PCM frames from the active segment.
	onFrame func(frame []byte)
}

func newAudioInput(device AudioInput, onFrame func(frame []byte)) *audioInput {
	if onFrame == nil {
		onFrame = func([]byte) {}
	}

	input := &audioInput{onFrame: onFrame}
	input.Set(device)
	return input
}

func (a *audioInput) Set(device AudioInput) {
	if a == nil {
		return
	}

	a.device = device
	a.configured.Store(device != nil)
}

func (a *audioInput) IsConfigured() bool { return a != nil && a.configured.Load() }
func (a *audioInput) IsCapturing() bool  { return a != nil && a.capturing.Load() }

// Arm acquires the device and starts a fresh capture segment. It fails
// with ErrCaptureUnavailable when no device is configured or the device
// cannot start, leaving the flow on the manual-submit path.
func (a *audioInput) Arm(ctx context.Context) error {
	if a == nil || !a.IsConfigured() {
		return ErrCaptureUnavailable
	}

	if !a.capturing.CompareAndSwap(false, true) {
		return nil
	}

	segment := newCaptureSegment(a.device.EncodingInfo(), a.onFrame)

	a.mu.Lock()
	a.segment = segment
	a.mu.Unlock()

	if err := a.device.StartCapture(ctx, segment.ingest); err != nil {
		segment.release()
		a.mu.Lock()
		a.segment = nil
		a.mu.Unlock()
		a.capturing.Store(false)
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return nil
}

// Disarm stops the active segment and releases the device. No frame is
// emitted after Disarm returns.
func (a *audioInput) Disarm() error {
	if a == nil {
		return nil
	}

	a.mu.Lock()
	segment := a.segment
	a.segment = nil
	a.mu.Unlock()

	if segment != nil {
		segment.release()
	}

	if !a.capturing.CompareAndSwap(true, false) {
		return nil
	}
	return a.device.StopCapture()
}

func (a *audioInput) Close() error {
	if a == nil {
		return nil
	}

	err := a.Disarm()
	if a.device != nil {
		a.device.Close()
	}
	return err
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if a == nil || a.device == nil {
		return audio.GetDefaultEncodingInfo()
	}
	return a.device.EncodingInfo()
}

// captureSegment buffers device callbacks into fixed-size frames and
// feeds them to a consumer goroutine, decoupling device callback timing
// from network send timing.
type captureSegment struct {
	armed atomic.Bool

	// chunkMu guards pending; the device callback is the only writer.
	chunkMu   sync.Mutex
	pending   []byte
	encoding  audio.EncodingInfo
	frameSize int

	frames chan []byte
	quit   chan struct{}

	// emitMu makes release a barrier: once it is acquired after armed is
	// cleared, no emit call is in flight or will ever run again.
	emitMu sync.Mutex
	emit   func(frame []byte)
}

// frameDuration is the audio span carried by one outbound frame.
const frameDuration = 30 * time.Millisecond

func newCaptureSegment(encoding audio.EncodingInfo, emit func(frame []byte)) *captureSegment {
	if encoding.IsZero() {
		encoding = audio.GetDefaultEncodingInfo()
	}
	frameSize := encoding.BytesForDuration(frameDuration)
	if frameSize <= 0 {
		frameSize = 960
	}

	segment := &captureSegment{
		encoding:  encoding,
		frameSize: frameSize,
		frames:    make(chan []byte, frameQueueDepth),
		quit:      make(chan struct{}),
		emit:      emit,
	}
	segment.armed.Store(true)
	go segment.deliver()
	return segment
}

// ingest runs on the device callback goroutine. It slices the incoming
// audio into fixed-size frames and queues them without blocking.
func (s *captureSegment) ingest(audio []byte) {
	if !s.armed.Load() {
		return
	}

	s.chunkMu.Lock()
	s.pending = append(s.pending, audio...)
	for len(s.pending) >= s.frameSize {
		frame := make([]byte, s.frameSize)
		copy(frame, s.pending[:s.frameSize])
		s.pending = s.pending[s.frameSize:]

		select {
		case s.frames <- frame:
		default:
			log.Printf("Warning: capture frame queue full, dropping %v of audio", s.encoding.Duration(s.frameSize))
		}
	}
	s.chunkMu.Unlock()
}

func (s *captureSegment) deliver() {
	for {
		select {
		case <-s.quit:
			return
		case frame := <-s.frames:
			s.emitMu.Lock()
			if s.armed.Load() {
				s.emit(frame)
			}
			s.emitMu.Unlock()
		}
	}
}

// release detaches the segment before the device stops, so no callback
// past this point can deliver audio into the next turn.
func (s *captureSegment) release() {
	if !s.armed.CompareAndSwap(true, false) {
		return
	}

	// Wait out any emit already in flight.
	s.emitMu.Lock()
	s.emitMu.Unlock()

	close(s.quit)
}
