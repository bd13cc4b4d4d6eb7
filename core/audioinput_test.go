package interview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/VanBaNguyen/SurveyCode/core/audio"
)

type fakeDevice struct {
	mu       sync.Mutex
	onAudio  func([]byte)
	startErr error

	starts int
	stops  int
	closed bool
}

func (d *fakeDevice) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }

func (d *fakeDevice) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	if d.startErr != nil {
		return d.startErr
	}
	d.mu.Lock()
	d.onAudio = onAudio
	d.starts++
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) StopCapture() error {
	d.mu.Lock()
	d.stops++
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// push feeds raw capture bytes through whatever sink is attached.
func (d *fakeDevice) push(data []byte) {
	d.mu.Lock()
	onAudio := d.onAudio
	d.mu.Unlock()
	if onAudio != nil {
		onAudio(data)
	}
}

func collectFrames() (func(frame []byte), chan []byte) {
	frames := make(chan []byte, frameQueueDepth)
	return func(frame []byte) { frames <- frame }, frames
}

func awaitFrame(t *testing.T, frames chan []byte) []byte {
	t.Helper()
	select {
	case frame := <-frames:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return nil
	}
}

func TestArmWithoutDevice(t *testing.T) {
	input := newAudioInput(nil, nil)

	if err := input.Arm(context.Background()); !errors.Is(err, ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
}

func TestArmDeviceFailureSurfacesAsCaptureUnavailable(t *testing.T) {
	device := &fakeDevice{startErr: errors.New("permission denied")}
	onFrame, _ := collectFrames()
	input := newAudioInput(device, onFrame)

	if err := input.Arm(context.Background()); !errors.Is(err, ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
	if input.IsCapturing() {
		t.Fatal("expected capture flag cleared after a failed arm")
	}
}

func TestFixedSizeFrames(t *testing.T) {
	device := &fakeDevice{}
	onFrame, frames := collectFrames()
	input := newAudioInput(device, onFrame)

	if err := input.Arm(context.Background()); err != nil {
		t.Fatalf("expected arm to succeed, got %v", err)
	}
	defer input.Disarm()

	frameSize := audio.GetDefaultEncodingInfo().BytesForDuration(frameDuration)

	// Two and a half frames in one callback: two frames out, remainder held.
	device.push(make([]byte, frameSize*2+frameSize/2))
	first := awaitFrame(t, frames)
	second := awaitFrame(t, frames)
	if len(first) != frameSize || len(second) != frameSize {
		t.Fatalf("expected fixed-size frames of %d bytes, got %d and %d", frameSize, len(first), len(second))
	}

	// The remainder completes on the next callback.
	device.push(make([]byte, frameSize/2))
	third := awaitFrame(t, frames)
	if len(third) != frameSize {
		t.Fatalf("expected remainder to complete a frame of %d bytes, got %d", frameSize, len(third))
	}
}

func TestDisarmIsSynchronouslyEffective(t *testing.T) {
	device := &fakeDevice{}
	onFrame, frames := collectFrames()
	input := newAudioInput(device, onFrame)

	if err := input.Arm(context.Background()); err != nil {
		t.Fatalf("expected arm to succeed, got %v", err)
	}
	if err := input.Disarm(); err != nil {
		t.Fatalf("expected disarm to succeed, got %v", err)
	}

	frameSize := audio.GetDefaultEncodingInfo().BytesForDuration(frameDuration)
	device.push(make([]byte, frameSize*4))

	select {
	case <-frames:
		t.Fatal("expected no frame after disarm returned")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNoFrameLeaksIntoNextSegment(t *testing.T) {
	device := &fakeDevice{}
	frameSize := audio.GetDefaultEncodingInfo().BytesForDuration(frameDuration)

	var mu sync.Mutex
	var segments [][]int
	input := newAudioInput(device, func(frame []byte) {
		mu.Lock()
		segments[len(segments)-1] = append(segments[len(segments)-1], int(frame[0]))
		mu.Unlock()
	})

	// Turn one: frames tagged 1.
	mu.Lock()
	segments = append(segments, nil)
	mu.Unlock()
	if err := input.Arm(context.Background()); err != nil {
		t.Fatalf("expected arm to succeed, got %v", err)
	}
	turnOne := make([]byte, frameSize)
	turnOne[0] = 1
	device.push(turnOne)

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(segments[0])
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for turn one frame")
		}
		time.Sleep(time.Millisecond)
	}

	if err := input.Disarm(); err != nil {
		t.Fatalf("expected disarm to succeed, got %v", err)
	}

	// Late device callback from the released segment.
	late := make([]byte, frameSize)
	late[0] = 1
	device.push(late)

	// Turn two: frames tagged 2.
	mu.Lock()
	segments = append(segments, nil)
	mu.Unlock()
	if err := input.Arm(context.Background()); err != nil {
		t.Fatalf("expected re-arm to succeed, got %v", err)
	}
	turnTwo := make([]byte, frameSize)
	turnTwo[0] = 2
	device.push(turnTwo)

	deadline = time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(segments[1])
		mu.Unlock()
		if n >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for turn two frame")
		}
		time.Sleep(time.Millisecond)
	}
	input.Disarm()

	mu.Lock()
	defer mu.Unlock()
	for _, tag := range segments[1] {
		if tag != 2 {
			t.Fatalf("expected only turn two frames in the second segment, got tag %d", tag)
		}
	}
}

func TestSegmentFrameSizeFollowsEncoding(t *testing.T) {
	narrow := newCaptureSegment(audio.EncodingInfo{SampleRate: 8000, Format: audio.EncodingMulaw}, func([]byte) {})
	defer narrow.release()
	if narrow.frameSize != 240 {
		t.Fatalf("expected 240-byte frames for 8 kHz mulaw, got %d", narrow.frameSize)
	}

	// A device reporting no encoding falls back to the canonical one.
	fallback := newCaptureSegment(audio.EncodingInfo{}, func([]byte) {})
	defer fallback.release()
	if fallback.frameSize != 960 {
		t.Fatalf("expected the canonical 960-byte frame, got %d", fallback.frameSize)
	}
}
