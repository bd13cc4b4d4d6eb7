// Package portaudio provides a PortAudio-backed alternative to the
// miniaudio client for hosts where malgo's backends are unavailable.
package portaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/VanBaNguyen/SurveyCode/core/audio"
)

type Client struct {
	bufferSize int
	stream     *portaudio.Stream

	// The capture side runs in PortAudio's native float format and is
	// converted to linear16 on the way out; playback writes int16
	// buffers directly.
	in  []float32
	out []int16

	pendingAudio []byte
	marks        []mark
	mu           sync.Mutex

	captureCancel context.CancelFunc
}

type mark struct {
	name     string
	callback func(string)
}

func NewClient(bufferSize int) (*Client, error) {
	if bufferSize <= 0 {
		bufferSize = 480
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]float32, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(
		audio.DefaultChannels, audio.DefaultChannels,
		audio.DefaultSampleRate, bufferSize, in, out,
	)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

// StartCapture reads microphone buffers in a background loop until
// StopCapture or context cancellation.
func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	if c.captureCancel != nil {
		c.mu.Unlock()
		return nil
	}
	ctx, c.captureCancel = context.WithCancel(ctx)
	c.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.stream.Read(); err != nil {
					continue
				}

				onAudio(audio.ConvertFloat32ToLinear16(c.in))
			}
		}
	}()

	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.captureCancel != nil {
		c.captureCancel()
		c.captureCancel = nil
	}
	return nil
}

func (c *Client) SendAudio(audio []byte) error {
	c.mu.Lock()
	c.pendingAudio = append(c.pendingAudio, audio...)
	c.mu.Unlock()
	return nil
}

// Mark drains everything queued so far through the blocking stream writer
// and then fires the callback. PortAudio has no playhead reporting, so the
// drain itself is the completion signal.
func (c *Client) Mark(name string, callback func(string)) error {
	c.mu.Lock()
	c.marks = append(c.marks, mark{name: name, callback: callback})
	pending := c.pendingAudio
	c.pendingAudio = nil
	marks := c.marks
	c.marks = nil
	c.mu.Unlock()

	go func() {
		c.drain(pending)
		for _, m := range marks {
			m.callback(m.name)
		}
	}()
	return nil
}

func (c *Client) drain(pcm []byte) {
	chunkSize := c.bufferSize * 2
	for offset := 0; offset < len(pcm); offset += chunkSize {
		end := min(offset+chunkSize, len(pcm))
		chunk := make([]byte, chunkSize)
		copy(chunk, pcm[offset:end])
		copy(c.out, audio.Linear16Samples(chunk))
		c.stream.Write()
	}
}

func (c *Client) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingAudio = nil
	c.marks = nil
}

func (c *Client) Close() {
	_ = c.StopCapture()
	c.stream.Close()
	portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
