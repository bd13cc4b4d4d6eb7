package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/VanBaNguyen/SurveyCode/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	pendingAudio []byte
	marks        []playbackMark

	mu      sync.Mutex
	audioMu sync.Mutex
	marksMu sync.Mutex
}

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * audio.DefaultChannels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(audio.DefaultChannels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext

	var err error
	silence := audio.GetDefaultEncodingInfo().SilenceValue()
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame, silence)},
	); err != nil {
		return err
	}

	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.ClearBuffer()
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.pendingAudio = append(c.pendingAudio, audio...)
	return nil
}

// Mark schedules callback to fire once everything queued before this call
// has left the playback buffer. Marks fire in queue order.
func (c *playbackClient) Mark(mark string, callback func(string)) error {
	c.audioMu.Lock()
	position := len(c.pendingAudio)
	c.audioMu.Unlock()

	c.marksMu.Lock()
	defer c.marksMu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     mark,
		position: position,
		callback: callback,
	})
	return nil
}

func (c *playbackClient) ClearBuffer() {
	c.audioMu.Lock()
	c.marksMu.Lock()
	defer c.audioMu.Unlock()
	defer c.marksMu.Unlock()
	c.pendingAudio = nil
	c.marks = nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil

	return nil
}

func (c *playbackClient) processAudio(bytesPerFrame int, silence byte) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		available := len(c.pendingAudio)
		consumed := min(need, available)
		_ = copy(pOutput, c.pendingAudio[:consumed])
		if consumed == available {
			c.pendingAudio = nil
		} else {
			c.pendingAudio = c.pendingAudio[consumed:]
		}
		c.audioMu.Unlock()

		// Pad an underrun with the encoding's silence value so the
		// device never plays stale buffer contents.
		for i := consumed; i < need && i < len(pOutput); i++ {
			pOutput[i] = silence
		}

		c.advanceMarks(consumed)
	}
}

// advanceMarks moves every pending mark forward by the number of bytes just
// played and fires the ones whose position has been passed.
func (c *playbackClient) advanceMarks(played int) {
	c.marksMu.Lock()
	passed := 0
	for i := range c.marks {
		if c.marks[i].position > played {
			c.marks[i].position -= played
		} else {
			c.marks[i].position = 0
			passed++
		}
	}
	toCall := c.marks[:passed]
	c.marks = c.marks[passed:]
	c.marksMu.Unlock()

	if len(toCall) > 0 {
		go func() {
			for _, mark := range toCall {
				mark.callback(mark.name)
			}
		}()
	}
}
