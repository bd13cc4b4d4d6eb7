package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/VanBaNguyen/SurveyCode/core/audio"
)

type captureClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	onAudio func(audio []byte)

	mu sync.Mutex
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * audio.DefaultChannels

	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = uint32(audio.DefaultSampleRate)
	c.config.Capture.Format = format
	c.config.Capture.Channels = uint32(audio.DefaultChannels)
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	c.config.PeriodSizeInFrames = 480
	c.config.Periods = 3

	c.audioContext = audioContext

	var err error
	c.device, err = malgo.InitDevice(c.audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}

			// Read without the lock: Stop holds it while the device winds
			// down, and a late frame is filtered by the receiving segment
			// anyway.
			if onAudio := c.onAudio; onAudio != nil {
				onAudio(pInput[:n])
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Start(onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.onAudio = onAudio
	if c.device.IsStarted() {
		return nil
	}

	if err := c.device.Start(); err != nil {
		c.onAudio = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	// Detach the sink before stopping so no callback past this point can
	// deliver audio to a released segment.
	c.onAudio = nil
	if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.onAudio = nil
	return nil
}
