// SPDX-License-Identifier: EPL-2.0

package audiodev

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/GarntS/boo/audio"
)

// Device plays an engine through miniaudio. Each hardware period lands in
// the data callback on miniaudio's thread, which renders through the
// engine's retrace-aware RenderPeriod entry and packs the result into the
// callback's byte buffer. The typed scratch is sized at construction and
// grows only if the backend ever asks for a larger period, so the steady
// state callback does not allocate.
type Device struct {
	log *zap.Logger
	e   *audio.Engine

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	dev    *malgo.Device
	closed bool

	// one of these is in use, matching the engine's mix format
	buf16  []int16
	buf32  []int32
	bufFlt []float32
}

func malgoFormat(f audio.SampleFormat) malgo.FormatType {
	switch f {
	case audio.Format16:
		return malgo.FormatS16
	case audio.Format32:
		return malgo.FormatS32
	default:
		return malgo.FormatF32
	}
}

// NewDevice opens the default playback device configured from the engine's
// mix format. The device is created stopped; call Start to begin playback.
func NewDevice(e *audio.Engine, logger *zap.Logger) (*Device, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info := e.MixInfo()

	d := &Device{log: logger, e: e}
	switch info.Format {
	case audio.Format16:
		d.buf16 = make([]int16, info.PeriodFrames*info.ChannelMap.Count)
	case audio.Format32:
		d.buf32 = make([]int32, info.PeriodFrames*info.ChannelMap.Count)
	default:
		d.bufFlt = make([]float32, info.PeriodFrames*info.ChannelMap.Count)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize audio context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgoFormat(info.Format)
	cfg.Playback.Channels = uint32(info.ChannelMap.Count)
	cfg.SampleRate = uint32(info.SampleRate)
	cfg.PeriodSizeInFrames = uint32(info.PeriodFrames)

	dev, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: d.onData,
	})
	if err != nil {
		uninitContext(ctx, logger)
		return nil, fmt.Errorf("initialize playback device: %w", err)
	}

	d.ctx = ctx
	d.dev = dev
	logger.Info("playback device opened",
		zap.Int("sampleRate", info.SampleRate),
		zap.Stringer("format", info.Format),
		zap.Int("channels", info.ChannelMap.Count),
		zap.Int("periodFrames", info.PeriodFrames))
	return d, nil
}

// onData is the miniaudio data callback. frameCount is whatever the backend
// settled on, which may differ from the engine's nominal period.
func (d *Device) onData(out, _ []byte, frameCount uint32) {
	info := d.e.MixInfo()
	samples := int(frameCount) * info.ChannelMap.Count

	switch info.Format {
	case audio.Format16:
		if cap(d.buf16) < samples {
			d.buf16 = make([]int16, samples)
		}
		d.e.RenderPeriod16(d.buf16[:samples])
		encodeInt16LE(out, d.buf16[:samples])
	case audio.Format32:
		if cap(d.buf32) < samples {
			d.buf32 = make([]int32, samples)
		}
		d.e.RenderPeriod32(d.buf32[:samples])
		encodeInt32LE(out, d.buf32[:samples])
	default:
		if cap(d.bufFlt) < samples {
			d.bufFlt = make([]float32, samples)
		}
		d.e.RenderPeriodFlt(d.bufFlt[:samples])
		encodeFloat32LE(out, d.bufFlt[:samples])
	}
}

// Start begins playback. Idempotent while the device is open.
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	if d.dev.IsStarted() {
		return nil
	}
	if err := d.dev.Start(); err != nil {
		return fmt.Errorf("start playback device: %w", err)
	}
	d.log.Debug("playback device started")
	return nil
}

// Stop halts playback without releasing the device.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	if !d.dev.IsStarted() {
		return nil
	}
	if err := d.dev.Stop(); err != nil {
		return fmt.Errorf("stop playback device: %w", err)
	}
	d.log.Debug("playback device stopped")
	return nil
}

// Close releases the device and its context. Idempotent. The engine is left
// untouched; it can be handed to another backend.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.dev.Uninit()
	uninitContext(d.ctx, d.log)
	d.dev = nil
	d.ctx = nil
	d.log.Info("playback device closed")
	return nil
}

func uninitContext(ctx *malgo.AllocatedContext, log *zap.Logger) {
	if ctx == nil {
		return
	}
	if err := ctx.Uninit(); err != nil {
		log.Warn("uninitialize audio context", zap.Error(err))
	}
	ctx.Free()
}
