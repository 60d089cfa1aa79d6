// SPDX-License-Identifier: EPL-2.0

package audiodev

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"github.com/GarntS/boo/audio"
)

// OtoPlayer plays an engine through oto's pull model: oto reads bytes from
// an io.Reader on its own schedule, and the reader renders engine periods
// on demand. Playback always runs the float mix path; oto's byte requests
// do not line up with the engine's nominal period, so the rendered span per
// read is whatever oto asks for, rounded down to whole frames.
type OtoPlayer struct {
	log *zap.Logger

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	closed bool
}

// engineReader adapts RenderPeriodFlt to io.Reader for oto. Only oto's
// playback goroutine touches it.
type engineReader struct {
	e        *audio.Engine
	channels int
	flt      []float32
}

func (r *engineReader) Read(p []byte) (int, error) {
	frames := len(p) / 4 / r.channels
	if frames == 0 {
		return 0, nil
	}
	samples := frames * r.channels
	if cap(r.flt) < samples {
		r.flt = make([]float32, samples)
	}
	r.e.RenderPeriodFlt(r.flt[:samples])
	encodeFloat32LE(p, r.flt[:samples])
	return samples * 4, nil
}

// NewOtoPlayer opens an oto playback context sized from the engine's mix
// format. Playback starts immediately on Play. Oto permits one context per
// process; a second player must reuse the first one's lifetime.
func NewOtoPlayer(e *audio.Engine, logger *zap.Logger) (*OtoPlayer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info := e.MixInfo()

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   info.SampleRate,
		ChannelCount: info.ChannelMap.Count,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize oto context: %w", err)
	}
	<-ready

	reader := &engineReader{
		e:        e,
		channels: info.ChannelMap.Count,
		flt:      make([]float32, info.PeriodFrames*info.ChannelMap.Count),
	}

	p := &OtoPlayer{
		log:    logger,
		ctx:    ctx,
		player: ctx.NewPlayer(reader),
	}
	logger.Info("oto player opened",
		zap.Int("sampleRate", info.SampleRate),
		zap.Int("channels", info.ChannelMap.Count))
	return p, nil
}

// Play starts or resumes playback.
func (p *OtoPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrDeviceClosed
	}
	p.player.Play()
	return nil
}

// Pause suspends playback; the engine stops being pulled.
func (p *OtoPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrDeviceClosed
	}
	p.player.Pause()
	return nil
}

// Close stops playback and releases the player. The oto context itself has
// no teardown; it lives until the process exits.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("close oto player: %w", err)
	}
	p.log.Info("oto player closed")
	return nil
}
