// SPDX-License-Identifier: EPL-2.0

package audiodev

import (
	"fmt"
	"io"

	gaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"go.uber.org/zap"

	"github.com/GarntS/boo/audio"
)

// WAVRenderer renders an engine offline into a 16-bit PCM WAV stream, one
// engine period per encoder write. Rendering drives the raw pump, so no
// backend or retrace is involved and the render runs as fast as the mix
// allows.
type WAVRenderer struct {
	log *zap.Logger
	e   *audio.Engine
}

// NewWAVRenderer builds a renderer over e.
func NewWAVRenderer(e *audio.Engine, logger *zap.Logger) *WAVRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WAVRenderer{log: logger, e: e}
}

// Render pumps the engine for the given number of periods and encodes the
// output onto ws. ws must support seeking; the encoder patches the RIFF
// chunk sizes when the stream is finalized.
func (r *WAVRenderer) Render(ws io.WriteSeeker, periods int) error {
	if periods <= 0 {
		return ErrInvalidPeriodCount
	}

	info := r.e.MixInfo()
	channels := info.ChannelMap.Count
	period := make([]int16, info.PeriodFrames*channels)

	enc := gowav.NewEncoder(ws, info.SampleRate, 16, channels, 1)
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: channels,
			SampleRate:  info.SampleRate,
		},
		Data:           make([]int, len(period)),
		SourceBitDepth: 16,
	}

	for i := 0; i < periods; i++ {
		if err := r.e.PumpAndMixVoices16(period); err != nil {
			return fmt.Errorf("pump period %d: %w", i, err)
		}
		for j, s := range period {
			buf.Data[j] = int(s)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("encode period %d: %w", i, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	r.log.Debug("offline render complete",
		zap.Int("periods", periods),
		zap.Int("frames", periods*info.PeriodFrames))
	return nil
}
