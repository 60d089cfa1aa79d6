// SPDX-License-Identifier: EPL-2.0

package boo

import (
	"fmt"
	"io"

	"github.com/GarntS/boo/audio"
	"github.com/GarntS/boo/formats/wav"
)

// RenderWAV pumps the engine offline for the given number of periods and
// writes the mixed output to ws as 16-bit PCM WAV. It drives the raw pump
// directly, so no hardware backend or retrace is involved; running voices
// are mixed exactly as they would be live. ws must support seeking because
// the WAV chunk sizes are patched at the end.
func RenderWAV(e *audio.Engine, ws io.WriteSeeker, periods int) error {
	info := e.MixInfo()
	channels := info.ChannelMap.Count
	period := make([]int16, info.PeriodFrames*channels)

	pcm := make([]int16, 0, periods*len(period))
	for i := 0; i < periods; i++ {
		if err := e.PumpAndMixVoices16(period); err != nil {
			return fmt.Errorf("pump period %d: %w", i, err)
		}
		pcm = append(pcm, period...)
	}

	if err := wav.WriteWAV16(ws, info.SampleRate, channels, pcm); err != nil {
		return fmt.Errorf("write rendered wav: %w", err)
	}
	return nil
}
