// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// WriteWAV16 encodes interleaved 16-bit PCM as a RIFF WAVE stream on ws.
// len(samples) must be a multiple of channels. The encoder patches chunk
// sizes once the sample count is known, which is why ws must support
// seeking.
func WriteWAV16(ws io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if sampleRate < 1 || channels < 1 || len(samples)%channels != 0 {
		return ErrUnsupportedWavLayout
	}

	enc := gowav.NewEncoder(ws, sampleRate, 16, channels, pcmFormatTag)
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode pcm data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
