package audio

import (
	"fmt"
	"io"

	"github.com/GarntS/boo/utils"
)

// ResampleToMono16 decodes an entire source into mono 16 bit PCM at
// targetRate, through the same converter the engine pumps voices with. Wider
// sources are averaged down to one channel first. bufferSize is the chunk
// size in frames for the collection loop; io.EOF from the source is the
// normal end of stream, not an error.
//
// Offline callers use this to prepare whole clips; live playback should feed
// the source through a voice instead.
func ResampleToMono16(src Source, targetRate, bufferSize int) ([]int16, int, error) {
	mono := NewMonoMixer(src)

	var (
		readErr error
		done    bool
		fltBuf  []float32
		intBuf  []int16
	)
	pull := func(frames int) []int16 {
		if done {
			return nil
		}
		if cap(fltBuf) < frames {
			fltBuf = make([]float32, frames)
			intBuf = make([]int16, frames)
		}
		n, err := mono.ReadSamples(fltBuf[:frames])
		if err == io.EOF {
			done = true
		} else if err != nil {
			done = true
			readErr = err
			return nil
		}
		utils.Float32ToInt16Buf(intBuf[:n], fltBuf[:n])
		return intBuf[:n]
	}

	rs, err := newResampler(pull, 1, mono.SampleRate(), targetRate)
	if err != nil {
		return nil, 0, err
	}

	var pcm []int16
	chunk := make([]int16, bufferSize)
	for {
		n := rs.resample16(chunk, bufferSize)
		pcm = append(pcm, chunk[:n]...)
		if readErr != nil {
			return nil, targetRate, fmt.Errorf("read source: %w", readErr)
		}
		if n == 0 {
			break
		}
	}
	return pcm, targetRate, nil
}
