// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/GarntS/boo/audio"
)

// readBufSamples is the preferred number of samples a caller should request
// per ReadSamples call.
const readBufSamples = 4096

// oggReader is the slice of oggvorbis.Reader the source needs; tests swap in
// their own.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return readBufSamples }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// oggvorbis fills dst with interleaved float32 directly and reports a
	// sample count that is always a multiple of the channel count. Cap the
	// request at a whole number of frames.
	frames := len(dst) / s.channels
	if frames == 0 {
		return 0, nil
	}

	samples, err := s.dec.Read(dst[:frames*s.channels])
	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("decode vorbis frames: %w", err)
	}
	return samples, err
}

type Decoder struct{}

// Decode opens an Ogg Vorbis stream. Sample rate and channel layout come
// from the stream's identification header.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open vorbis stream: %w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
