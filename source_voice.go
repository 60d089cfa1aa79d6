// SPDX-License-Identifier: EPL-2.0

package boo

import (
	"io"
	"sync/atomic"

	"github.com/GarntS/boo/audio"
	"github.com/GarntS/boo/utils"
)

// SourceVoice couples an audio.Source (a format decoder, typically) to an
// engine voice. The voice pulls from the source on the pump path, so the
// source's decode cost lands inside the period budget; pre-decode into a
// memory-backed source when that is too expensive.
type SourceVoice struct {
	*audio.Voice
	cb *sourceCallback
}

// Done reports whether the source has been exhausted. The voice keeps
// running and contributes silence after that; Stop or Destroy it when Done
// turns true.
func (s *SourceVoice) Done() bool { return s.cb.done.Load() }

// NewSourceVoice binds src to a new voice on e. Sources wider than two
// channels are folded to mono first. The voice is created stopped; call
// Start when routing is set up.
func NewSourceVoice(e *audio.Engine, src audio.Source, dynamicPitch bool) (*SourceVoice, error) {
	if src.Channels() > 2 {
		src = audio.NewMonoMixer(src)
	}
	cb := &sourceCallback{src: src}
	v, err := e.NewVoice(cb, src.SampleRate(), src.Channels(), dynamicPitch)
	if err != nil {
		return nil, err
	}
	return &SourceVoice{Voice: v, cb: cb}, nil
}

// sourceCallback adapts the float32 pull contract of audio.Source onto the
// int16 supply contract of audio.VoiceCallback.
type sourceCallback struct {
	src  audio.Source
	flt  []float32
	done atomic.Bool
}

func (c *sourceCallback) PreSupplyAudio(v *audio.Voice, dt float64) {}

func (c *sourceCallback) SupplyAudio(v *audio.Voice, frames int, buf []int16) int {
	if c.done.Load() {
		return 0
	}
	channels := v.Channels()
	need := frames * channels
	if cap(c.flt) < need {
		c.flt = make([]float32, need)
	}

	filled := 0
	for filled < need {
		n, err := c.src.ReadSamples(c.flt[filled:need])
		filled += n
		if err == io.EOF {
			c.done.Store(true)
			break
		}
		if err != nil || n == 0 {
			c.done.Store(true)
			break
		}
	}

	// Sources hand back whole samples; drop any torn trailing frame.
	got := filled / channels * channels
	utils.Float32ToInt16Buf(buf[:got], c.flt[:got])
	return got / channels
}

func (c *sourceCallback) RouteAudio16(frames, channels int, dt float64, busID int, in, out []int16) {
	copy(out, in)
}

func (c *sourceCallback) RouteAudio32(frames, channels int, dt float64, busID int, in, out []int32) {
	copy(out, in)
}

func (c *sourceCallback) RouteAudioFlt(frames, channels int, dt float64, busID int, in, out []float32) {
	copy(out, in)
}
