// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic sources and voice callbacks shared
// by tests across the module.
package audiotest

import (
	"io"
	"math"

	"github.com/GarntS/boo/audio"
)

// MockSource generates float32 audio from a waveform function. It implements
// audio.Source.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame, channel int) float32
}

// NewMockSource creates a source producing totalFrames frames of waveform
// output.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource creates a source producing zeros.
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return 0.0
	})
}

// NewSineSource creates a source producing a full-scale sine at frequency Hz.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a source producing value on every channel.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the source so it can be read again.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}
	frames := len(dst) / m.channels
	if avail := m.totalFrames - m.generated; frames > avail {
		frames = avail
	}
	for fr := 0; fr < frames; fr++ {
		for ch := 0; ch < m.channels; ch++ {
			dst[fr*m.channels+ch] = m.waveform(m.generated+fr, ch)
		}
	}
	m.generated += frames
	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}

// PassRoute provides pass-through RouteAudio implementations for callbacks
// that do no per-bus processing. Embed it in test callbacks.
type PassRoute struct{}

func (PassRoute) RouteAudio16(frames, channels int, dt float64, busID int, in, out []int16) {
	copy(out, in)
}

func (PassRoute) RouteAudio32(frames, channels int, dt float64, busID int, in, out []int32) {
	copy(out, in)
}

func (PassRoute) RouteAudioFlt(frames, channels int, dt float64, busID int, in, out []float32) {
	copy(out, in)
}

// ConstantVoice is an audio.VoiceCallback supplying Value on every channel
// forever.
type ConstantVoice struct {
	PassRoute
	Value int16
}

func (c *ConstantVoice) PreSupplyAudio(v *audio.Voice, dt float64) {}

func (c *ConstantVoice) SupplyAudio(v *audio.Voice, frames int, buf []int16) int {
	for i := range buf {
		buf[i] = c.Value
	}
	return frames
}

// SineVoice is an audio.VoiceCallback supplying an Amplitude-scaled sine at
// Freq Hz, generated at Rate and phase-continuous across periods.
type SineVoice struct {
	PassRoute
	Rate      int
	Freq      float64
	Amplitude int16

	pos int
}

func (s *SineVoice) PreSupplyAudio(v *audio.Voice, dt float64) {}

func (s *SineVoice) SupplyAudio(v *audio.Voice, frames int, buf []int16) int {
	ch := v.Channels()
	for f := 0; f < frames; f++ {
		t := float64(s.pos+f) / float64(s.Rate)
		sample := int16(float64(s.Amplitude) * math.Sin(2*math.Pi*s.Freq*t))
		for c := 0; c < ch; c++ {
			buf[f*ch+c] = sample
		}
	}
	s.pos += frames
	return frames
}
