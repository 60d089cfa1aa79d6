package audio

import (
	"io"
	"testing"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// fakeVoice implements VoiceCallback with a deterministic waveform and
// gain-scaled pass-through routing. remaining < 0 supplies forever.
type fakeVoice struct {
	waveform  func(frame, channel int) int16
	remaining int
	pos       int

	routeGain float32

	preCalls    int
	supplyCalls int
	routeCalls  int
	busIDs      []int
}

// newConstantVoice supplies value on every channel forever.
func newConstantVoice(value int16) *fakeVoice {
	return &fakeVoice{
		waveform:  func(frame, channel int) int16 { return value },
		remaining: -1,
		routeGain: 1,
	}
}

// newFiniteVoice supplies value for exactly frames frames, then runs dry.
func newFiniteVoice(value int16, frames int) *fakeVoice {
	f := newConstantVoice(value)
	f.remaining = frames
	return f
}

func (f *fakeVoice) PreSupplyAudio(v *Voice, dt float64) { f.preCalls++ }

func (f *fakeVoice) SupplyAudio(v *Voice, frames int, buf []int16) int {
	f.supplyCalls++
	n := frames
	if f.remaining >= 0 {
		if n > f.remaining {
			n = f.remaining
		}
		f.remaining -= n
	}
	ch := v.Channels()
	for fr := 0; fr < n; fr++ {
		for c := 0; c < ch; c++ {
			buf[fr*ch+c] = f.waveform(f.pos+fr, c)
		}
	}
	f.pos += n
	return n
}

func (f *fakeVoice) RouteAudio16(frames, channels int, dt float64, busID int, in, out []int16) {
	f.routeCalls++
	f.busIDs = append(f.busIDs, busID)
	for i := 0; i < frames*channels; i++ {
		out[i] = int16(f.routeGain * float32(in[i]))
	}
}

func (f *fakeVoice) RouteAudio32(frames, channels int, dt float64, busID int, in, out []int32) {
	f.routeCalls++
	f.busIDs = append(f.busIDs, busID)
	for i := 0; i < frames*channels; i++ {
		out[i] = int32(f.routeGain * float32(in[i]))
	}
}

func (f *fakeVoice) RouteAudioFlt(frames, channels int, dt float64, busID int, in, out []float32) {
	f.routeCalls++
	f.busIDs = append(f.busIDs, busID)
	for i := 0; i < frames*channels; i++ {
		out[i] = f.routeGain * in[i]
	}
}

// constantPull is an unlimited resampler input serving value on every
// channel from a reused buffer.
func constantPull(value int16, channels int) inputFunc {
	var buf []int16
	return func(frames int) []int16 {
		n := frames * channels
		if cap(buf) < n {
			buf = make([]int16, n)
		}
		buf = buf[:n]
		for i := range buf {
			buf[i] = value
		}
		return buf
	}
}

// slicePull serves data in order. maxPerCall > 0 caps each pull, forcing
// short returns even while data remains.
func slicePull(data []int16, channels, maxPerCall int) inputFunc {
	pos := 0
	return func(frames int) []int16 {
		if maxPerCall > 0 && frames > maxPerCall {
			frames = maxPerCall
		}
		avail := (len(data) - pos) / channels
		if frames > avail {
			frames = avail
		}
		out := data[pos : pos+frames*channels]
		pos += frames * channels
		return out
	}
}

// mockSource implements Source for decoder registry plumbing tests.
type mockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame, channel int) float32
}

func newMockSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

func newSilentSource(sampleRate, channels, totalFrames int) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return 0.0
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error    { return nil }

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
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
