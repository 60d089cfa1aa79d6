// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
)

// SampleFormat selects the arithmetic the engine mixes in. Integer formats
// accumulate with saturation; float accumulates directly. The format decides
// which PumpAndMixVoices entry a backend drives.
type SampleFormat int

const (
	// Format16 mixes in signed 16-bit integers.
	Format16 SampleFormat = iota
	// Format32 mixes in signed 32-bit integers (16-bit input scaled up).
	Format32
	// FormatFlt mixes in float32 on the [-1, 1) scale.
	FormatFlt
)

func (f SampleFormat) String() string {
	switch f {
	case Format16:
		return "int16"
	case Format32:
		return "int32"
	case FormatFlt:
		return "float32"
	}
	return "unknown"
}

// BytesPerSample reports the width of one interleaved sample.
func (f SampleFormat) BytesPerSample() int {
	if f == Format16 {
		return 2
	}
	return 4
}

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// VoiceCallback is the client surface a Voice pulls from during a pump. All
// methods run on the pumping thread with the engine lock held; they must not
// call back into Engine or Voice methods and must not block.
type VoiceCallback interface {
	// PreSupplyAudio runs once per pump before resampling starts. dt is
	// the span of the period in seconds (frames / output rate).
	PreSupplyAudio(v *Voice, dt float64)

	// SupplyAudio fills buf with up to frames frames of interleaved dry
	// int16 PCM at the voice's input rate (len(buf) == frames*channels)
	// and returns the frame count written. A short count ends production
	// for the current period; it is not an error and the voice resumes
	// pulling next period.
	SupplyAudio(v *Voice, frames int, buf []int16) int

	// RouteAudio16 is the last chance to transform one send's samples
	// before matrix mixing. in holds frames*channels resampled samples,
	// out must receive the same count; busID names the destination
	// submix. Implementations that do no processing copy in to out.
	RouteAudio16(frames, channels int, dt float64, busID int, in, out []int16)
	// RouteAudio32 is RouteAudio16 for the int32 mix format.
	RouteAudio32(frames, channels int, dt float64, busID int, in, out []int32)
	// RouteAudioFlt is RouteAudio16 for the float mix format.
	RouteAudioFlt(frames, channels int, dt float64, busID int, in, out []float32)
}
