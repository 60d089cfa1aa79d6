package audio

import "fmt"

// MonoMixer wraps a Source and averages its channels down to one. Voices
// accept one or two input channels, so sources with wider layouts go through
// a MonoMixer before they can feed a voice.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames := n / channels

	switch channels {
	case 2:
		for f := 0; f < frames; f++ {
			dst[f] = (m.tmp[2*f] + m.tmp[2*f+1]) * 0.5
		}
	case 4:
		for f := 0; f < frames; f++ {
			i := 4 * f
			dst[f] = (m.tmp[i] + m.tmp[i+1] + m.tmp[i+2] + m.tmp[i+3]) * 0.25
		}
	default:
		inv := 1 / float32(channels)
		for f := 0; f < frames; f++ {
			sum := float32(0)
			for c := 0; c < channels; c++ {
				sum += m.tmp[f*channels+c]
			}
			dst[f] = sum * inv
		}
	}
	return frames, err
}
