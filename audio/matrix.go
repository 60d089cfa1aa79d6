// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/GarntS/boo/utils"
)

// ChannelMatrix maps a voice's source channels onto the eight speaker roles.
// Coefficients are destination-major: coefs[role][s] scales source channel s
// into whichever output slot carries that role. A voice holds one matrix per
// submix send, created on first level assignment and retained for the life of
// the send.
//
// Level changes may be slewed: the matrix walks each coefficient linearly
// from its value at the time of the change to the target over a fixed frame
// count, one step per mixed frame, and lands on the target exactly. This
// bounds any level discontinuity to a single linear step per frame.
type ChannelMatrix struct {
	coefs  [NumChannelRoles][2]float32
	origin [NumChannelRoles][2]float32
	target [NumChannelRoles][2]float32

	srcChans   int
	slewFrames int
	slewPos    int
}

// NewChannelMatrix returns an identity matrix for a source with srcChannels
// channels. Mono sources feed front left and front right at unity gain;
// stereo sources map left to front left and right to front right.
func NewChannelMatrix(srcChannels int) *ChannelMatrix {
	m := &ChannelMatrix{srcChans: srcChannels}
	if srcChannels == 1 {
		m.coefs[FrontLeft][0] = 1
		m.coefs[FrontRight][0] = 1
	} else {
		m.coefs[FrontLeft][0] = 1
		m.coefs[FrontRight][1] = 1
	}
	m.target = m.coefs
	return m
}

// SetCoefficients retargets the matrix. With slewFrames <= 0 the new
// coefficients take effect on the next mixed frame. Otherwise frame k of the
// following slewFrames frames mixes with origin + (target-origin)*k/slewFrames,
// where origin is the coefficient set current at the time of the call, so a
// retarget mid-slew ramps from wherever the previous ramp had reached.
func (m *ChannelMatrix) SetCoefficients(target [NumChannelRoles][2]float32, slewFrames int) {
	if slewFrames <= 0 {
		m.coefs = target
		m.target = target
		m.slewFrames = 0
		m.slewPos = 0
		return
	}
	m.origin = m.coefs
	m.target = target
	m.slewFrames = slewFrames
	m.slewPos = 0
}

// advance steps the slew by one frame. Called once per mixed frame before the
// frame's coefficients are read.
func (m *ChannelMatrix) advance() {
	if m.slewPos >= m.slewFrames {
		return
	}
	m.slewPos++
	if m.slewPos >= m.slewFrames {
		m.coefs = m.target
		m.slewFrames = 0
		m.slewPos = 0
		return
	}
	k := float32(m.slewPos) / float32(m.slewFrames)
	for d := range m.coefs {
		for s := range m.coefs[d] {
			m.coefs[d][s] = m.origin[d][s] + (m.target[d][s]-m.origin[d][s])*k
		}
	}
}

// Mix16 accumulates frames of src into dst, both interleaved, scaling each
// source channel by the destination role's coefficient. dst is laid out per
// mp; slots mapped to ChannelUnknown receive nothing. Accumulation saturates
// at the int16 range rather than wrapping.
func (m *ChannelMatrix) Mix16(mp *ChannelMap, dst, src []int16, frames int) {
	for f := 0; f < frames; f++ {
		m.advance()
		in := src[f*m.srcChans:]
		out := dst[f*mp.Count:]
		for c := 0; c < mp.Count; c++ {
			role := mp.Channels[c]
			if role == ChannelUnknown {
				continue
			}
			// float64 keeps the int64 conversion in range even for
			// absurd coefficients; the clamp pair saturates from there.
			var acc float64
			for s := 0; s < m.srcChans; s++ {
				acc += float64(in[s]) * float64(m.coefs[role][s])
			}
			out[c] = utils.ClampInt16(utils.ClampInt32(int64(out[c]) + int64(acc)))
		}
	}
}

// Mix32 is Mix16 for the int32 mix format.
func (m *ChannelMatrix) Mix32(mp *ChannelMap, dst, src []int32, frames int) {
	for f := 0; f < frames; f++ {
		m.advance()
		in := src[f*m.srcChans:]
		out := dst[f*mp.Count:]
		for c := 0; c < mp.Count; c++ {
			role := mp.Channels[c]
			if role == ChannelUnknown {
				continue
			}
			var acc float64
			for s := 0; s < m.srcChans; s++ {
				acc += float64(in[s]) * float64(m.coefs[role][s])
			}
			out[c] = utils.ClampInt32(int64(out[c]) + int64(acc))
		}
	}
}

// MixFlt is Mix16 for the float mix format. Float accumulation does not
// clamp; headroom is resolved when the master buffer is converted for output.
func (m *ChannelMatrix) MixFlt(mp *ChannelMap, dst, src []float32, frames int) {
	for f := 0; f < frames; f++ {
		m.advance()
		in := src[f*m.srcChans:]
		out := dst[f*mp.Count:]
		for c := 0; c < mp.Count; c++ {
			role := mp.Channels[c]
			if role == ChannelUnknown {
				continue
			}
			var acc float32
			for s := 0; s < m.srcChans; s++ {
				acc += in[s] * m.coefs[role][s]
			}
			out[c] += acc
		}
	}
}
