// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/GarntS/boo/utils"
)

// inputFunc pulls up to frames frames of interleaved dry int16 PCM from the
// client. The returned slice holds got*channels samples for some got <=
// frames; a short return ends production for the current period. The slice
// is only valid until the next pull.
type inputFunc func(frames int) []int16

// resampler converts a pulled int16 stream between sample rates using cubic
// interpolation over a four frame history window, with a one pole low pass
// engaged while downsampling. The conversion ratio may be retargeted at any
// time and slews linearly over a frame count so pitch bends do not click.
//
// Production is periodic: each resample call may stop short when the pull
// runs dry, and the carry buffer keeps any unconsumed input so the stream
// resumes without a seam on the next period.
type resampler struct {
	pull     inputFunc
	channels int
	rateIn   int
	rateOut  int

	// ratio is the current source frames consumed per output frame.
	ratio      float64
	slewOrigin float64
	slewTarget float64
	slewFrames int
	slewPos    int

	// History window for cubic interpolation.
	// hist[0] = t-1, hist[1] = t0, hist[2] = t+1, hist[3] = t+2
	hist   [4][2]float32
	primed bool

	// Position within [0,1) between hist[1] and hist[2].
	pos float64

	// carry holds pulled input not yet consumed. carryPos counts consumed
	// frames; chunk is the pull size for the period in progress.
	carry    []int16
	carryPos int
	chunk    int
	dry      bool

	filterState [2]float32
	filterAlpha float32
}

// newResampler builds a converter from rateIn to rateOut Hz at a unity pitch
// ratio. A non-positive rate or a channel count other than 1 or 2 is a
// construction failure; a voice left without a converter cannot mix.
func newResampler(pull inputFunc, channels, rateIn, rateOut int) (*resampler, error) {
	if rateIn <= 0 || rateOut <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if channels != 1 && channels != 2 {
		return nil, ErrInvalidChannelCount
	}
	return &resampler{
		pull:        pull,
		channels:    channels,
		rateIn:      rateIn,
		rateOut:     rateOut,
		ratio:       float64(rateIn) / float64(rateOut),
		filterAlpha: 0.5,
	}, nil
}

// setRatio retargets the conversion ratio. With slewFrames <= 0 the new
// ratio applies from the next output frame; otherwise it is reached linearly
// over slewFrames output frames, starting from the current ratio.
func (r *resampler) setRatio(ratio float64, slewFrames int) {
	if slewFrames <= 0 {
		r.ratio = ratio
		r.slewFrames = 0
		r.slewPos = 0
		return
	}
	r.slewOrigin = r.ratio
	r.slewTarget = ratio
	r.slewFrames = slewFrames
	r.slewPos = 0
}

// stepRatio advances the ratio slew by one output frame and returns the
// ratio to walk the stream by.
func (r *resampler) stepRatio() float64 {
	if r.slewPos >= r.slewFrames {
		return r.ratio
	}
	r.slewPos++
	if r.slewPos >= r.slewFrames {
		r.ratio = r.slewTarget
		r.slewFrames = 0
		r.slewPos = 0
		return r.ratio
	}
	r.ratio = r.slewOrigin + (r.slewTarget-r.slewOrigin)*float64(r.slewPos)/float64(r.slewFrames)
	return r.ratio
}

// input ensures at least frames unconsumed frames sit in the carry, pulling
// another chunk from the client when needed. Once a pull comes back short
// the period is dry and no further pulls happen until the next period.
func (r *resampler) input(frames int) bool {
	if len(r.carry)/r.channels-r.carryPos >= frames {
		return true
	}
	if r.dry {
		return false
	}
	rem := len(r.carry) - r.carryPos*r.channels
	copy(r.carry, r.carry[r.carryPos*r.channels:])
	r.carry = r.carry[:rem]
	r.carryPos = 0

	in := r.pull(r.chunk)
	got := len(in) / r.channels
	if got < r.chunk {
		r.dry = true
	}
	if got > 0 {
		r.carry = append(r.carry, in[:got*r.channels]...)
	}
	return len(r.carry)/r.channels >= frames
}

// consumeFrame moves the next carry frame into a history slot, low pass
// filtering it while the stream is being downsampled.
func (r *resampler) consumeFrame(slot int) {
	base := r.carryPos * r.channels
	for c := 0; c < r.channels; c++ {
		v := float32(r.carry[base+c])
		if r.ratio > 1.0 {
			v = r.filterAlpha*v + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = v
		}
		r.hist[slot][c] = v
	}
	r.carryPos++
}

// prime fills the history window from the head of the stream. Short input
// duplicates the last valid frame into the remaining slots, flattening
// interpolation at the stream head. The filter state is seeded with the
// first frame so downsampling does not ramp up from zero.
func (r *resampler) prime() bool {
	if !r.input(1) {
		return false
	}
	base := r.carryPos * r.channels
	for c := 0; c < r.channels; c++ {
		r.filterState[c] = float32(r.carry[base+c])
	}
	last := 0
	for i := 0; i < 4; i++ {
		if r.input(1) {
			r.consumeFrame(i)
			last = i
		} else {
			r.hist[i] = r.hist[last]
		}
	}
	r.primed = true
	return true
}

// advance shifts the history window forward by one source frame.
func (r *resampler) advance() bool {
	if !r.input(1) {
		return false
	}
	r.hist[0] = r.hist[1]
	r.hist[1] = r.hist[2]
	r.hist[2] = r.hist[3]
	r.consumeFrame(3)
	return true
}

// inputEstimate sizes the period's pull so one chunk normally covers the
// whole request, even while the ratio is slewing upward.
func (r *resampler) inputEstimate(frames int) int {
	ratio := r.ratio
	if r.slewPos < r.slewFrames && r.slewTarget > ratio {
		ratio = r.slewTarget
	}
	return int(float64(frames)*ratio) + 8
}

// begin opens a production period of at most frames output frames.
func (r *resampler) begin(frames int) bool {
	r.dry = false
	r.chunk = r.inputEstimate(frames)
	if !r.primed {
		return r.prime()
	}
	return true
}

// step produces one interpolated output frame into y, in int16 scale.
// Returns false when input is exhausted for the period; the walk position is
// left intact so the next period resumes exactly where this one stopped.
func (r *resampler) step(y *[2]float32) bool {
	for r.pos >= 1.0 {
		if !r.advance() {
			return false
		}
		r.pos -= 1.0
	}
	alpha := float32(r.pos)
	for c := 0; c < r.channels; c++ {
		y[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], alpha)
	}
	r.pos += r.stepRatio()
	return true
}

// resample16 produces up to frames output frames into dst as int16 and
// returns the count produced. dst must hold frames*channels samples.
func (r *resampler) resample16(dst []int16, frames int) int {
	if !r.begin(frames) {
		return 0
	}
	var y [2]float32
	produced := 0
	for produced < frames {
		if !r.step(&y) {
			break
		}
		base := produced * r.channels
		for c := 0; c < r.channels; c++ {
			dst[base+c] = utils.ClampInt16(int32(math.Round(float64(y[c]))))
		}
		produced++
	}
	return produced
}

// resample32 is resample16 widened to int32, scaling 16 bit input up to the
// full 32 bit range.
func (r *resampler) resample32(dst []int32, frames int) int {
	if !r.begin(frames) {
		return 0
	}
	var y [2]float32
	produced := 0
	for produced < frames {
		if !r.step(&y) {
			break
		}
		base := produced * r.channels
		for c := 0; c < r.channels; c++ {
			dst[base+c] = utils.ClampInt32(int64(math.Round(float64(y[c]) * 65536)))
		}
		produced++
	}
	return produced
}

// resampleFlt is resample16 emitting float32 on the [-1,1) scale.
func (r *resampler) resampleFlt(dst []float32, frames int) int {
	if !r.begin(frames) {
		return 0
	}
	var y [2]float32
	produced := 0
	for produced < frames {
		if !r.step(&y) {
			break
		}
		base := produced * r.channels
		for c := 0; c < r.channels; c++ {
			dst[base+c] = y[c] / 32768.0
		}
		produced++
	}
	return produced
}
