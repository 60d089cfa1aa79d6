// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"go.uber.org/zap"
)

// send is one (submix, matrix) routing entry. The matrix is created on first
// level assignment and lives for the life of the send.
type send struct {
	submix *Submix
	matrix *ChannelMatrix
}

// Voice pulls dry PCM from a client callback, resamples it to the engine
// rate, and routes the result into submixes through per-send channel
// matrices. A voice with no explicit sends routes into the master submix
// through a default identity matrix owned by the voice.
//
// Control methods are safe to call from any goroutine. Pitch and sample rate
// changes are deferred and applied at the start of the next pump so a change
// never lands mid period.
type Voice struct {
	root     *Engine
	cb       VoiceCallback
	channels int
	rateIn   int

	// dynamicPitch is fixed at creation; without it SetPitchRatio is a
	// no-op and the conversion ratio is locked to the rate pair.
	dynamicPitch bool

	rs    *resampler
	pitch float64

	running bool
	silent  bool
	bound   bool

	// deferred controls, applied in midUpdate at pump start
	resetRate        int
	resetRatePending bool
	pitchTarget      float64
	pitchSlew        bool
	pitchPending     bool

	sends         []*send
	defaultMatrix *ChannelMatrix
}

// Channels reports the voice's source channel count, 1 or 2.
func (v *Voice) Channels() int { return v.channels }

// Running reports whether the voice is included in pumping.
func (v *Voice) Running() bool {
	v.root.mu.Lock()
	defer v.root.mu.Unlock()
	return v.running
}

// Start includes the voice in pumping. Idempotent.
func (v *Voice) Start() {
	v.root.mu.Lock()
	defer v.root.mu.Unlock()
	v.running = true
}

// Stop excludes the voice from pumping without releasing anything. The voice
// produces no audio until restarted.
func (v *Voice) Stop() {
	v.root.mu.Lock()
	defer v.root.mu.Unlock()
	v.running = false
}

// SetSilent switches the voice between pulling client audio and pulling
// zero filled input of the same length. Silence keeps the resampler walking
// at the exact frame cadence of real input, so unmuting never causes a seam.
func (v *Voice) SetSilent(silent bool) {
	v.root.mu.Lock()
	defer v.root.mu.Unlock()
	v.silent = silent
}

// SetPitchRatio retargets the playback ratio relative to the configured rate
// pair. The change applies at the start of the next pump; with slew it ramps
// over the engine's level ramp length instead of stepping. A voice created
// without dynamic pitch ignores the call.
func (v *Voice) SetPitchRatio(ratio float64, slew bool) {
	v.root.mu.Lock()
	defer v.root.mu.Unlock()
	if !v.dynamicPitch {
		return
	}
	v.pitchTarget = ratio
	v.pitchSlew = slew
	v.pitchPending = true
}

// ResetSampleRate rebuilds the voice's converter for a new input rate at the
// start of the next pump. The current pitch ratio carries over and is
// reapplied without slew.
func (v *Voice) ResetSampleRate(rate int) error {
	v.root.mu.Lock()
	defer v.root.mu.Unlock()
	if rate <= 0 {
		return ErrInvalidSampleRate
	}
	v.resetRate = rate
	v.resetRatePending = true
	return nil
}

// SetMonoChannelLevels assigns one gain per destination role for the send
// targeting smx, creating the send on first use. A nil smx targets the
// master submix. On a stereo voice the gains apply to both source channels.
// With slew the matrix ramps to the new gains over the engine's level ramp
// length.
func (v *Voice) SetMonoChannelLevels(smx *Submix, coefs [NumChannelRoles]float32, slew bool) {
	var target [NumChannelRoles][2]float32
	for d, c := range coefs {
		target[d][0] = c
		target[d][1] = c
	}
	v.setLevels(smx, target, slew)
}

// SetStereoChannelLevels assigns per source channel gains per destination
// role. On a mono voice only the left column is read.
func (v *Voice) SetStereoChannelLevels(smx *Submix, coefs [NumChannelRoles][2]float32, slew bool) {
	v.setLevels(smx, coefs, slew)
}

func (v *Voice) setLevels(smx *Submix, target [NumChannelRoles][2]float32, slew bool) {
	e := v.root
	e.mu.Lock()
	defer e.mu.Unlock()
	if smx == nil {
		smx = e.master
	}
	slewFrames := 0
	if slew {
		slewFrames = e.fiveMsFrames
	}
	for _, snd := range v.sends {
		if snd.submix == smx {
			snd.matrix.SetCoefficients(target, slewFrames)
			return
		}
	}
	snd := &send{submix: smx, matrix: NewChannelMatrix(v.channels)}
	snd.matrix.SetCoefficients(target, slewFrames)
	v.sends = append(v.sends, snd)
	e.markSubmixesDirtyLocked()
}

// ResetChannelLevels drops every send, returning the voice to default
// routing into the master submix.
func (v *Voice) ResetChannelLevels() {
	e := v.root
	e.mu.Lock()
	defer e.mu.Unlock()
	v.sends = v.sends[:0]
	e.markSubmixesDirtyLocked()
}

func (v *Voice) removeSendLocked(smx *Submix) {
	kept := v.sends[:0]
	for _, snd := range v.sends {
		if snd.submix != smx {
			kept = append(kept, snd)
		}
	}
	v.sends = kept
}

// Destroy unbinds the voice from the engine and drops its sends. Idempotent.
func (v *Voice) Destroy() {
	e := v.root
	e.mu.Lock()
	defer e.mu.Unlock()
	if !v.bound {
		return
	}
	v.bound = false
	v.running = false
	v.sends = nil
	e.removeVoiceLocked(v)
	e.markSubmixesDirtyLocked()
}

// pullInput is the converter's input callback. It lands client audio in the
// engine's shared scratch, or zero fills it when the voice is silent.
func (v *Voice) pullInput(frames int) []int16 {
	buf := v.root.scratchIn(frames * v.channels)
	if v.silent {
		clear(buf)
		return buf
	}
	got := v.cb.SupplyAudio(v, frames, buf)
	if got < 0 {
		got = 0
	} else if got > frames {
		got = frames
	}
	return buf[:got*v.channels]
}

// midUpdate applies deferred controls at the start of a pump. Rate resets
// run before pitch changes so a pitch retarget in the same period slews on
// the rebuilt converter.
func (v *Voice) midUpdate() {
	e := v.root
	if v.resetRatePending {
		v.resetRatePending = false
		rs, err := newResampler(v.pullInput, v.channels, v.resetRate, e.mixInfo.SampleRate)
		if err != nil {
			// A voice without a converter would break the mixing
			// contract for every send it feeds.
			e.log.Fatal("voice resampler rebuild failed",
				zap.Int("rate", v.resetRate),
				zap.Int("channels", v.channels),
				zap.Error(err))
		}
		v.rs = rs
		v.rateIn = v.resetRate
		if v.dynamicPitch {
			v.rs.setRatio(v.pitch*float64(v.rateIn)/float64(e.mixInfo.SampleRate), 0)
		}
	}
	if v.pitchPending {
		v.pitchPending = false
		v.pitch = v.pitchTarget
		slewFrames := 0
		if v.pitchSlew {
			slewFrames = e.fiveMsFrames
		}
		v.rs.setRatio(v.pitch*float64(v.rateIn)/float64(e.mixInfo.SampleRate), slewFrames)
	}
}

// pumpAndMix16 produces and routes one period of up to frames frames,
// returning the count produced. Runs on the pumping thread with the engine
// lock held.
func (v *Voice) pumpAndMix16(frames int) int {
	e := v.root
	dt := float64(frames) / float64(e.mixInfo.SampleRate)
	v.cb.PreSupplyAudio(v, dt)
	v.midUpdate()

	pre := e.scratchPre16(frames * v.channels)
	produced := v.rs.resample16(pre, frames)
	if produced == 0 {
		return 0
	}
	pre = pre[:produced*v.channels]
	post := e.scratchPost16(produced * v.channels)
	mp := &e.mixInfo.ChannelMap

	if len(v.sends) == 0 {
		v.cb.RouteAudio16(produced, v.channels, dt, e.master.busID, pre, post)
		v.defaultMatrix.Mix16(mp, e.master.mergeBuf16(frames), post, produced)
		return produced
	}
	for _, snd := range v.sends {
		v.cb.RouteAudio16(produced, v.channels, dt, snd.submix.busID, pre, post)
		snd.matrix.Mix16(mp, snd.submix.mergeBuf16(frames), post, produced)
	}
	return produced
}

// pumpAndMix32 is pumpAndMix16 for the int32 mix format.
func (v *Voice) pumpAndMix32(frames int) int {
	e := v.root
	dt := float64(frames) / float64(e.mixInfo.SampleRate)
	v.cb.PreSupplyAudio(v, dt)
	v.midUpdate()

	pre := e.scratchPre32(frames * v.channels)
	produced := v.rs.resample32(pre, frames)
	if produced == 0 {
		return 0
	}
	pre = pre[:produced*v.channels]
	post := e.scratchPost32(produced * v.channels)
	mp := &e.mixInfo.ChannelMap

	if len(v.sends) == 0 {
		v.cb.RouteAudio32(produced, v.channels, dt, e.master.busID, pre, post)
		v.defaultMatrix.Mix32(mp, e.master.mergeBuf32(frames), post, produced)
		return produced
	}
	for _, snd := range v.sends {
		v.cb.RouteAudio32(produced, v.channels, dt, snd.submix.busID, pre, post)
		snd.matrix.Mix32(mp, snd.submix.mergeBuf32(frames), post, produced)
	}
	return produced
}

// pumpAndMixFlt is pumpAndMix16 for the float mix format.
func (v *Voice) pumpAndMixFlt(frames int) int {
	e := v.root
	dt := float64(frames) / float64(e.mixInfo.SampleRate)
	v.cb.PreSupplyAudio(v, dt)
	v.midUpdate()

	pre := e.scratchPreFlt(frames * v.channels)
	produced := v.rs.resampleFlt(pre, frames)
	if produced == 0 {
		return 0
	}
	pre = pre[:produced*v.channels]
	post := e.scratchPostFlt(produced * v.channels)
	mp := &e.mixInfo.ChannelMap

	if len(v.sends) == 0 {
		v.cb.RouteAudioFlt(produced, v.channels, dt, e.master.busID, pre, post)
		v.defaultMatrix.MixFlt(mp, e.master.mergeBufFlt(frames), post, produced)
		return produced
	}
	for _, snd := range v.sends {
		v.cb.RouteAudioFlt(produced, v.channels, dt, snd.submix.busID, pre, post)
		snd.matrix.MixFlt(mp, snd.submix.mergeBufFlt(frames), post, produced)
	}
	return produced
}
