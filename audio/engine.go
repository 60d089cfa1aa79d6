// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MixInfo describes the engine's output: sample rate, mix arithmetic, and
// the ordered role layout of the interleaved output buffer. Backends size
// and interpret their hardware buffers from it.
type MixInfo struct {
	SampleRate   int
	Format       SampleFormat
	Channels     ChannelSet
	ChannelMap   ChannelMap
	PeriodFrames int
}

// Config parameterizes a new Engine. The zero value mixes 16 bit stereo at
// 48000 Hz with a 15 ms nominal period and no logging.
type Config struct {
	// SampleRate is the output rate in Hz. 0 means 48000.
	SampleRate int
	// Format selects the mix arithmetic backends should drive.
	Format SampleFormat
	// Channels selects the speaker layout.
	Channels ChannelSet
	// PeriodFrames is the nominal hardware period, advisory for backends.
	// 0 means three level ramp lengths (15 ms).
	PeriodFrames int
	// Logger receives engine diagnostics. nil means no logging.
	Logger *zap.Logger
}

// Engine owns the voice and submix sets, the shared scratch buffers they mix
// through, and the rendezvous between the hardware callback and the client.
//
// One mutex guards all engine state. Pumping holds it for a whole period and
// processes voices sequentially, so the shared scratch has one writer at a
// time and a control call never observes a half mixed period. Scratch and
// merge buffers grow to the largest period seen and are then reused, so
// steady state pumping does not allocate.
type Engine struct {
	log *zap.Logger

	mu sync.Mutex

	mixInfo      MixInfo
	fiveMsFrames int

	voices   []*Voice
	submixes []*Submix
	master   *Submix
	nextBus  int

	// submixesDirty forces a drain order rebuild at the next pump;
	// routingChanged is the copy backends poll to mirror the graph.
	submixesDirty  bool
	routingChanged bool
	drainOrder     []*Submix

	// shared scratch: client input landing, resampled output, and routed
	// output, per mix format
	inBuf      []int16
	preBuf16   []int16
	postBuf16  []int16
	preBuf32   []int32
	postBuf32  []int32
	preBufFlt  []float32
	postBufFlt []float32

	// retrace rendezvous: capacity 1 token channels standing in for the
	// enter and leave signals, plus the state flags they move
	enterCh   chan struct{}
	leaveCh   chan struct{}
	waitTimer *time.Timer
	inRetrace bool
	inCb      bool
	cbRunning bool
}

// NewEngine builds an engine with its master submix at bus 0.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.SampleRate < 0 {
		return nil, ErrInvalidSampleRate
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	fiveMs := cfg.SampleRate * 5 / 1000
	if cfg.PeriodFrames <= 0 {
		cfg.PeriodFrames = 3 * fiveMs
	}

	e := &Engine{
		log: cfg.Logger,
		mixInfo: MixInfo{
			SampleRate:   cfg.SampleRate,
			Format:       cfg.Format,
			Channels:     cfg.Channels,
			ChannelMap:   DefaultChannelMap(cfg.Channels),
			PeriodFrames: cfg.PeriodFrames,
		},
		fiveMsFrames: fiveMs,
		enterCh:      make(chan struct{}, 1),
		leaveCh:      make(chan struct{}, 1),
		cbRunning:    true,
	}
	e.waitTimer = time.NewTimer(time.Hour)
	e.waitTimer.Stop()

	e.master = &Submix{root: e, bound: true}
	e.submixes = append(e.submixes, e.master)
	e.markSubmixesDirtyLocked()

	e.log.Debug("audio engine initialized",
		zap.Int("sampleRate", cfg.SampleRate),
		zap.Stringer("format", cfg.Format),
		zap.Stringer("channels", cfg.Channels),
		zap.Int("periodFrames", cfg.PeriodFrames))
	return e, nil
}

// MixInfo reports the engine's output description.
func (e *Engine) MixInfo() MixInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mixInfo
}

// Master returns the master submix, bus 0.
func (e *Engine) Master() *Submix { return e.master }

// NewVoice binds a client callback as a voice pulling sampleRate Hz input
// with 1 or 2 channels. The voice is created stopped and routes to the
// master submix until levels are assigned. With dynamicPitch the conversion
// ratio can be retargeted at runtime through SetPitchRatio.
func (e *Engine) NewVoice(cb VoiceCallback, sampleRate, channels int, dynamicPitch bool) (*Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cbRunning {
		return nil, ErrEngineClosed
	}
	v := &Voice{
		root:          e,
		cb:            cb,
		channels:      channels,
		rateIn:        sampleRate,
		dynamicPitch:  dynamicPitch,
		pitch:         1.0,
		bound:         true,
		defaultMatrix: NewChannelMatrix(channels),
	}
	rs, err := newResampler(v.pullInput, channels, sampleRate, e.mixInfo.SampleRate)
	if err != nil {
		return nil, err
	}
	v.rs = rs
	e.voices = append(e.voices, v)
	return v, nil
}

// NewMonoVoice is NewVoice for a single channel input.
func (e *Engine) NewMonoVoice(cb VoiceCallback, sampleRate int, dynamicPitch bool) (*Voice, error) {
	return e.NewVoice(cb, sampleRate, 1, dynamicPitch)
}

// NewStereoVoice is NewVoice for a two channel input.
func (e *Engine) NewStereoVoice(cb VoiceCallback, sampleRate int, dynamicPitch bool) (*Voice, error) {
	return e.NewVoice(cb, sampleRate, 2, dynamicPitch)
}

// NewSubmix adds an accumulation bus draining into parent, or into the
// master submix when parent is nil.
func (e *Engine) NewSubmix(parent *Submix) (*Submix, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cbRunning {
		return nil, ErrEngineClosed
	}
	if parent == nil {
		parent = e.master
	}
	e.nextBus++
	s := &Submix{root: e, parent: parent, busID: e.nextBus, bound: true}
	e.submixes = append(e.submixes, s)
	e.markSubmixesDirtyLocked()
	return s, nil
}

// markSubmixesDirtyLocked flags a routing change for both the internal drain
// order rebuild and the backend-visible SubmixesDirty poll.
func (e *Engine) markSubmixesDirtyLocked() {
	e.submixesDirty = true
	e.routingChanged = true
}

// SubmixesDirty reports whether any voice's routing or the submix set has
// changed since the last ClearSubmixesDirty. Backends that mirror the mix
// graph poll it between periods.
func (e *Engine) SubmixesDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.routingChanged
}

// ClearSubmixesDirty acknowledges a routing change observed through
// SubmixesDirty.
func (e *Engine) ClearSubmixesDirty() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routingChanged = false
}

func (e *Engine) removeVoiceLocked(v *Voice) {
	kept := e.voices[:0]
	for _, x := range e.voices {
		if x != v {
			kept = append(kept, x)
		}
	}
	e.voices = kept
}

// destroyAllLocked unbinds every voice and every non-master submix at
// engine teardown. Unbound voices never pump again; the master stays so
// later raw pumps still have a (silent) output bus.
func (e *Engine) destroyAllLocked() {
	for _, v := range e.voices {
		v.bound = false
		v.running = false
		v.sends = nil
	}
	e.voices = nil
	for _, s := range e.submixes {
		if s != e.master {
			s.bound = false
			s.parent = nil
		}
	}
	e.submixes = append(e.submixes[:0], e.master)
	e.markSubmixesDirtyLocked()
}

func (e *Engine) removeSubmixLocked(s *Submix) {
	kept := e.submixes[:0]
	for _, x := range e.submixes {
		if x != s {
			kept = append(kept, x)
		}
	}
	e.submixes = kept
	e.markSubmixesDirtyLocked()
}

func (e *Engine) scratchIn(n int) []int16 {
	if cap(e.inBuf) < n {
		e.inBuf = make([]int16, n)
	}
	e.inBuf = e.inBuf[:n]
	return e.inBuf
}

func (e *Engine) scratchPre16(n int) []int16 {
	if cap(e.preBuf16) < n {
		e.preBuf16 = make([]int16, n)
	}
	e.preBuf16 = e.preBuf16[:n]
	return e.preBuf16
}

func (e *Engine) scratchPost16(n int) []int16 {
	if cap(e.postBuf16) < n {
		e.postBuf16 = make([]int16, n)
	}
	e.postBuf16 = e.postBuf16[:n]
	return e.postBuf16
}

func (e *Engine) scratchPre32(n int) []int32 {
	if cap(e.preBuf32) < n {
		e.preBuf32 = make([]int32, n)
	}
	e.preBuf32 = e.preBuf32[:n]
	return e.preBuf32
}

func (e *Engine) scratchPost32(n int) []int32 {
	if cap(e.postBuf32) < n {
		e.postBuf32 = make([]int32, n)
	}
	e.postBuf32 = e.postBuf32[:n]
	return e.postBuf32
}

func (e *Engine) scratchPreFlt(n int) []float32 {
	if cap(e.preBufFlt) < n {
		e.preBufFlt = make([]float32, n)
	}
	e.preBufFlt = e.preBufFlt[:n]
	return e.preBufFlt
}

func (e *Engine) scratchPostFlt(n int) []float32 {
	if cap(e.postBufFlt) < n {
		e.postBufFlt = make([]float32, n)
	}
	e.postBufFlt = e.postBufFlt[:n]
	return e.postBufFlt
}

// rebuildDrainOrder recomputes submix depths and orders drains deepest
// first, so every child contributes before its parent drains onward.
func (e *Engine) rebuildDrainOrder() {
	for _, s := range e.submixes {
		d := 0
		for p := s.parent; p != nil; p = p.parent {
			d++
		}
		s.depth = d
	}
	e.drainOrder = e.drainOrder[:0]
	e.drainOrder = append(e.drainOrder, e.submixes...)
	sort.SliceStable(e.drainOrder, func(i, j int) bool {
		return e.drainOrder[i].depth > e.drainOrder[j].depth
	})
	e.submixesDirty = false
}

func (e *Engine) pump16(dst []int16) {
	frames := len(dst) / e.mixInfo.ChannelMap.Count
	if e.submixesDirty {
		e.rebuildDrainOrder()
	}
	for _, s := range e.submixes {
		s.clear16(frames)
	}
	for _, v := range e.voices {
		if v.running {
			v.pumpAndMix16(frames)
		}
	}
	for _, s := range e.drainOrder {
		s.drain16(frames)
	}
	copy(dst, e.master.mergeBuf16(frames))
}

func (e *Engine) pump32(dst []int32) {
	frames := len(dst) / e.mixInfo.ChannelMap.Count
	if e.submixesDirty {
		e.rebuildDrainOrder()
	}
	for _, s := range e.submixes {
		s.clear32(frames)
	}
	for _, v := range e.voices {
		if v.running {
			v.pumpAndMix32(frames)
		}
	}
	for _, s := range e.drainOrder {
		s.drain32(frames)
	}
	copy(dst, e.master.mergeBuf32(frames))
}

func (e *Engine) pumpFlt(dst []float32) {
	frames := len(dst) / e.mixInfo.ChannelMap.Count
	if e.submixesDirty {
		e.rebuildDrainOrder()
	}
	for _, s := range e.submixes {
		s.clearFlt(frames)
	}
	for _, v := range e.voices {
		if v.running {
			v.pumpAndMixFlt(frames)
		}
	}
	for _, s := range e.drainOrder {
		s.drainFlt(frames)
	}
	copy(dst, e.master.mergeBufFlt(frames))
}

// PumpAndMixVoices16 mixes one period directly into dst, bypassing the
// retrace rendezvous. len(dst) must be a multiple of the channel count; the
// period is len(dst) divided by it. Offline rendering and tests drive this;
// hardware backends go through RenderPeriod16 instead.
func (e *Engine) PumpAndMixVoices16(dst []int16) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(dst)%e.mixInfo.ChannelMap.Count != 0 {
		return ErrInvalidDstSize
	}
	e.pump16(dst)
	return nil
}

// PumpAndMixVoices32 is PumpAndMixVoices16 for the int32 mix format.
func (e *Engine) PumpAndMixVoices32(dst []int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(dst)%e.mixInfo.ChannelMap.Count != 0 {
		return ErrInvalidDstSize
	}
	e.pump32(dst)
	return nil
}

// PumpAndMixVoicesFlt is PumpAndMixVoices16 for the float mix format.
func (e *Engine) PumpAndMixVoicesFlt(dst []float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(dst)%e.mixInfo.ChannelMap.Count != 0 {
		return ErrInvalidDstSize
	}
	e.pumpFlt(dst)
	return nil
}
