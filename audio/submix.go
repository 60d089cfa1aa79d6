// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/GarntS/boo/utils"
)

// Submix is an accumulation bus. Voices route into it through per-send
// channel matrices, and sibling submixes may drain into it, all additively
// within one period. Every submix except the master has a parent it drains
// into after its own content is complete; the engine orders drains children
// before parents so a parent never mixes stale data. The master submix sits
// at bus 0 and its buffer becomes the period's hardware output.
//
// Merge buffers grow to the largest period seen and are never shrunk, so
// steady-state pumping does not allocate.
type Submix struct {
	root   *Engine
	parent *Submix
	busID  int
	// depth is the distance from the master bus, maintained by the
	// engine's routing-graph rebuild and used to order drains.
	depth int

	buf16  []int16
	buf32  []int32
	bufFlt []float32

	bound bool
}

// BusID reports the bus identifier handed to RouteAudio when a voice routes
// into this submix. The master submix is always bus 0.
func (s *Submix) BusID() int { return s.busID }

// Parent returns the submix this bus drains into, or nil for the master.
func (s *Submix) Parent() *Submix {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	return s.parent
}

func (s *Submix) chanCount() int { return s.root.mixInfo.ChannelMap.Count }

// mergeBuf16 returns the accumulation buffer for a frames-long period,
// growing it if this period is the largest yet. Callers accumulate into the
// returned slice; it is zeroed once per period by clear16, not here.
func (s *Submix) mergeBuf16(frames int) []int16 {
	n := frames * s.chanCount()
	if cap(s.buf16) < n {
		s.buf16 = make([]int16, n)
	}
	s.buf16 = s.buf16[:n]
	return s.buf16
}

func (s *Submix) mergeBuf32(frames int) []int32 {
	n := frames * s.chanCount()
	if cap(s.buf32) < n {
		s.buf32 = make([]int32, n)
	}
	s.buf32 = s.buf32[:n]
	return s.buf32
}

func (s *Submix) mergeBufFlt(frames int) []float32 {
	n := frames * s.chanCount()
	if cap(s.bufFlt) < n {
		s.bufFlt = make([]float32, n)
	}
	s.bufFlt = s.bufFlt[:n]
	return s.bufFlt
}

func (s *Submix) clear16(frames int) { clear(s.mergeBuf16(frames)) }
func (s *Submix) clear32(frames int) { clear(s.mergeBuf32(frames)) }
func (s *Submix) clearFlt(frames int) { clear(s.mergeBufFlt(frames)) }

// drain16 adds this submix's period content into its parent, saturating at
// the int16 range. The master submix has no parent and drains nowhere.
func (s *Submix) drain16(frames int) {
	if s.parent == nil {
		return
	}
	dst := s.parent.mergeBuf16(frames)
	src := s.mergeBuf16(frames)
	for i := range src {
		dst[i] = utils.ClampInt16(int32(dst[i]) + int32(src[i]))
	}
}

func (s *Submix) drain32(frames int) {
	if s.parent == nil {
		return
	}
	dst := s.parent.mergeBuf32(frames)
	src := s.mergeBuf32(frames)
	for i := range src {
		dst[i] = utils.ClampInt32(int64(dst[i]) + int64(src[i]))
	}
}

func (s *Submix) drainFlt(frames int) {
	if s.parent == nil {
		return
	}
	dst := s.parent.mergeBufFlt(frames)
	src := s.mergeBufFlt(frames)
	for i := range src {
		dst[i] += src[i]
	}
}

// Destroy removes the submix from the engine. Child submixes are reparented
// onto this submix's parent and any voice sends targeting this bus are
// dropped. Destroying the master submix is a no-op, as is a second Destroy.
func (s *Submix) Destroy() {
	e := s.root
	e.mu.Lock()
	defer e.mu.Unlock()
	if !s.bound || s.parent == nil {
		return
	}
	for _, c := range e.submixes {
		if c.parent == s {
			c.parent = s.parent
		}
	}
	for _, v := range e.voices {
		v.removeSendLocked(s)
	}
	e.removeSubmixLocked(s)
	s.bound = false
}
