// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"time"

	"go.uber.org/zap"
)

// The retrace rendezvous couples the hardware callback to the client's own
// pacing. The callback and the client each block at most one period on the
// token channels below; the inRetrace, inCb, and cbRunning flags, guarded by
// the engine mutex, decide who releases whom. The callback never blocks past
// one period's worth of time: on timeout it ships silence, because a dropped
// period is recoverable and a stalled hardware thread is not.

func (e *Engine) signalEnter() {
	select {
	case e.enterCh <- struct{}{}:
	default:
	}
}

func (e *Engine) signalLeave() {
	select {
	case e.leaveCh <- struct{}{}:
	default:
	}
}

// renderEnter runs the callback side of the rendezvous and reports whether
// this period should pump. Outside a retrace the callback waits up to one
// period for the client and gives up with a silent period. Called with mu
// held, returns with mu held; the wait itself releases the lock so client
// control calls can land between periods.
func (e *Engine) renderEnter(frames int) bool {
	e.inCb = true
	if e.inRetrace {
		return true
	}

	d := time.Duration(frames) * time.Second / time.Duration(e.mixInfo.SampleRate)
	e.waitTimer.Reset(d)
	e.mu.Unlock()
	timedOut := false
	select {
	case <-e.enterCh:
	case <-e.waitTimer.C:
		timedOut = true
	}
	e.mu.Lock()
	e.waitTimer.Stop()

	if timedOut {
		e.log.Debug("render period deadline missed, emitting silence",
			zap.Int("frames", frames))
		return false
	}
	// A wake without an active retrace is a lone WaitPeriod kick or a
	// stale token; either way the period is silent.
	return e.inRetrace
}

// RenderPeriod16 is the hardware callback entry for the int16 mix format.
// The backend calls it once per period with its interleaved output buffer;
// the engine fills it with one pumped period, or with silence when the
// client misses the rendezvous or the engine is closed. len(dst) must be a
// multiple of the channel count.
func (e *Engine) RenderPeriod16(dst []int16) {
	e.mu.Lock()
	if !e.cbRunning {
		e.mu.Unlock()
		clear(dst)
		return
	}
	if e.renderEnter(len(dst) / e.mixInfo.ChannelMap.Count) {
		e.pump16(dst)
	} else {
		clear(dst)
	}
	e.signalLeave()
	e.inCb = false
	e.mu.Unlock()
}

// RenderPeriod32 is RenderPeriod16 for the int32 mix format.
func (e *Engine) RenderPeriod32(dst []int32) {
	e.mu.Lock()
	if !e.cbRunning {
		e.mu.Unlock()
		clear(dst)
		return
	}
	if e.renderEnter(len(dst) / e.mixInfo.ChannelMap.Count) {
		e.pump32(dst)
	} else {
		clear(dst)
	}
	e.signalLeave()
	e.inCb = false
	e.mu.Unlock()
}

// RenderPeriodFlt is RenderPeriod16 for the float mix format.
func (e *Engine) RenderPeriodFlt(dst []float32) {
	e.mu.Lock()
	if !e.cbRunning {
		e.mu.Unlock()
		clear(dst)
		return
	}
	if e.renderEnter(len(dst) / e.mixInfo.ChannelMap.Count) {
		e.pumpFlt(dst)
	} else {
		clear(dst)
	}
	e.signalLeave()
	e.inCb = false
	e.mu.Unlock()
}

// WaitPeriod releases a callback currently blocked on the rendezvous and
// waits for it to finish its period. It paces the caller against the
// hardware clock but the released period is silent; it is temperamental
// when the callback is not already waiting, in which case it returns
// immediately. Retrace is the recommended way to drive synchronized audio.
func (e *Engine) WaitPeriod() error {
	e.mu.Lock()
	if !e.cbRunning {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if e.inCb {
		// A period that finished with nobody waiting leaves its token
		// parked in the channel. Drop it so the receive below waits for
		// the period kicked here, not a past one.
		select {
		case <-e.leaveCh:
		default:
		}
		e.signalEnter()
		e.mu.Unlock()
		<-e.leaveCh
		e.mu.Lock()
	}
	e.mu.Unlock()
	return nil
}

// Retrace locks the calling goroutine to the hardware clock: every callback
// period pumps real audio and wakes this loop once, until RetraceBreak or
// Close releases it. One client goroutine may retrace at a time.
func (e *Engine) Retrace() error {
	e.mu.Lock()
	if !e.cbRunning {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	e.inRetrace = true
	for e.inRetrace {
		if e.inCb {
			e.signalEnter()
		}
		e.mu.Unlock()
		<-e.leaveCh
		e.mu.Lock()
	}
	e.mu.Unlock()
	return nil
}

// RetraceBreak ends an active retrace, releasing whichever side is blocked.
// Safe to call from any goroutine, including with no retrace active.
func (e *Engine) RetraceBreak() {
	e.mu.Lock()
	e.inRetrace = false
	if e.inCb {
		e.signalEnter()
	} else {
		e.signalLeave()
	}
	e.mu.Unlock()
}

// Close disables the callback entries, which thereafter emit silence,
// releases any blocked waiter on either side, and destroys every voice and
// submix the engine owns. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cbRunning {
		return nil
	}
	e.cbRunning = false
	e.inRetrace = false
	if e.inCb {
		e.signalEnter()
	}
	e.signalLeave()
	e.destroyAllLocked()
	e.log.Debug("audio engine closed")
	return nil
}
