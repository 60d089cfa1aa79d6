// SPDX-License-Identifier: EPL-2.0

// Package audio implements a real-time voice mixing engine.
//
// The package is built from four cooperating pieces:
//   - Voice pulls dry PCM from a client callback and resamples it
//   - ChannelMatrix scales voice output into speaker roles with slewed gains
//   - Submix accumulates voices and other submixes into a bus tree
//   - Engine owns everything and renders one period at a time
//
// # Voices
//
// A voice is created against a VoiceCallback, the client surface that
// supplies dry int16 PCM and may post-process routed buffers:
//
//	voice, err := engine.NewVoice(cb, 22050, 1, true)
//	if err != nil {
//	    return err
//	}
//	voice.Start()
//
// Each voice owns a streaming sample rate converter from its input rate to
// the engine rate. Pitch and rate changes are deferred to the next period
// boundary and ramped, so control traffic never tears a period.
//
// # Routing
//
// Voices route into submixes through per-send channel matrices. A voice
// with no sends routes into the master submix with identity gains:
//
//	drums, _ := engine.NewSubmix(nil)
//	var gains [audio.NumChannelRoles]float32
//	gains[audio.FrontLeft] = 0.7
//	gains[audio.FrontRight] = 0.7
//	voice.SetMonoChannelLevels(drums, gains, true)
//
// Submixes drain child-first into their parents, and the master submix's
// buffer becomes the period's output.
//
// # Rendering
//
// A hardware backend drives the engine once per period from its output
// callback, choosing the entry matching MixInfo().Format:
//
//	engine.RenderPeriod16(deviceBuf)
//
// The client thread synchronizes with the hardware clock through the
// retrace pair: Retrace blocks the caller and pumps real audio every
// period until RetraceBreak. Without a retrace the callback waits up to
// one period for the client, then ships silence and moves on; the
// hardware thread is never stalled.
//
// Offline use skips the rendezvous entirely and calls PumpAndMixVoices16
// (or the 32 and Flt variants) directly.
//
// # Sample Formats
//
// The engine mixes in one of three formats:
//   - Format16: int16, saturating accumulation
//   - Format32: int32, 16 bit input scaled up, saturating accumulation
//   - FormatFlt: float32 on the [-1.0, 1.0] scale
//
// Client input is always int16; the engine converts during resampling.
//
// # Callback Contract
//
// VoiceCallback methods run on the rendering thread with the engine lock
// held. They must not block and must not call Engine, Voice, or Submix
// methods; doing so deadlocks the period. Control methods are safe from
// any other goroutine at any time.
//
// # Performance Considerations
//
// Steady-state rendering does not allocate. Scratch and merge buffers grow
// to the largest period seen and are reused; creating voices and submixes
// allocates, rendering does not. Keep per-period client work inside
// SupplyAudio bounded for the same reason the engine does: the hardware
// deadline is one period long.
//
// # Decoders
//
// The package also carries the Source and Decoder interfaces plus a
// Registry for format decoders, used by the formats subpackages to feed
// file audio into voices:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.Get("wav")
package audio
