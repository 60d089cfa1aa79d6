// SPDX-License-Identifier: EPL-2.0

// Package audiodev delivers a mixing engine's output somewhere useful.
//
// Backends own no mixing logic; they size themselves from the engine's
// MixInfo and drive its render or pump entries. The mixing core stays
// identical whether the destination is a sound card, a file, or a packet
// stream.
//
// # Backends
//
//   - Device: realtime playback through miniaudio (github.com/gen2brain/malgo).
//     The hardware data callback calls the engine's RenderPeriod entry, which
//     honors the retrace rendezvous.
//   - OtoPlayer: pull-based realtime playback through github.com/ebitengine/oto.
//     An alternative for environments where miniaudio is unavailable.
//   - WAVRenderer: offline rendering into a 16-bit PCM WAV file.
//   - OpusStream: 20 ms Opus packets for network voice transports.
//
// # Realtime Playback
//
//	engine, _ := audio.NewEngine(audio.Config{SampleRate: 48000})
//	dev, err := audiodev.NewDevice(engine, logger)
//	if err != nil {
//	    // no audio hardware, fall back to offline rendering
//	}
//	dev.Start()
//	defer dev.Close()
//
//	// Lock a simulation loop to the audio clock:
//	go engine.Retrace()
//
// Once the device is started its data callback fires once per hardware
// period on miniaudio's thread. The engine emits silence for any period the
// client misses; the callback itself never blocks longer than one period.
//
// # Offline Rendering
//
//	r := audiodev.NewWAVRenderer(engine, nil)
//	f, _ := os.Create("mix.wav")
//	err := r.Render(f, 200) // 200 periods
//
// # Opus Streaming
//
//	stream, err := audiodev.NewOpusStream(engine, 64000, send, nil)
//	err = stream.StreamPeriods(50) // one second at 20 ms per packet
//
// The emit function receives each encoded packet; packet memory is reused
// between calls, so implementations that queue packets must copy.
//
// All constructors take a *zap.Logger; nil disables logging.
package audiodev
