// SPDX-License-Identifier: EPL-2.0

// Package boo is a real-time audio voice-mixing engine for Go applications.
//
// The core lives in the audio subpackage: an Engine owns a set of voices
// that pull dry int16 PCM from client callbacks, resamples each voice to
// the output rate with slewed variable-ratio conversion, and routes the
// result through per-voice channel matrices into a tree of submix buses
// rooted at a master submix. Backends in audiodev deliver the mixed output
// to hardware, to a WAV file, or to an Opus packet stream.
//
// This root package holds the high-level glue: adapting decoded audio files
// onto voices and rendering an engine offline.
//
// # Quick Start
//
// Decode a file, feed it to a voice, and render the mix to WAV:
//
//	engine, _ := audio.NewEngine(audio.Config{SampleRate: 48000})
//	defer engine.Close()
//
//	f, _ := os.Open("music.ogg")
//	src, _ := vorbis.Decoder{}.Decode(f)
//
//	voice, _ := boo.NewSourceVoice(engine, src, false)
//	voice.Start()
//
//	out, _ := os.Create("mix.wav")
//	boo.RenderWAV(engine, out, 100)
//
// # Live Playback
//
// For hardware output, hand the engine to a backend and drive periods from
// a retrace loop locked to the audio clock:
//
//	dev, _ := audiodev.NewDevice(engine, nil)
//	dev.Start()
//	go engine.Retrace()
//	// ... later
//	engine.RetraceBreak()
//	dev.Close()
//
// # Format Decoders
//
// Each format has its own decoder returning an audio.Source:
//
//	// WAV
//	src, _ := wav.Decoder{}.Decode(reader)
//
//	// MP3
//	src, _ := mp3.Decoder{}.Decode(reader)
//
//	// Ogg Vorbis
//	src, _ := vorbis.Decoder{}.Decode(reader)
//
//	// AIFF
//	src, _ := aiff.Decoder{}.Decode(reader)
//
// Sources plug into voices through NewSourceVoice, or into the offline
// conversion helper audio.ResampleToMono16.
//
// # Subpackages
//
//   - audio: engine, voices, submixes, channel matrices, resampler, retrace
//   - audiodev: miniaudio and oto playback, WAV rendering, Opus streaming
//   - formats/{wav,mp3,vorbis,aiff}: file decoders
//   - midi: MIDI port enumeration and IO
//   - utils: sample conversion helpers
//
// See the individual subpackages for detailed documentation.
package boo
