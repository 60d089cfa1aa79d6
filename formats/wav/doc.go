// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes 16-bit PCM RIFF WAVE streams.
//
// # Decoding
//
// The decoder walks the RIFF chunk list directly, so headers produced by
// other tools still parse: INFO or LIST chunks are skipped, odd-sized
// chunks are skipped together with their pad byte, and reading stops at
// the end of the data chunk even when more chunks follow. Only
// uncompressed 16-bit PCM is accepted.
//
//	decoder := wav.Decoder{}
//	f, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(f)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The returned audio.Source yields interleaved float32 samples on the
// [-1, 1) scale.
//
// # Encoding
//
// WriteWAV16 encodes through github.com/go-audio/wav. It takes interleaved
// int16 frames and an io.WriteSeeker; the encoder seeks back to patch
// chunk sizes once the sample count is known, so a plain io.Writer is not
// enough.
//
//	f, _ := os.Create("output.wav")
//	err := wav.WriteWAV16(f, 48000, 2, mixdown)
//
// # Error Handling
//
// Decode failures are sentinel values and compare with errors.Is:
//   - ErrNotWavFile: the input is not a RIFF WAVE stream
//   - ErrOnlyPCM16bitSupported: sample format other than 16-bit PCM
//   - ErrUnsupportedWavLayout: malformed fmt chunk or data before fmt
//   - ErrUnsupportedWavChunks: the chunk list ends without a data chunk
//
// WriteWAV16 reports ErrUnsupportedWavLayout when the sample rate, channel
// count, or frame alignment is unusable.
package wav
