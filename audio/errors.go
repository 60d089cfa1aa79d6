// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidSampleRate reports a voice or engine rate that is zero or
	// negative. A voice cannot be half-built around a broken resampler.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// ErrInvalidChannelCount reports a source channel count the mixer
	// cannot route (only mono and stereo voices exist).
	ErrInvalidChannelCount = errors.New("channel count must be 1 or 2")

	// ErrEngineClosed reports use of an engine after Close.
	ErrEngineClosed = errors.New("audio engine is closed")
)
