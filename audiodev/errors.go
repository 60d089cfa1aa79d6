// SPDX-License-Identifier: EPL-2.0

package audiodev

import "errors"

var (
	// ErrDeviceClosed reports use of a playback backend after Close.
	ErrDeviceClosed = errors.New("audio device is closed")

	// ErrInvalidPeriodCount reports a non-positive period count passed to
	// a renderer.
	ErrInvalidPeriodCount = errors.New("period count must be positive")

	// ErrOpusSampleRate reports an engine rate Opus cannot encode.
	ErrOpusSampleRate = errors.New("opus requires 8000, 12000, 16000, 24000, or 48000 Hz")

	// ErrOpusChannels reports an engine channel layout wider than the
	// stereo Opus supports.
	ErrOpusChannels = errors.New("opus supports mono or stereo only")
)
