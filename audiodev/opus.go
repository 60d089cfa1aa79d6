// SPDX-License-Identifier: EPL-2.0

package audiodev

import (
	"fmt"

	"go.uber.org/zap"
	"layeh.com/gopus"

	"github.com/GarntS/boo/audio"
)

// maxOpusPacket bounds one encoded packet; the recommended ceiling for a
// single Opus frame.
const maxOpusPacket = 4000

// opusEncoder is the slice of gopus.Encoder the stream needs; tests swap in
// their own.
type opusEncoder interface {
	Encode(pcm []int16, frameSize, maxBytes int) ([]byte, error)
	SetBitrate(rate int)
}

// EmitFunc receives one encoded packet per 20 ms frame. The packet buffer
// is reused; copy it before queuing.
type EmitFunc func(packet []byte) error

// OpusStream renders 20 ms engine periods and hands Opus packets to an
// emit function, the frame cadence voice transports expect. The stream
// drives the raw pump, so pacing is the caller's concern: call
// StreamPeriods from a ticker for live transmission, or in a tight loop
// for faster-than-realtime encoding.
type OpusStream struct {
	log  *zap.Logger
	e    *audio.Engine
	enc  opusEncoder
	emit EmitFunc

	frameLen int // frames per 20 ms packet, per channel
	pcm      []int16
}

// NewOpusStream builds a stream over e at the given bitrate in bits per
// second. The engine's sample rate must be one Opus supports and its
// channel layout mono or stereo.
func NewOpusStream(e *audio.Engine, bitrate int, emit EmitFunc, logger *zap.Logger) (*OpusStream, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info := e.MixInfo()

	switch info.SampleRate {
	case 8000, 12000, 16000, 24000, 48000:
	default:
		return nil, ErrOpusSampleRate
	}
	channels := info.ChannelMap.Count
	if channels > 2 {
		return nil, ErrOpusChannels
	}

	enc, err := gopus.NewEncoder(info.SampleRate, channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}
	enc.SetBitrate(bitrate)

	frameLen := info.SampleRate / 50
	s := &OpusStream{
		log:      logger,
		e:        e,
		enc:      enc,
		emit:     emit,
		frameLen: frameLen,
		pcm:      make([]int16, frameLen*channels),
	}
	logger.Info("opus stream opened",
		zap.Int("sampleRate", info.SampleRate),
		zap.Int("channels", channels),
		zap.Int("bitrate", bitrate),
		zap.Int("frameLen", frameLen))
	return s, nil
}

// FrameLen reports the frames rendered per packet (20 ms of audio).
func (s *OpusStream) FrameLen() int { return s.frameLen }

// SetBitrate retargets the encoder bitrate; takes effect on the next
// packet.
func (s *OpusStream) SetBitrate(bitrate int) { s.enc.SetBitrate(bitrate) }

// StreamPeriods renders and emits n packets of 20 ms each. It stops on the
// first emit or encode error.
func (s *OpusStream) StreamPeriods(n int) error {
	if n <= 0 {
		return ErrInvalidPeriodCount
	}
	for i := 0; i < n; i++ {
		if err := s.e.PumpAndMixVoices16(s.pcm); err != nil {
			return fmt.Errorf("pump opus frame %d: %w", i, err)
		}
		packet, err := s.enc.Encode(s.pcm, s.frameLen, maxOpusPacket)
		if err != nil {
			return fmt.Errorf("encode opus frame %d: %w", i, err)
		}
		if err := s.emit(packet); err != nil {
			return fmt.Errorf("emit opus frame %d: %w", i, err)
		}
	}
	return nil
}
