package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/GarntS/boo/audio"
	"github.com/GarntS/boo/utils"
)

const pcmFormatTag = 1

// readBufSamples is the preferred number of samples a caller should request
// per ReadSamples call.
const readBufSamples = 4096

type wavSource struct {
	r          io.Reader
	sampleRate int
	channels   int
	remaining  int64
	buf        []byte
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) BufSize() int    { return readBufSamples }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	want := int64(len(dst)) * 2
	if want > s.remaining {
		want = s.remaining
	}
	if int64(len(s.buf)) < want {
		s.buf = make([]byte, want)
	}
	n, err := io.ReadFull(s.r, s.buf[:want])
	samples := n / 2
	for i := 0; i < samples; i++ {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		// The payload ended short of what the data chunk promised. Hand
		// back whatever decoded and end the stream.
		s.remaining = 0
		if samples == 0 {
			return 0, io.EOF
		}
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("read pcm data: %w", err)
	}
	s.remaining -= int64(n)
	if s.remaining == 0 {
		return samples, io.EOF
	}
	return samples, nil
}

// Decoder reads 16-bit PCM RIFF WAVE streams.
type Decoder struct{}

// Decode parses the RIFF header and chunk list of r and returns a Source
// positioned at the start of the PCM payload. Chunks other than fmt and data
// are skipped, including odd-sized chunks with their pad byte.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	var riffHdr [12]byte
	if _, err := io.ReadFull(r, riffHdr[:]); err != nil {
		return nil, fmt.Errorf("read riff header: %w", err)
	}
	if string(riffHdr[0:4]) != "RIFF" || string(riffHdr[8:12]) != "WAVE" {
		return nil, ErrNotWavFile
	}

	var (
		haveFmt    bool
		channels   int
		sampleRate int
	)
	for {
		var chunkHdr [8]byte
		if _, err := io.ReadFull(r, chunkHdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// Chunk list ended without a data chunk.
				return nil, ErrUnsupportedWavChunks
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunkHdr[0:4])
		size := binary.LittleEndian.Uint32(chunkHdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 || size > 1<<16 {
				return nil, ErrUnsupportedWavLayout
			}
			body := make([]byte, size+size%2)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bits := int(binary.LittleEndian.Uint16(body[14:16]))
			if format != pcmFormatTag || bits != 16 {
				return nil, ErrOnlyPCM16bitSupported
			}
			if channels < 1 || sampleRate < 1 {
				return nil, ErrUnsupportedWavLayout
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, ErrUnsupportedWavLayout
			}
			return &wavSource{
				r:          r,
				sampleRate: sampleRate,
				channels:   channels,
				remaining:  int64(size),
				buf:        make([]byte, 2*readBufSamples),
			}, nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)+int64(size%2)); err != nil {
				return nil, fmt.Errorf("skip %q chunk: %w", id, err)
			}
		}
	}
}
