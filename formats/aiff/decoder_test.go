// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockAiffReader stands in for aiff.Decoder.
type mockAiffReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	readErr    error
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := len(buf.Data)
	if avail := len(m.samples) - m.offset; n > avail {
		n = avail
	}
	copy(buf.Data, m.samples[m.offset:m.offset+n])
	m.offset += n
	return n, nil
}

func mockAiffSource(rate, channels int, samples []int) (*source, *mockAiffReader) {
	m := &mockAiffReader{sampleRate: rate, channels: channels, samples: samples}
	return &source{dec: m, sampleRate: rate, channels: channels}, m
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader([]byte("This is not AIFF data")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader(nil))
	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestDecoder_PlainReader(t *testing.T) {
	t.Parallel()

	// A reader without Seek goes through the in-memory buffering path and
	// must still be rejected as non-AIFF, not crash.
	decoder := Decoder{}
	_, err := decoder.Decode(io.LimitReader(bytes.NewReader([]byte("FORMxxxx")), 8))
	if err == nil {
		t.Error("Decode() error = nil, want error for truncated data")
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src, _ := mockAiffSource(44100, 2, make([]int, 100))

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.BufSize() <= 0 {
		t.Errorf("BufSize() = %d, want positive value", src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src, _ := mockAiffSource(44100, 1, []int{0, 16384, -16384, 32767, -32768})

	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v, want nil or EOF", err)
	}
	if n != 5 {
		t.Errorf("ReadSamples() n = %d, want 5", n)
	}

	want := []float32{0.0, 0.5, -0.5, 0.999969482, -1.0}
	for i := 0; i < n; i++ {
		if dst[i] < want[i]-0.001 || dst[i] > want[i]+0.001 {
			t.Errorf("dst[%d] = %f, want ~%f", i, dst[i], want[i])
		}
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src, _ := mockAiffSource(44100, 2, make([]int, 100))

	n, err := src.ReadSamples(nil)
	if err != nil {
		t.Errorf("ReadSamples() error = %v, want nil", err)
	}
	if n != 0 {
		t.Errorf("ReadSamples() n = %d, want 0", n)
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src, _ := mockAiffSource(44100, 1, []int{100, 200})

	dst := make([]float32, 2)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Errorf("first ReadSamples() error = %v, want nil or io.EOF", err)
	}
	if n != 2 {
		t.Errorf("first ReadSamples() n = %d, want 2", n)
	}

	n, err = src.ReadSamples(dst)
	if err != io.EOF {
		t.Errorf("second ReadSamples() error = %v, want io.EOF", err)
	}
	if n != 0 {
		t.Errorf("second ReadSamples() n = %d, want 0", n)
	}
}

func TestSource_ReadSamples_ShortDecode(t *testing.T) {
	t.Parallel()

	// Asking for more than the sound data holds reports the tail along
	// with EOF.
	src, _ := mockAiffSource(44100, 1, []int{100, 200, 300})

	dst := make([]float32, 10)
	n, err := src.ReadSamples(dst)
	if err != io.EOF {
		t.Errorf("ReadSamples() error = %v, want io.EOF", err)
	}
	if n != 3 {
		t.Errorf("ReadSamples() n = %d, want 3", n)
	}
}

func TestSource_ReadSamples_MultipleReads(t *testing.T) {
	t.Parallel()

	const totalSamples = 1000
	samples := make([]int, totalSamples)
	for i := range samples {
		samples[i] = i * 10
	}
	src, _ := mockAiffSource(44100, 1, samples)

	dst := make([]float32, 256)
	totalRead := 0
	for {
		n, err := src.ReadSamples(dst)
		totalRead += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() unexpected error: %v", err)
		}
		if n == 0 {
			t.Fatal("ReadSamples() returned 0 samples without EOF")
		}
	}

	if totalRead != totalSamples {
		t.Errorf("total samples read = %d, want %d", totalRead, totalSamples)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src, m := mockAiffSource(44100, 1, []int{100, 200})
	m.readErr = io.ErrUnexpectedEOF

	_, err := src.ReadSamples(make([]float32, 10))
	if err == nil {
		t.Error("ReadSamples() error = nil, want wrapped decode error")
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 4096)
	for i := range samples {
		samples[i] = i * 4
	}
	src, m := mockAiffSource(44100, 2, samples)

	dst := make([]float32, 1024)

	b.ResetTimer()
	b.ReportAllocs()

	for bn := 0; bn < b.N; bn++ {
		m.offset = 0
		for {
			n, err := src.ReadSamples(dst)
			if err == io.EOF || n == 0 {
				break
			}
		}
	}
}
