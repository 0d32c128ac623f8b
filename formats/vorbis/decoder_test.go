// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	err        error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	n := copy(buf, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"garbage": []byte("OggS but not really a vorbis stream"),
		"empty":   {},
	}

	for name, data := range tests {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("%s: Decode() error = nil, want error", name)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		dst      int
		wantN    int
	}{
		{name: "mono", channels: 1, dst: 5, wantN: 5},
		{name: "stereo whole frames", channels: 2, dst: 5, wantN: 4},
		{name: "shorter than a frame", channels: 2, dst: 1, wantN: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := &mockOggVorbisReader{
				sampleRate: 22050,
				channels:   tt.channels,
				samples:    []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3, 0.4, -0.4},
			}
			src := &source{dec: dec, sampleRate: 22050, channels: tt.channels}

			dst := make([]float32, tt.dst)
			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != tt.wantN {
				t.Errorf("n = %d, want %d", n, tt.wantN)
			}
			for i := 0; i < n; i++ {
				if dst[i] != dec.samples[i] {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], dec.samples[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{channels: 1, samples: []float32{0.5}}, channels: 1}
	buf := make([]float32, 4)

	if n, err := src.ReadSamples(buf); n != 1 || err != nil {
		t.Fatalf("first ReadSamples() = %d, %v", n, err)
	}
	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("second ReadSamples() = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad packet")
	src := &source{dec: &mockOggVorbisReader{channels: 1, err: boom}, channels: 1}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_BufSize(t *testing.T) {
	t.Parallel()

	for _, ch := range []int{1, 2, 3, 6} {
		src := &source{channels: ch}
		if got := src.BufSize(); got%ch != 0 || got == 0 {
			t.Errorf("BufSize() with %d channels = %d, want a whole number of frames", ch, got)
		}
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	dec := &mockOggVorbisReader{sampleRate: 44100, channels: 2, samples: make([]float32, 1<<16)}
	src := &source{dec: dec, sampleRate: 44100, channels: 2}
	buf := make([]float32, 4096)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if dec.offset >= len(dec.samples) {
			dec.offset = 0
		}
		_, _ = src.ReadSamples(buf)
	}
}
