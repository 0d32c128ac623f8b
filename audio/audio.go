// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// ByteStream is an open asset of raw signed 8-bit mono PCM.
type ByteStream interface {
	// Available reports how many bytes can still be read before the end of the asset.
	Available() int
	// ReadByte returns the next sample byte, or io.EOF at the end of the asset.
	ReadByte() (byte, error)
	// Rewind moves the read position back to offset 0.
	Rewind() error
	// Name is the asset reference the stream was opened with.
	Name() string
	Close() error
}

// Storage opens named assets. A missing asset is reported as ErrAssetNotFound.
type Storage interface {
	Open(ref string) (ByteStream, error)
}

// Pins is the output pin triple of a serial audio peripheral.
type Pins struct {
	BCK  int `mapstructure:"bck" yaml:"bck"`
	WS   int `mapstructure:"ws" yaml:"ws"`
	Data int `mapstructure:"data" yaml:"data"`
}

// PeripheralConfig is what a Peripheral needs to know at install time.
type PeripheralConfig struct {
	Port             int
	Pins             Pins
	BuiltinConverter bool
	SampleRate       int
	BitsPerSample    int
	BufferBytes      int
}

// Peripheral is an audio output device fed with fully formatted frames.
type Peripheral interface {
	Install(cfg PeripheralConfig) error
	SetRouting(pins Pins) error
	// Flush silences whatever the device still holds.
	Flush() error
	// Write blocks up to timeout and returns how many bytes the device accepted.
	Write(p []byte, timeout time.Duration) (int, error)
	Uninstall() error
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeFormat(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[normalizeFormat(format)]
	return d, ok
}

// ForFile looks up a decoder by the extension of name.
func (r *Registry) ForFile(name string) (Decoder, bool) {
	ext := path.Ext(name)
	if ext == "" {
		return nil, false
	}
	return r.Get(ext)
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}
