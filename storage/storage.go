// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/utils"
)

// SampleRate is the only rate decoded containers may have.
const SampleRate = 22050

// Store is an audio.Storage over an afero filesystem.
type Store struct {
	fs       afero.Fs
	registry *audio.Registry
	logger   *slog.Logger

	mu    sync.RWMutex
	cache map[string][]byte
}

var _ audio.Storage = (*Store)(nil)

type Option func(*Store)

// WithRegistry replaces the container decoders. A nil registry streams
// every file raw.
func WithRegistry(r *audio.Registry) Option {
	return func(s *Store) { s.registry = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// DefaultRegistry knows the uncompressed containers assets are authored in.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("wav", wav.Decoder{})
	return r
}

func New(fsys afero.Fs, opts ...Option) *Store {
	s := &Store{
		fs:       fsys,
		registry: DefaultRegistry(),
		logger:   slog.With("component", "storage"),
		cache:    make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOS returns a Store over the OS filesystem with references resolved
// below root.
func NewOS(root string, opts ...Option) *Store {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root), opts...)
}

// Open returns a stream over ref. Missing files wrap audio.ErrAssetNotFound.
func (s *Store) Open(ref string) (audio.ByteStream, error) {
	if data, ok := s.cached(ref); ok {
		return newMemStream(ref, data), nil
	}

	if s.decodes(ref) {
		data, err := s.decode(ref)
		if err != nil {
			return nil, err
		}
		s.store(ref, data)
		return newMemStream(ref, data), nil
	}

	f, err := s.fs.Open(ref)
	if err != nil {
		return nil, notFound(ref, err)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("stat %s: %w", ref, err), f.Close())
	}
	if info.IsDir() {
		return nil, multierr.Append(fmt.Errorf("%s: %w", ref, ErrIsDirectory), f.Close())
	}

	return &fileStream{
		name: ref,
		file: f,
		size: info.Size(),
		r:    bufio.NewReaderSize(f, 4096),
	}, nil
}

// Preload reads every ref into memory so later opens never touch the
// filesystem. All refs are attempted; the errors are combined.
func (s *Store) Preload(refs ...string) error {
	var err error
	for _, ref := range refs {
		data, lerr := s.load(ref)
		if lerr != nil {
			err = multierr.Append(err, lerr)
			continue
		}
		s.store(ref, data)
		s.logger.Debug("asset preloaded", slog.String("asset", ref), slog.Int("bytes", len(data)))
	}
	return err
}

// PreloadDir preloads every regular file below dir.
func (s *Store) PreloadDir(dir string) error {
	var refs []string
	err := afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			refs = append(refs, path)
		}
		return nil
	})
	if err != nil {
		return notFound(dir, err)
	}

	s.logger.Info("preloading assets", slog.String("dir", dir), slog.Int("files", len(refs)))
	return s.Preload(refs...)
}

// Cached reports whether ref is held in memory.
func (s *Store) Cached(ref string) bool {
	_, ok := s.cached(ref)
	return ok
}

// Evict drops ref from memory.
func (s *Store) Evict(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, ref)
}

func (s *Store) cached(ref string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.cache[ref]
	return data, ok
}

func (s *Store) store(ref string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[ref] = data
}

func (s *Store) decodes(ref string) bool {
	if s.registry == nil {
		return false
	}
	_, ok := s.registry.ForFile(ref)
	return ok
}

func (s *Store) load(ref string) ([]byte, error) {
	if s.decodes(ref) {
		return s.decode(ref)
	}
	data, err := afero.ReadFile(s.fs, ref)
	if err != nil {
		return nil, notFound(ref, err)
	}
	return data, nil
}

// decode turns a container into raw signed 8-bit bytes.
func (s *Store) decode(ref string) ([]byte, error) {
	dec, _ := s.registry.ForFile(ref)

	f, err := s.fs.Open(ref)
	if err != nil {
		return nil, notFound(ref, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ref, err)
	}
	defer src.Close()

	if src.Channels() != 1 || src.SampleRate() != SampleRate {
		return nil, fmt.Errorf("%s is %d Hz with %d channels: %w",
			ref, src.SampleRate(), src.Channels(), ErrUnsupportedAsset)
	}

	var out []byte
	buf := make([]float32, 4096)
	for {
		n, rerr := src.ReadSamples(buf)
		for _, x := range buf[:n] {
			out = append(out, byte(utils.Float32ToInt8(x)))
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("decoding %s: %w", ref, rerr)
		}
		if n == 0 {
			break
		}
	}

	s.logger.Debug("asset decoded", slog.String("asset", ref), slog.Int("bytes", len(out)))
	return out, nil
}

func notFound(ref string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", ref, audio.ErrAssetNotFound)
	}
	return fmt.Errorf("open %s: %w", ref, err)
}
