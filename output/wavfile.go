// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/ik5/audmix/audio"
)

// WAVFile records the engine output as a 16-bit mono WAV file. The file is
// created on Install and finalised on Uninstall; installing again replaces
// it.
type WAVFile struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	file    afero.File
	enc     *wav.Encoder
	buf     *goaudio.IntBuffer
	builtin bool
	samples int
}

var _ audio.Peripheral = (*WAVFile)(nil)

func NewWAVFile(fsys afero.Fs, path string) *WAVFile {
	return &WAVFile{
		fs:     fsys,
		path:   path,
		logger: slog.With("component", "output", "backend", "wav", "path", path),
	}
}

func (w *WAVFile) Install(cfg audio.PeripheralConfig) error {
	if err := checkConfig(cfg); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc != nil {
		return nil
	}

	f, err := w.fs.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.path, err)
	}

	w.file = f
	w.enc = wav.NewEncoder(f, cfg.SampleRate, 16, 1, 1)
	w.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: cfg.SampleRate},
		Data:           make([]int, 0, cfg.BufferBytes/2),
		SourceBitDepth: 16,
	}
	w.builtin = cfg.BuiltinConverter
	w.samples = 0
	return nil
}

func (w *WAVFile) SetRouting(audio.Pins) error { return nil }

// Flush has nothing to drop; frames are encoded as they arrive.
func (w *WAVFile) Flush() error { return nil }

func (w *WAVFile) Write(p []byte, _ time.Duration) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return 0, ErrNotInstalled
	}

	n := len(p) / 2
	w.buf.Data = w.buf.Data[:0]
	for i := 0; i < n; i++ {
		w.buf.Data = append(w.buf.Data, int(sample(p, i, w.builtin)))
	}
	if err := w.enc.Write(w.buf); err != nil {
		return 0, fmt.Errorf("encoding %s: %w", w.path, err)
	}
	w.samples += n
	return 2 * n, nil
}

func (w *WAVFile) Uninstall() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return nil
	}

	err := multierr.Append(w.enc.Close(), w.file.Close())
	w.logger.Info("recording finished", slog.Int("samples", w.samples))
	w.enc = nil
	w.file = nil
	return err
}

// Samples is the number of samples written since the last Install.
func (w *WAVFile) Samples() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.samples
}
