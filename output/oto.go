//go:build !headless

// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/audio"
)

// oto allows a single context per process; it is created on first install
// and kept for the life of the program.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoRate int
	otoErr  error
)

func otoContext(rate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("opening sound device: %w", err)
			return
		}
		<-ready
		otoCtx, otoRate = ctx, rate
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != rate {
		return nil, fmt.Errorf("%w: %d Hz, want %d Hz", ErrRateMismatch, otoRate, rate)
	}
	return otoCtx, nil
}

// Device plays frames on the default sound card.
type Device struct {
	depth  int
	logger *slog.Logger

	mu      sync.Mutex
	player  *oto.Player
	q       *queue
	builtin bool
}

var _ audio.Peripheral = (*Device)(nil)

// NewDevice returns a device that queues up to depth frames. Zero uses
// DefaultQueueDepth.
func NewDevice(depth int) *Device {
	return &Device{
		depth:  depth,
		logger: slog.With("component", "output", "backend", "device"),
	}
}

func (d *Device) Install(cfg audio.PeripheralConfig) error {
	if err := checkConfig(cfg); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		return nil
	}

	ctx, err := otoContext(cfg.SampleRate)
	if err != nil {
		return err
	}

	d.q = newQueue(d.depth)
	d.builtin = cfg.BuiltinConverter
	d.player = ctx.NewPlayer(d.q)
	if cfg.BufferBytes > 0 {
		d.player.SetBufferSize(2 * cfg.BufferBytes)
	}
	d.player.Play()

	d.logger.Info("sound device opened",
		slog.Int("port", cfg.Port),
		slog.Int("sample_rate", cfg.SampleRate),
		slog.Bool("builtin_converter", cfg.BuiltinConverter))
	return nil
}

// SetRouting has nothing to route on a sound card.
func (d *Device) SetRouting(pins audio.Pins) error {
	d.logger.Debug("pin routing ignored", slog.Int("bck", pins.BCK), slog.Int("ws", pins.WS), slog.Int("data", pins.Data))
	return nil
}

func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.q == nil {
		return ErrNotInstalled
	}
	d.q.flush()
	return nil
}

func (d *Device) Write(p []byte, timeout time.Duration) (int, error) {
	d.mu.Lock()
	q := d.q
	if q == nil {
		d.mu.Unlock()
		return 0, ErrNotInstalled
	}
	frame := toSigned(make([]byte, 0, len(p)), p, d.builtin)
	d.mu.Unlock()

	return q.push(frame, timeout), nil
}

func (d *Device) Uninstall() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.logger.Info("sound device closed", slog.Int("underruns", d.q.Underruns()))
	d.player = nil
	d.q = nil
	return err
}
