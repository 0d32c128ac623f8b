// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"log/slog"
	"time"

	"github.com/ik5/audmix/audio"
)

const (
	// ChannelCount is the fixed number of playback channels.
	ChannelCount = 3
	// SampleRate of assets and output, in Hz.
	SampleRate = 22050
	// MaxVolume is unity for both gain and master volume.
	MaxVolume = 255
	// DefaultGain is the gain a channel starts with.
	DefaultGain = 128

	DefaultBufferSamples = 512
	DefaultWriteTimeout  = 500 * time.Millisecond
	DefaultYield         = 10 * time.Millisecond
	DefaultStopTimeout   = 2 * time.Second
)

// DefaultPins is the pin triple used when none is configured.
var DefaultPins = audio.Pins{BCK: 26, WS: 25, Data: 22}

// Config is frozen by the first Start or Render.
type Config struct {
	Port             int
	Pins             audio.Pins
	BuiltinConverter bool
	MasterVolume     uint8
	BufferSamples    int
	WriteTimeout     time.Duration
	Yield            time.Duration
	StopTimeout      time.Duration
}

func DefaultConfig() Config {
	return Config{
		Pins:          DefaultPins,
		MasterVolume:  MaxVolume,
		BufferSamples: DefaultBufferSamples,
		WriteTimeout:  DefaultWriteTimeout,
		Yield:         DefaultYield,
		StopTimeout:   DefaultStopTimeout,
	}
}

// FrameBytes is the size of one formatted output write.
func (c Config) FrameBytes() int { return c.BufferSamples * 2 }

// CycleDuration is how much audio one cycle produces.
func (c Config) CycleDuration() time.Duration {
	return time.Duration(c.BufferSamples) * time.Second / SampleRate
}

func (c Config) peripheral() audio.PeripheralConfig {
	return audio.PeripheralConfig{
		Port:             c.Port,
		Pins:             c.Pins,
		BuiltinConverter: c.BuiltinConverter,
		SampleRate:       SampleRate,
		BitsPerSample:    16,
		BufferBytes:      c.FrameBytes(),
	}
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithConfig replaces the whole configuration. Zero durations and buffer
// sizes fall back to their defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		def := DefaultConfig()
		if cfg.BufferSamples <= 0 {
			cfg.BufferSamples = def.BufferSamples
		}
		if cfg.WriteTimeout <= 0 {
			cfg.WriteTimeout = def.WriteTimeout
		}
		if cfg.StopTimeout <= 0 {
			cfg.StopTimeout = def.StopTimeout
		}
		e.cfg = cfg
	}
}

func WithBufferSamples(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cfg.BufferSamples = n
		}
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(e *Engine) { e.cfg.WriteTimeout = d }
}

// WithYield sets the pause after every cycle. Zero disables it.
func WithYield(d time.Duration) Option {
	return func(e *Engine) { e.cfg.Yield = d }
}

func WithStopTimeout(d time.Duration) Option {
	return func(e *Engine) { e.cfg.StopTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
