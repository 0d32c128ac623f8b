// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/logger"
)

// EnvPrefix is the prefix of environment overrides, e.g. AUDMIX_ENGINE_VOLUME.
const EnvPrefix = "AUDMIX"

// Config holds all configuration for the application
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// EngineConfig holds mixing engine settings
type EngineConfig struct {
	Port          int           `mapstructure:"port" yaml:"port"`
	Pins          audio.Pins    `mapstructure:"pins" yaml:"pins"`
	BuiltinDAC    bool          `mapstructure:"builtin_dac" yaml:"builtin_dac"`
	Volume        int           `mapstructure:"volume" yaml:"volume"`
	BufferSamples int           `mapstructure:"buffer_samples" yaml:"buffer_samples"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	Yield         time.Duration `mapstructure:"yield" yaml:"yield"`
	StopTimeout   time.Duration `mapstructure:"stop_timeout" yaml:"stop_timeout"`
}

// StorageConfig holds where assets are read from
type StorageConfig struct {
	Root    string   `mapstructure:"root" yaml:"root"`
	Preload []string `mapstructure:"preload" yaml:"preload"`
}

// OutputConfig selects the peripheral
type OutputConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"` // device or wav
	WAVPath    string `mapstructure:"wav_path" yaml:"wav_path"`
	QueueDepth int    `mapstructure:"queue_depth" yaml:"queue_depth"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // json or text
}

const (
	BackendDevice = "device"
	BackendWAV    = "wav"
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	def := engine.DefaultConfig()

	v.SetDefault("engine.port", def.Port)
	v.SetDefault("engine.pins.bck", def.Pins.BCK)
	v.SetDefault("engine.pins.ws", def.Pins.WS)
	v.SetDefault("engine.pins.data", def.Pins.Data)
	v.SetDefault("engine.builtin_dac", def.BuiltinConverter)
	v.SetDefault("engine.volume", int(def.MasterVolume))
	v.SetDefault("engine.buffer_samples", def.BufferSamples)
	v.SetDefault("engine.write_timeout", def.WriteTimeout)
	v.SetDefault("engine.yield", def.Yield)
	v.SetDefault("engine.stop_timeout", def.StopTimeout)
	v.SetDefault("storage.root", ".")
	v.SetDefault("storage.preload", []string{})
	v.SetDefault("output.backend", BackendDevice)
	v.SetDefault("output.wav_path", "audmix.wav")
	v.SetDefault("output.queue_depth", 8)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads configuration into a Config. When file is empty the usual
// locations are searched and a missing file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("audmix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.audmix")
		v.AddConfigPath("/etc/audmix")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Info("Using config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads configuration through the global viper instance, which
// is where command line flags are bound.
func LoadConfig(file string) (*Config, error) {
	return Load(viper.GetViper(), file)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch {
	case c.Engine.Port < 0:
		return &ConfigError{Field: "engine.port", Message: "must not be negative"}
	case c.Engine.Volume < 0 || c.Engine.Volume > engine.MaxVolume:
		return &ConfigError{Field: "engine.volume", Message: fmt.Sprintf("must be between 0 and %d", engine.MaxVolume)}
	case c.Engine.BufferSamples <= 0:
		return &ConfigError{Field: "engine.buffer_samples", Message: "must be positive"}
	case c.Engine.WriteTimeout <= 0:
		return &ConfigError{Field: "engine.write_timeout", Message: "must be positive"}
	case c.Engine.Yield < 0:
		return &ConfigError{Field: "engine.yield", Message: "must not be negative"}
	case c.Storage.Root == "":
		return &ConfigError{Field: "storage.root", Message: "is required"}
	}

	switch c.Output.Backend {
	case BackendDevice:
	case BackendWAV:
		if c.Output.WAVPath == "" {
			return &ConfigError{Field: "output.wav_path", Message: "is required for the wav backend"}
		}
	default:
		return &ConfigError{Field: "output.backend", Message: fmt.Sprintf("unknown backend %q", c.Output.Backend)}
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		return &ConfigError{Field: "logging.format", Message: "must be text or json"}
	}

	return nil
}

// EngineOptions turns the engine section into engine options.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithConfig(engine.Config{
			Port:             c.Engine.Port,
			Pins:             c.Engine.Pins,
			BuiltinConverter: c.Engine.BuiltinDAC,
			MasterVolume:     uint8(c.Engine.Volume),
			BufferSamples:    c.Engine.BufferSamples,
			WriteTimeout:     c.Engine.WriteTimeout,
			Yield:            c.Engine.Yield,
			StopTimeout:      c.Engine.StopTimeout,
		}),
		engine.WithLogger(logger.WithComponent("engine")),
	}
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
