// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/logger"
	"github.com/ik5/audmix/output"
	"github.com/ik5/audmix/storage"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "audmix",
	Short: "A three channel 8-bit audio mixer",
	Long: `audmix mixes up to three raw 8-bit, 22050 Hz assets into a 16-bit output
stream. Each channel plays once, loops, brakes or drains, with its own gain
and playback speed.

Scenes are YAML scripts of timed channel commands. They can be played live on
the sound card or rendered offline into a WAV file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./audmix.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("root", ".", "directory asset references are resolved in")
	rootCmd.PersistentFlags().Int("volume", engine.MaxVolume, "master volume (0-255)")
	rootCmd.PersistentFlags().Bool("builtin-dac", false, "format output for the built-in converter")
	rootCmd.PersistentFlags().Int("buffer", engine.DefaultBufferSamples, "samples mixed per cycle")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	// Bind flags to viper
	viper.BindPFlag("storage.root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("engine.volume", rootCmd.PersistentFlags().Lookup("volume"))
	viper.BindPFlag("engine.builtin_dac", rootCmd.PersistentFlags().Lookup("builtin-dac"))
	viper.BindPFlag("engine.buffer_samples", rootCmd.PersistentFlags().Lookup("buffer"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig applies flags that override configuration values.
func initConfig() {
	if verbose {
		viper.Set("logging.level", "debug")
	}
}

// setup loads and validates configuration, then installs the logger.
func setup() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	return cfg, nil
}

// newStore opens the asset store and warms its cache.
func newStore(cfg *config.Config) (*storage.Store, error) {
	store := storage.NewOS(cfg.Storage.Root, storage.WithLogger(logger.WithComponent("storage")))

	if err := store.Preload(cfg.Storage.Preload...); err != nil {
		return nil, fmt.Errorf("failed to preload assets: %w", err)
	}

	return store, nil
}

// newPeripheral builds the output backend named by the configuration.
func newPeripheral(cfg *config.Config, fs afero.Fs) audio.Peripheral {
	if cfg.Output.Backend == config.BackendWAV {
		return output.NewWAVFile(fs, cfg.Output.WAVPath)
	}
	return output.NewDevice(cfg.Output.QueueDepth)
}
