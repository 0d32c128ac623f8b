// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/output"
)

var renderCmd = &cobra.Command{
	Use:   "render SCENE",
	Short: "Render a scene into a WAV file",
	Long: `Render mixes a scene as fast as possible into a 16-bit mono WAV file. Scene
steps land on the cycle that covers their time.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "WAV file to write (default output.wav_path)")
	renderCmd.Flags().Duration("tail", time.Second, "audio rendered after the last step")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("output")
	tail, _ := cmd.Flags().GetDuration("tail")

	cfg, err := setup()
	if err != nil {
		return err
	}
	if path == "" {
		path = cfg.Output.WAVPath
	}

	fs := afero.NewOsFs()
	sc, err := loadScene(fs, args[0])
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	out := output.NewWAVFile(fs, path)
	eng := engine.New(store, out, cfg.EngineOptions()...)

	cycle := eng.Config().CycleDuration()
	cycles := renderCycles(sc.Duration()+tail, cycle)

	var stepErr error
	err = eng.Render(cmd.Context(), cycles, func(i int) {
		from := time.Duration(i) * cycle
		stepErr = multierr.Append(stepErr, sc.Apply(eng, from, from+cycle))
	})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	for _, e := range multierr.Errors(stepErr) {
		slog.Warn("Scene step failed", slog.Any("error", e))
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(eng.Stats()))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d samples (%v)\n", path, out.Samples(),
		time.Duration(out.Samples())*time.Second/engine.SampleRate)

	return nil
}

// renderCycles is the number of cycles needed to cover d.
func renderCycles(d, cycle time.Duration) int {
	if cycle <= 0 {
		return 0
	}
	return int((d + cycle - 1) / cycle)
}
