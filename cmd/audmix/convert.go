// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/storage"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE...",
	Short: "Convert audio files into raw 8-bit assets",
	Long: `Convert decodes WAV, AIFF, MP3 and Ogg Vorbis files, downmixes them to mono,
resamples them to 22050 Hz and writes signed 8-bit .raw assets the engine can
play directly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("out-dir", "d", "", "directory for the .raw files (default next to each input)")
	convertCmd.Flags().Int("buffer", 4096, "decode buffer size in samples")
	convertCmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "files converted in parallel")
	rootCmd.AddCommand(convertCmd)
}

func converters() *audio.Registry {
	r := storage.DefaultRegistry()
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	return r
}

func runConvert(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("out-dir")
	bufSize, _ := cmd.Flags().GetInt("buffer")
	jobs, _ := cmd.Flags().GetInt("jobs")

	if _, err := setup(); err != nil {
		return err
	}

	fs := afero.NewOsFs()
	reg := converters()

	p := pool.New().WithErrors().WithMaxGoroutines(max(jobs, 1))
	for _, in := range args {
		out := rawName(in, dir)
		p.Go(func() error {
			n, err := convertFile(fs, reg, in, out, bufSize)
			if err != nil {
				return err
			}
			slog.Info("Converted asset", slog.String("input", in), slog.String("output", out), slog.Int("bytes", n))
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", in, out, n)
			return nil
		})
	}

	return p.Wait()
}

// convertFile writes in as a raw asset at out and returns its size.
func convertFile(fs afero.Fs, reg *audio.Registry, in, out string, bufSize int) (int, error) {
	dec, ok := reg.ForFile(in)
	if !ok {
		return 0, fmt.Errorf("%s: %w (known: %s)", in, audio.ErrUnknownFormat, strings.Join(reg.Formats(), ", "))
	}

	f, err := fs.Open(in)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", in, err)
	}
	defer src.Close()

	pcm, err := audmix.ConvertToPCM8(src, engine.SampleRate, bufSize)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", in, err)
	}

	if err := afero.WriteFile(fs, out, pcm, 0o644); err != nil {
		return 0, err
	}

	return len(pcm), nil
}

func rawName(in, dir string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".raw"
	if dir == "" {
		return filepath.Join(filepath.Dir(in), base)
	}
	return filepath.Join(dir, base)
}
