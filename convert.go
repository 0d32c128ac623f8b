package audmix

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// ConvertToPCM8 turns any decoded source into a raw engine asset: mono,
// rate Hz, one signed 8-bit sample per byte.
//
// The pipeline is resample (skipped when the rates already match), then
// mono downmix, then 8-bit quantisation. Sources that already hold 8-bit
// mono samples at rate come out byte for byte.
//
// Example:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	raw, err := audmix.ConvertToPCM8(src, engine.SampleRate, 4096)
func ConvertToPCM8(src audio.Source, rate int, bufferSize int) ([]byte, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("invalid target rate %d", rate)
	}
	if bufferSize <= 0 {
		bufferSize = src.BufSize()
	}

	stage := src
	if src.SampleRate() != rate {
		stage = audio.NewResampler(src, rate)
	}
	mono := audio.NewMonoMixer(stage)

	out := make([]byte, 0, rate)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		for _, x := range buf[:n] {
			out = append(out, byte(utils.Float32ToInt8(x)))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("converting to 8-bit pcm: %w", err)
		}
	}

	return out, nil
}
