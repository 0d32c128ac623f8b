// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/audmix/audio"
)

// checkConfig rejects anything but the 16-bit mono stream the engine emits.
func checkConfig(cfg audio.PeripheralConfig) error {
	if cfg.BitsPerSample != 16 || cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: %d bits at %d Hz", ErrUnsupportedFrame, cfg.BitsPerSample, cfg.SampleRate)
	}
	return nil
}

// sample decodes the i-th sample of a formatted frame. The built-in
// converter layout carries an offset binary high byte only.
func sample(p []byte, i int, builtin bool) int16 {
	if builtin {
		return int16(uint16(p[2*i+1])<<8 ^ 0x8000)
	}
	return int16(binary.LittleEndian.Uint16(p[2*i:]))
}

// toSigned rewrites a frame as little-endian signed 16-bit into dst.
func toSigned(dst, p []byte, builtin bool) []byte {
	dst = append(dst[:0], p...)
	if !builtin {
		return dst
	}
	for i := 0; i < len(p)/2; i++ {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(sample(p, i, true)))
	}
	return dst
}
