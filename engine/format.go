// SPDX-License-Identifier: EPL-2.0

package engine

import "encoding/binary"

// formatFrame lays mixed samples out as the peripheral expects them.
//
// External converters take little-endian 16-bit PCM. The built-in converter
// only uses the high byte of an unsigned sample, so the low byte is zero.
func formatFrame(dst []byte, mixed []int16, builtin bool) {
	if builtin {
		for i, s := range mixed {
			x := uint16(s) + 0x8000
			dst[2*i] = 0
			dst[2*i+1] = byte(x >> 8)
		}
		return
	}
	for i, s := range mixed {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(s))
	}
}
