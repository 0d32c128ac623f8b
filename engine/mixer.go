// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audmix/utils"

// mix sums the channel buffers into dst. Gain and volume are fractions of
// MaxVolume; at unity a signed 8-bit sample s lands as s<<8. The sum is kept
// in 64 bits and saturated to int16 only at the store.
func mix(dst []int16, bufs *[ChannelCount][]int8, gains *[ChannelCount]uint8, volume uint8) {
	const scale = MaxVolume * MaxVolume

	for i := range dst {
		var sum int64
		for c := range bufs {
			sum += int64(bufs[c][i]) * int64(gains[c])
		}
		dst[i] = utils.SaturateInt16((sum * int64(volume) << 8) / scale)
	}
}
