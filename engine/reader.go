// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audmix/audio"

// readPitched fills dst from s at a speed between 1x (pitch 0) and 2x
// (pitch 1). Every slot takes one byte; whenever the accumulator reaches 1
// a second byte is read over it, so that source byte is skipped.
//
// The number of slots attempted is the available byte count reduced by the
// expected skips, capped at len(dst). If that estimate does not exceed
// len(dst) the asset is reported as exhausted for this cycle.
func readPitched(dst []int8, s audio.ByteStream, pitch float32, acc *float32) (n int, exhausted bool) {
	avail := s.Available()
	want := int(float32(avail) - float32(avail)*pitch/2)
	exhausted = true
	if want > len(dst) {
		want = len(dst)
		exhausted = false
	}

	for n = 0; n < want; n++ {
		b, err := s.ReadByte()
		if err != nil {
			return n, true
		}
		dst[n] = int8(b)

		*acc += pitch
		if *acc >= 1 {
			*acc--
			if b, err = s.ReadByte(); err == nil {
				dst[n] = int8(b)
			}
		}
	}

	return n, exhausted
}
