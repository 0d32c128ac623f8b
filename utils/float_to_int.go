// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt8 scales a sample in [-1,1] to signed 8-bit PCM.
// Values that came from 8-bit PCM (v/128) convert back exactly.
func Float32ToInt8(x float32) int8 {
	v := x * 128
	if v >= math.MaxInt8 {
		return math.MaxInt8
	}
	if v <= math.MinInt8 {
		return math.MinInt8
	}
	return int8(v)
}

// Int8ToFloat32 is the inverse of Float32ToInt8.
func Int8ToFloat32(s int8) float32 {
	return float32(s) / 128
}

// SaturateInt16 clamps a wide intermediate to the int16 range.
func SaturateInt16(v int64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// ClampByte clamps v to 0..255.
func ClampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

// ClampUnit clamps x to [0,1]. NaN maps to 0.
func ClampUnit(x float32) float32 {
	if x != x || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
