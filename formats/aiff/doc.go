// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files. AIFF is
// the container the original sound effect banks were authored in, so both
// 8-bit and 16-bit PCM are accepted.
//
// # Decoding AIFF Files
//
//	decoder := aiff.Decoder{}
//	file, _ := os.Open("engine.aif")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source with interleaved float32 samples in
// [-1.0, 1.0]. An 8-bit sample v becomes v/128 exactly, so converting it
// back with utils.Float32ToInt8 is lossless.
//
// # Errors
//
//   - ErrNotAiffFile: the input is not an AIFF container
//   - ErrUnsupportedBitDepth: sample width other than 8 or 16 bits
//   - ErrUnsupportedAiffLayout: no usable format information
//
// AIFF-C (compressed) files are not supported.
package aiff
