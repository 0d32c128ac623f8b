// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding.
//
// Decoding is done by github.com/go-audio/wav, which walks the RIFF chunk
// list to the data chunk instead of assuming a 44-byte header.
//
// # Supported Formats
//
//   - Uncompressed PCM, 8-bit (unsigned) and 16-bit (signed)
//   - Any channel count and sample rate
//
// # Decoding WAV Files
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("horn.wav")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Samples come back interleaved as float32 in [-1.0, 1.0].
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE file
//   - ErrNotPCM: the format tag is not PCM
//   - ErrUnsupportedBitDepth: sample width other than 8 or 16 bits
//   - ErrUnsupportedWavLayout: no data chunk or no usable format
//
// Writing WAV files is done by the output package, which records the
// engine's output through a go-audio/wav encoder.
package wav
