// SPDX-License-Identifier: EPL-2.0

// Package audio holds the contracts shared by the engine, its storage and
// its outputs, plus the float sample pipeline used to prepare assets.
//
// # Engine Contracts
//
// The mixing engine talks to the outside world through three interfaces:
//
//   - ByteStream: an open asset of raw signed 8-bit mono PCM, read one byte
//     at a time, with Available, Rewind and Close.
//   - Storage: opens a ByteStream by reference. Missing assets wrap
//     ErrAssetNotFound.
//   - Peripheral: the output device. It is installed with a
//     PeripheralConfig, routed to a Pins triple, flushed, then fed one
//     formatted frame per cycle through a Write with a timeout.
//
// # Source Interface
//
// Decoders produce a Source of interleaved float32 samples in [-1.0, 1.0]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Sources chain into pipelines. ReadSamples returns io.EOF once the stream
// is finished, possibly together with the last samples.
//
// # Resampling
//
// The Resampler converts the sample rate with Catmull-Rom interpolation,
// low-pass filtering first when it downsamples:
//
//	resampler := audio.NewResampler(source, 22050)
//
// # Channel Mixing
//
// The MonoMixer averages each frame down to one channel:
//
//	mono := audio.NewMonoMixer(resampler)
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.ForFile("horn.WAV")
//
// Keys are case-insensitive and a leading dot is ignored.
package audio
