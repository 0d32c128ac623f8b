// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding for asset preparation.
//
// This package uses github.com/jfreymuth/oggvorbis. It is only used by the
// offline converter: the mixing engine never decodes compressed audio, so
// effects delivered as .ogg are converted to raw signed 8-bit PCM first.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	pcm, err := audmix.ConvertToPCM8(src, engine.SampleRate, 4096)
//
// Samples are interleaved float32 in [-1.0, 1.0]. ReadSamples only reads
// whole frames.
package vorbis
