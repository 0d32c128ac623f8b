// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding for asset preparation.
//
// This package uses github.com/hajimehoshi/go-mp3, which always produces
// 16-bit stereo. Like the vorbis package it only feeds the offline
// converter:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	pcm, err := audmix.ConvertToPCM8(src, engine.SampleRate, 4096)
package mp3
