// SPDX-License-Identifier: EPL-2.0

// Package output provides audio.Peripheral implementations.
//
// Device plays through the host sound card with ebitengine/oto. The engine
// writes into a short bounded queue and oto's player drains it from its own
// goroutine; when the queue is full a write waits up to its timeout and
// then comes back short. Build with the headless tag to leave oto out, in
// which case Device refuses to install.
//
// WAVFile records every frame into a 16-bit mono WAV file on an afero
// filesystem, which makes offline rendering and golden tests possible.
//
// Both accept either frame layout the engine produces and convert the
// built-in converter layout back to signed samples.
package output
