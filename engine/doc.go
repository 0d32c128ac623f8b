// SPDX-License-Identifier: EPL-2.0

// Package engine is a fixed three channel mixing engine for short signed
// 8-bit mono sound effects (engine loops, horns, ambience).
//
// Every cycle the engine fills one buffer per channel from its asset,
// mixes the three buffers with per-channel gain and a master volume, lays
// the result out for the output peripheral and performs one blocking write.
// The cycle repeats until the engine is stopped.
//
// # Channels
//
// Each channel is driven by commands that may be issued from any goroutine
// at any time:
//
//	eng.Loop(0, "/engine.raw") // loop until told otherwise
//	eng.SetPitch(0, 0.4)       // up to double speed at 1.0
//	eng.Out(0)                 // finish the current pass, then stop
//	eng.Play(1, "/horn.raw")   // play once
//
// A play or loop request on a channel that is already sounding does not
// cut the current asset: the new asset is opened when the current one ends.
// StopChannel closes the asset at the start of the next cycle. Brake mutes a
// channel but keeps its asset open so Run or Out can resume it.
//
// # Pitch
//
// Pitch is a speed control between 0 (normal) and 1 (double speed). It is
// implemented by skipping source samples, not by interpolation.
//
// # Configuration
//
// Output port, pins, converter type and master volume may only be changed
// before the first Start or Render; later calls are ignored.
package engine
