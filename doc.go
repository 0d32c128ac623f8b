// SPDX-License-Identifier: EPL-2.0

// Package audmix is a three channel real-time mixing engine for short sound
// effects, the kind a scale model or robot plays: an engine loop whose pitch
// follows the throttle, a horn, some ambience.
//
// Assets are raw mono signed 8-bit PCM at 22050 Hz. Each of the three
// channels streams one asset with its own gain and speed, the engine mixes
// them into 16-bit frames and writes them to an output peripheral.
//
// # Layout
//
//   - engine: channels, control surface, mixer and the cycle loop
//   - storage: opens assets from any afero filesystem, decoding AIFF and
//     WAV containers on the way in
//   - output: peripherals for a real sound card and for WAV files
//   - scene: timed command scripts in YAML
//   - formats/*: decoders used to prepare assets
//   - config, logger: the ambient configuration and logging setup
//
// # Preparing Assets
//
// The engine only reads raw 8-bit PCM. ConvertToPCM8 turns any decoded
// source into that layout:
//
//	src, _ := mp3.Decoder{}.Decode(file)
//	raw, err := audmix.ConvertToPCM8(src, engine.SampleRate, 4096)
//
// The audmix command does the same with "audmix convert".
//
// # Playing
//
//	eng := engine.New(storage.NewOS("/sd"), output.NewDevice(0))
//	if err := eng.Start(ctx); err != nil {
//	    return err
//	}
//	eng.Loop(0, "/engine.raw")
//	eng.SetPitch(0, 0.3)
//	eng.Play(1, "/horn.raw")
//
// All control methods are safe to call from any goroutine while the
// engine runs.
package audmix
