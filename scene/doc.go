// SPDX-License-Identifier: EPL-2.0

// Package scene scripts the engine's control surface from YAML.
//
// A scene is a list of timed steps:
//
//	name: crossing
//	steps:
//	  - {at: 0s, do: loop, channel: 0, asset: /engine.raw}
//	  - {at: 1.5s, do: play, channel: 1, asset: /horn.raw}
//	  - {at: 2s, do: pitch, channel: 0, value: 0.4}
//	  - {at: 6s, do: out, channel: 0}
//
// Run plays a scene against the wall clock while the engine runs, and Apply
// feeds it window by window into an offline render.
package scene
