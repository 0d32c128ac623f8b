// SPDX-License-Identifier: EPL-2.0

// Command audmix drives the three channel mixing engine from the command
// line: live playback of scenes, offline rendering to WAV, and conversion of
// source audio into raw 8-bit assets.
package main

func main() {
	Execute()
}
