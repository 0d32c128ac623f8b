// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"go.uber.org/atomic"

	"github.com/ik5/audmix/audio"
)

// command is a mode change published by the control surface. Asset and mode
// travel together so the engine never sees one without the other.
type command struct {
	mode     Mode
	asset    string
	setAsset bool
	// reset closes any open stream before the command is applied.
	reset bool
}

// channel is one playback slot. The atomics are shared with the control
// surface; everything below them belongs to the engine goroutine.
type channel struct {
	pending atomic.Pointer[command]
	gain    atomic.Uint32
	pitch   atomic.Float32

	state   atomic.Uint32
	current atomic.String

	mode   Mode
	next   Mode // request waiting for the open asset to end, Stopped if none
	ref    string
	stream audio.ByteStream
	acc    float32
	buf    []int8
}

// submit publishes cmd, replacing any command the engine has not picked up
// yet. A pending stop survives a following play or loop as a reset, and a
// pending asset survives a following mode-only command.
func (c *channel) submit(cmd command) {
	for {
		prev := c.pending.Load()
		next := cmd
		if prev != nil && next.mode != Stopped && (prev.reset || prev.mode == Stopped) {
			next.reset = true
		}
		if prev != nil && prev.setAsset && !next.setAsset {
			next.asset, next.setAsset = prev.asset, true
		}
		if c.pending.CompareAndSwap(prev, &next) {
			return
		}
	}
}

// observedMode is what callers see: a pending request wins over the last
// state the engine published.
func (c *channel) observedMode() Mode {
	if cmd := c.pending.Load(); cmd != nil {
		return cmd.mode
	}
	return Mode(c.state.Load())
}

// publish exposes the steady state. While a switch waits, the asset still
// playing is reported, not the one queued behind it.
func (c *channel) publish() {
	ref := c.ref
	if c.stream != nil {
		ref = c.stream.Name()
	}
	c.state.Store(uint32(c.mode))
	c.current.Store(ref)
}
