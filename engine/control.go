// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/audmix/utils"
)

// ChannelStatus is a point-in-time view of one channel.
type ChannelStatus struct {
	Index int
	Mode  Mode
	Asset string
	Gain  uint8
	Pitch float32
}

func (e *Engine) channel(ch int) (*channel, error) {
	if ch < 0 || ch >= ChannelCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	return &e.channels[ch], nil
}

func (e *Engine) request(ch int, cmd command) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	c.submit(cmd)
	return nil
}

// Play plays ref once. If the channel is busy the current asset finishes
// first.
func (e *Engine) Play(ch int, ref string) error {
	return e.request(ch, command{mode: PlayRequested, asset: ref, setAsset: true})
}

// Loop plays ref repeatedly, switching at the end of the current asset.
func (e *Engine) Loop(ch int, ref string) error {
	return e.request(ch, command{mode: LoopRequested, asset: ref, setAsset: true})
}

// Run resumes looping the asset last given to the channel.
func (e *Engine) Run(ch int) error {
	return e.request(ch, command{mode: Running})
}

// Brake silences the channel without closing its asset.
func (e *Engine) Brake(ch int) error {
	return e.request(ch, command{mode: Braked})
}

// Out lets the channel finish its current asset and stop.
func (e *Engine) Out(ch int) error {
	return e.request(ch, command{mode: Draining})
}

// StopChannel silences the channel and closes its asset.
func (e *Engine) StopChannel(ch int) error {
	return e.request(ch, command{mode: Stopped})
}

// SetGain sets the channel gain, clamped to 0..255.
func (e *Engine) SetGain(ch, g int) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	c.gain.Store(uint32(clampGain(g)))
	return nil
}

// SetPitch sets the playback speed offset, clamped to 0..1 where 0 is
// normal speed and 1 is double speed.
func (e *Engine) SetPitch(ch int, p float32) error {
	c, err := e.channel(ch)
	if err != nil {
		return err
	}
	c.pitch.Store(utils.ClampUnit(p))
	return nil
}

// Mode returns the channel mode, including a request not yet picked up.
func (e *Engine) Mode(ch int) (Mode, error) {
	c, err := e.channel(ch)
	if err != nil {
		return Stopped, err
	}
	return c.observedMode(), nil
}

func (e *Engine) Gain(ch int) (uint8, error) {
	c, err := e.channel(ch)
	if err != nil {
		return 0, err
	}
	return uint8(c.gain.Load()), nil
}

func (e *Engine) Pitch(ch int) (float32, error) {
	c, err := e.channel(ch)
	if err != nil {
		return 0, err
	}
	return c.pitch.Load(), nil
}

// Snapshot reports every channel.
func (e *Engine) Snapshot() []ChannelStatus {
	out := make([]ChannelStatus, ChannelCount)
	for i := range e.channels {
		c := &e.channels[i]
		asset := c.current.Load()
		if cmd := c.pending.Load(); cmd != nil && cmd.setAsset {
			asset = cmd.asset
		}
		out[i] = ChannelStatus{
			Index: i,
			Mode:  c.observedMode(),
			Asset: asset,
			Gain:  uint8(c.gain.Load()),
			Pitch: c.pitch.Load(),
		}
	}
	return out
}

func clampGain(v int) uint8 {
	return utils.ClampByte(v)
}
