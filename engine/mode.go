// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"strings"
)

// Mode is the lifecycle state of a channel.
type Mode uint32

const (
	Stopped Mode = iota
	// Braked emits silence but keeps the asset open.
	Braked
	// PlayRequested is pending until the asset is opened, then becomes Draining.
	PlayRequested
	// LoopRequested is pending until the asset is opened, then becomes Running.
	LoopRequested
	// Running loops the asset until told otherwise.
	Running
	// Draining plays to the end of the asset and stops.
	Draining
)

var modeNames = [...]string{"stop", "brake", "play", "loop", "run", "out"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint32(m))
}

// ParseMode accepts the names produced by String.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return Stopped, fmt.Errorf("unknown mode %q", s)
}

// Active reports whether the channel reads from its asset.
func (m Mode) Active() bool {
	return m > Braked && m <= Draining
}

// settle collapses a request into the state it takes once its asset is open.
func (m Mode) settle() Mode {
	switch m {
	case PlayRequested:
		return Draining
	case LoopRequested:
		return Running
	}
	return m
}

func (m Mode) requested() bool {
	return m == PlayRequested || m == LoopRequested
}

// continues reports whether the channel goes on at the end of an asset.
func (m Mode) continues() bool {
	return m == PlayRequested || m == LoopRequested || m == Running
}
