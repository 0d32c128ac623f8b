//go:build headless

// SPDX-License-Identifier: EPL-2.0

package output

import (
	"time"

	"github.com/ik5/audmix/audio"
)

// Device is unavailable in headless builds.
type Device struct{}

var _ audio.Peripheral = (*Device)(nil)

func NewDevice(int) *Device { return &Device{} }

func (*Device) Install(audio.PeripheralConfig) error { return ErrUnavailable }
func (*Device) SetRouting(audio.Pins) error           { return nil }
func (*Device) Flush() error                          { return ErrNotInstalled }
func (*Device) Uninstall() error                      { return nil }

func (*Device) Write([]byte, time.Duration) (int, error) { return 0, ErrNotInstalled }
