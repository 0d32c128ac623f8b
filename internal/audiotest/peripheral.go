// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"
	"time"

	"github.com/ik5/audmix/audio"
)

// Peripheral is an audio.Peripheral that records everything written to it.
type Peripheral struct {
	mu sync.Mutex

	// InstallErr is returned by Install when set.
	InstallErr error
	// Accept, when set, decides how many bytes of a write are taken.
	Accept func(n int) int

	installs   int
	uninstalls int
	flushes    int
	config     audio.PeripheralConfig
	routed     []audio.Pins
	writes     [][]byte
	installed  bool
	onWrite    func()
}

var _ audio.Peripheral = (*Peripheral)(nil)

func (p *Peripheral) Install(cfg audio.PeripheralConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.installs++
	p.config = cfg
	if p.InstallErr != nil {
		return p.InstallErr
	}
	p.installed = true
	return nil
}

func (p *Peripheral) SetRouting(pins audio.Pins) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routed = append(p.routed, pins)
	return nil
}

func (p *Peripheral) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushes++
	return nil
}

func (p *Peripheral) Write(b []byte, _ time.Duration) (int, error) {
	p.mu.Lock()
	n := len(b)
	if p.Accept != nil {
		n = p.Accept(n)
	}
	p.writes = append(p.writes, append([]byte(nil), b[:n]...))
	hook := p.onWrite
	p.mu.Unlock()

	if hook != nil {
		hook()
	}
	return n, nil
}

func (p *Peripheral) Uninstall() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uninstalls++
	p.installed = false
	return nil
}

// OnWrite registers a hook run after every write, outside the lock.
func (p *Peripheral) OnWrite(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onWrite = fn
}

// Writes returns copies of every accepted write.
func (p *Peripheral) Writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.writes...)
}

// Counts returns install, flush and uninstall counts.
func (p *Peripheral) Counts() (installs, flushes, uninstalls int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.installs, p.flushes, p.uninstalls
}

// Config is the config passed to the last Install.
func (p *Peripheral) Config() audio.PeripheralConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// Routing lists every SetRouting call.
func (p *Peripheral) Routing() []audio.Pins {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]audio.Pins(nil), p.routed...)
}

// Installed reports whether the device is currently installed.
func (p *Peripheral) Installed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.installed
}
