// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/ik5/audmix/audio"
)

// Stats are running diagnostics counters.
type Stats struct {
	Cycles       uint64
	ShortWrites  uint64
	WriteErrors  uint64
	OpenFailures uint64
}

type counters struct {
	cycles       atomic.Uint64
	shortWrites  atomic.Uint64
	writeErrors  atomic.Uint64
	openFailures atomic.Uint64
}

// Engine mixes three channels into an audio.Peripheral.
type Engine struct {
	storage audio.Storage
	out     audio.Peripheral
	logger  *slog.Logger

	mu      sync.Mutex // lifecycle and cfg
	cfg     Config
	frozen  bool
	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}
	lastErr error

	channels [ChannelCount]channel
	mixed    []int16
	frame    []byte
	stats    counters
}

// New builds a stopped engine reading assets from storage and writing to out.
func New(storage audio.Storage, out audio.Peripheral, opts ...Option) *Engine {
	e := &Engine{
		storage: storage,
		out:     out,
		logger:  slog.With("component", "engine"),
		cfg:     DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	for i := range e.channels {
		e.channels[i].gain.Store(DefaultGain)
	}

	done := make(chan struct{})
	close(done)
	e.done = done

	return e
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// ConfigureOutput selects port, pins and converter. Ignored once the engine
// has been started.
func (e *Engine) ConfigureOutput(port int, pins audio.Pins, builtin bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		e.logger.Debug("output configuration is locked", slog.Int("port", port))
		return
	}
	e.cfg.Port = port
	e.cfg.Pins = pins
	e.cfg.BuiltinConverter = builtin
}

// SetMasterVolume sets the volume applied after mixing, clamped to 0..255.
// Ignored once the engine has been started.
func (e *Engine) SetMasterVolume(v int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		e.logger.Debug("master volume is locked", slog.Int("volume", v))
		return
	}
	e.cfg.MasterVolume = clampGain(v)
}

// Running reports whether the cycle loop (or a render) is active.
func (e *Engine) Running() bool { return e.running.Load() }

// Done is closed when the current run has torn down.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

func (e *Engine) Stats() Stats {
	return Stats{
		Cycles:       e.stats.cycles.Load(),
		ShortWrites:  e.stats.shortWrites.Load(),
		WriteErrors:  e.stats.writeErrors.Load(),
		OpenFailures: e.stats.openFailures.Load(),
	}
}

// Start installs the output peripheral and runs the cycle loop in its own
// goroutine until Stop is called or ctx is done. Starting a running engine
// does nothing.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running.Load() {
		e.logger.Debug("engine already running")
		return nil
	}
	if err := e.install(); err != nil {
		return err
	}

	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.lastErr = nil
	e.running.Store(true)

	go e.loop(ctx, e.stop, e.done)

	e.logger.Info("engine started",
		slog.Int("port", e.cfg.Port),
		slog.Bool("builtin_converter", e.cfg.BuiltinConverter),
		slog.Int("buffer_samples", e.cfg.BufferSamples))
	return nil
}

// Stop asks the loop to finish and waits until it has released the
// peripheral, bounded by ctx and the configured stop timeout. The buffer
// of the cycle in flight is discarded.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	stop, done, timeout := e.stop, e.done, e.cfg.StopTimeout
	if !e.running.Load() {
		e.mu.Unlock()
		e.logger.Debug("engine not running")
		return nil
	}
	// a stop that timed out left stop nil; wait on the same loop again
	if stop != nil {
		close(stop)
		e.stop = nil
	}
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		return e.lastErr
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrStopTimeout, ctx.Err())
	}
}

// Render runs cycles synchronously on the calling goroutine, calling before
// ahead of each cycle, then releases the peripheral. It is meant for offline
// rendering into file peripherals and for deterministic tests.
func (e *Engine) Render(ctx context.Context, cycles int, before func(cycle int)) error {
	e.mu.Lock()
	if e.running.Load() {
		e.mu.Unlock()
		return ErrRunning
	}
	if err := e.install(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.running.Store(true)
	e.mu.Unlock()
	defer e.running.Store(false)

	var err error
	for i := 0; i < cycles; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		if before != nil {
			before(i)
		}
		e.cycle()
	}

	return multierr.Append(err, e.teardown())
}

// install freezes the configuration and brings the peripheral up. Callers
// hold e.mu.
func (e *Engine) install() error {
	if !e.frozen {
		e.frozen = true
		e.mixed = make([]int16, e.cfg.BufferSamples)
		e.frame = make([]byte, e.cfg.FrameBytes())
		for i := range e.channels {
			e.channels[i].buf = make([]int8, e.cfg.BufferSamples)
		}
	}

	if err := e.out.Install(e.cfg.peripheral()); err != nil {
		e.logger.Error("output install failed", slog.Int("port", e.cfg.Port), slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrPeripheralInstall, err)
	}
	if err := e.out.SetRouting(e.cfg.Pins); err != nil {
		return fmt.Errorf("%w: %w", ErrPeripheralInstall, multierr.Append(err, e.out.Uninstall()))
	}
	if err := e.out.Flush(); err != nil {
		e.logger.Warn("output flush failed", slog.Any("error", err))
	}
	return nil
}

func (e *Engine) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer e.running.Store(false)

	var yield *time.Timer
	if e.cfg.Yield > 0 {
		yield = time.NewTimer(e.cfg.Yield)
		defer yield.Stop()
	}

	for {
		select {
		case <-stop:
			e.lastErr = e.teardown()
			return
		case <-ctx.Done():
			e.lastErr = e.teardown()
			return
		default:
		}

		e.cycle()

		if yield != nil {
			yield.Reset(e.cfg.Yield)
			select {
			case <-yield.C:
			case <-stop:
			case <-ctx.Done():
			}
		}
	}
}

// teardown closes every open asset and uninstalls the peripheral.
func (e *Engine) teardown() error {
	var err error
	for i := range e.channels {
		c := &e.channels[i]
		err = multierr.Append(err, e.closeStream(c))
		c.publish()
	}
	if uerr := e.out.Uninstall(); uerr != nil {
		err = multierr.Append(err, fmt.Errorf("uninstall output: %w", uerr))
	}
	e.logger.Info("engine stopped", slog.Uint64("cycles", e.stats.cycles.Load()))
	return err
}

func (e *Engine) cycle() {
	var (
		bufs  [ChannelCount][]int8
		gains [ChannelCount]uint8
	)
	for i := range e.channels {
		c := &e.channels[i]
		e.fill(i, c)
		bufs[i] = c.buf
		gains[i] = uint8(c.gain.Load())
	}

	mix(e.mixed, &bufs, &gains, e.cfg.MasterVolume)
	formatFrame(e.frame, e.mixed, e.cfg.BuiltinConverter)
	e.stats.cycles.Inc()

	n, err := e.out.Write(e.frame, e.cfg.WriteTimeout)
	switch {
	case err != nil:
		e.stats.writeErrors.Inc()
		e.logger.Error("output write failed", slog.Int("port", e.cfg.Port), slog.Any("error", err))
	case n != len(e.frame):
		e.stats.shortWrites.Inc()
		e.logger.Warn("short output write",
			slog.Int("port", e.cfg.Port),
			slog.Int("written", n),
			slog.Int("len", len(e.frame)))
	}
}

// fill runs the channel state machine for one cycle and leaves exactly one
// buffer of samples in c.buf.
func (e *Engine) fill(idx int, c *channel) {
	if cmd := c.pending.Swap(nil); cmd != nil {
		e.apply(idx, c, cmd)
	}
	defer c.publish()

	if !c.mode.Active() {
		clear(c.buf)
		return
	}
	if c.stream == nil && !e.open(idx, c) {
		clear(c.buf)
		return
	}

	pitch := c.pitch.Load()
	filled := 0
	reopened := false
	for {
		n, exhausted := readPitched(c.buf[filled:], c.stream, pitch, &c.acc)
		filled += n
		if !exhausted {
			return
		}

		switch {
		case c.next != Stopped:
			c.mode, c.next = c.next, Stopped
			if err := e.closeStream(c); err != nil {
				e.logger.Warn("closing asset failed", slog.Int("channel", idx), slog.Any("error", err))
			}
			if !e.open(idx, c) {
				clear(c.buf[filled:])
				return
			}
		case !c.mode.continues():
			if err := e.closeStream(c); err != nil {
				e.logger.Warn("closing asset failed", slog.Int("channel", idx), slog.Any("error", err))
			}
			c.mode = Stopped
			clear(c.buf[filled:])
			return
		default:
			// an asset that yields nothing right after a rewind would spin forever
			if reopened && n == 0 {
				clear(c.buf[filled:])
				return
			}
			if !e.reopen(idx, c) {
				clear(c.buf[filled:])
				return
			}
		}
		reopened = true
		if filled == len(c.buf) {
			return
		}
	}
}

func (e *Engine) apply(idx int, c *channel, cmd *command) {
	if cmd.reset || cmd.mode == Stopped {
		if err := e.closeStream(c); err != nil {
			e.logger.Warn("closing asset failed", slog.Int("channel", idx), slog.Any("error", err))
		}
	}
	if cmd.setAsset {
		c.ref = cmd.asset
	}

	c.next = Stopped
	if c.stream != nil && cmd.mode.requested() {
		// the open asset finishes first; a braked one resumes to get there
		c.next = cmd.mode
		if !c.mode.Active() {
			c.mode = Running
		}
		return
	}
	c.mode = cmd.mode
}

// open opens c.ref. On failure the channel falls back to Stopped.
func (e *Engine) open(idx int, c *channel) bool {
	s, err := e.storage.Open(c.ref)
	if err != nil {
		e.stats.openFailures.Inc()
		e.logger.Warn("cannot open asset",
			slog.Int("channel", idx),
			slog.String("asset", c.ref),
			slog.Any("error", err))
		c.mode = Stopped
		return false
	}
	c.stream = s
	c.acc = 0
	c.mode = c.mode.settle()
	return true
}

// reopen continues a looping channel at the end of its asset: the same
// asset is rewound, a newly requested one replaces it.
func (e *Engine) reopen(idx int, c *channel) bool {
	if c.stream.Name() == c.ref {
		err := c.stream.Rewind()
		if err == nil {
			c.mode = c.mode.settle()
			return true
		}
		e.logger.Warn("rewind failed, reopening", slog.Int("channel", idx), slog.Any("error", err))
	}
	if err := e.closeStream(c); err != nil {
		e.logger.Warn("closing asset failed", slog.Int("channel", idx), slog.Any("error", err))
	}
	return e.open(idx, c)
}

func (e *Engine) closeStream(c *channel) error {
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}
