// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/ik5/audmix/engine"
)

// Controller is the part of the engine a scene drives.
type Controller interface {
	Play(ch int, ref string) error
	Loop(ch int, ref string) error
	Run(ch int) error
	Brake(ch int) error
	Out(ch int) error
	StopChannel(ch int) error
	SetGain(ch, g int) error
	SetPitch(ch int, p float32) error
}

var _ Controller = (*engine.Engine)(nil)

// Actions understood in the do field.
const (
	ActionPlay  = "play"
	ActionLoop  = "loop"
	ActionRun   = "run"
	ActionBrake = "brake"
	ActionOut   = "out"
	ActionStop  = "stop"
	ActionGain  = "gain"
	ActionPitch = "pitch"
)

// Step is one timed command.
type Step struct {
	At      time.Duration `yaml:"at"`
	Do      string        `yaml:"do"`
	Channel int           `yaml:"channel"`
	Asset   string        `yaml:"asset,omitempty"`
	Value   float64       `yaml:"value,omitempty"`
}

// Scene is a validated list of steps ordered by time.
type Scene struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load decodes and validates a scene.
func Load(r io.Reader) (*Scene, error) {
	var sc Scene

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if err == io.EOF {
			return &sc, nil
		}
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(sc.Steps, func(a, b Step) int { return cmp.Compare(a.At, b.At) })

	return &sc, nil
}

// Parse is Load for an in-memory document.
func Parse(b []byte) (*Scene, error) {
	return Load(bytes.NewReader(b))
}

// Validate checks every step and reports the first bad one.
func (s *Scene) Validate() error {
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch {
	case st.At < 0:
		return fmt.Errorf("%w: negative time %v", ErrInvalidStep, st.At)
	case st.Channel < 0 || st.Channel >= engine.ChannelCount:
		return fmt.Errorf("%w: %d", engine.ErrInvalidChannel, st.Channel)
	}

	switch st.Do {
	case ActionPlay, ActionLoop:
		if st.Asset == "" {
			return fmt.Errorf("%w: %s needs an asset", ErrInvalidStep, st.Do)
		}
	case ActionRun, ActionBrake, ActionOut, ActionStop:
	case ActionGain:
		if st.Value < 0 || st.Value > engine.MaxVolume {
			return fmt.Errorf("%w: gain %v out of range", ErrInvalidStep, st.Value)
		}
	case ActionPitch:
		if st.Value < 0 || st.Value > 1 {
			return fmt.Errorf("%w: pitch %v out of range", ErrInvalidStep, st.Value)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, st.Do)
	}

	return nil
}

// Apply issues the command of the step to ctrl.
func (st Step) Apply(ctrl Controller) error {
	switch st.Do {
	case ActionPlay:
		return ctrl.Play(st.Channel, st.Asset)
	case ActionLoop:
		return ctrl.Loop(st.Channel, st.Asset)
	case ActionRun:
		return ctrl.Run(st.Channel)
	case ActionBrake:
		return ctrl.Brake(st.Channel)
	case ActionOut:
		return ctrl.Out(st.Channel)
	case ActionStop:
		return ctrl.StopChannel(st.Channel)
	case ActionGain:
		return ctrl.SetGain(st.Channel, int(st.Value))
	case ActionPitch:
		return ctrl.SetPitch(st.Channel, float32(st.Value))
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, st.Do)
}

// Duration is the time of the last step.
func (s *Scene) Duration() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At
}

// Apply issues every step with from <= At < to. Render calls it once per
// cycle with consecutive windows so each step fires exactly once.
func (s *Scene) Apply(ctrl Controller, from, to time.Duration) error {
	var err error
	for _, st := range s.Steps {
		if st.At < from {
			continue
		}
		if st.At >= to {
			break
		}
		err = multierr.Append(err, st.Apply(ctrl))
	}
	return err
}

// Run issues the steps against the wall clock, starting now. It returns
// after the last step or when ctx is done. Failing steps do not stop the
// scene; their errors are returned together.
func (s *Scene) Run(ctx context.Context, ctrl Controller) error {
	start := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	var err error
	for _, st := range s.Steps {
		if wait := st.At - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return multierr.Append(err, ctx.Err())
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return multierr.Append(err, ctx.Err())
		}

		err = multierr.Append(err, st.Apply(ctrl))
	}

	return err
}
