// SPDX-License-Identifier: EPL-2.0

package engine

import "testing"

func TestModeString(t *testing.T) {
	t.Parallel()

	tests := map[Mode]string{
		Stopped:       "stop",
		Braked:        "brake",
		PlayRequested: "play",
		LoopRequested: "loop",
		Running:       "run",
		Draining:      "out",
		Mode(42):      "mode(42)",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", uint32(m), got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for m := Stopped; m <= Draining; m++ {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q) error = %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m, got, m)
		}
	}

	if _, err := ParseMode("rewind"); err == nil {
		t.Error("ParseMode(\"rewind\") error = nil, want error")
	}
}

func TestModeTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode      Mode
		active    bool
		settled   Mode
		continues bool
	}{
		{Stopped, false, Stopped, false},
		{Braked, false, Braked, false},
		{PlayRequested, true, Draining, true},
		{LoopRequested, true, Running, true},
		{Running, true, Running, true},
		{Draining, true, Draining, false},
	}

	for _, tt := range tests {
		if got := tt.mode.Active(); got != tt.active {
			t.Errorf("%v.Active() = %v, want %v", tt.mode, got, tt.active)
		}
		if got := tt.mode.settle(); got != tt.settled {
			t.Errorf("%v.settle() = %v, want %v", tt.mode, got, tt.settled)
		}
		if got := tt.mode.continues(); got != tt.continues {
			t.Errorf("%v.continues() = %v, want %v", tt.mode, got, tt.continues)
		}
	}
}

func TestChannelSubmit(t *testing.T) {
	t.Parallel()

	t.Run("latest wins", func(t *testing.T) {
		t.Parallel()

		var c channel
		c.submit(command{mode: PlayRequested, asset: "a", setAsset: true})
		c.submit(command{mode: LoopRequested, asset: "b", setAsset: true})

		cmd := c.pending.Load()
		if cmd.mode != LoopRequested || cmd.asset != "b" || cmd.reset {
			t.Errorf("pending = %+v, want loop b without reset", *cmd)
		}
	})

	t.Run("stop folds into play", func(t *testing.T) {
		t.Parallel()

		var c channel
		c.submit(command{mode: Stopped})
		c.submit(command{mode: PlayRequested, asset: "a", setAsset: true})

		cmd := c.pending.Load()
		if cmd.mode != PlayRequested || !cmd.reset {
			t.Errorf("pending = %+v, want play with reset", *cmd)
		}
	})

	t.Run("reset survives several commands", func(t *testing.T) {
		t.Parallel()

		var c channel
		c.submit(command{mode: Stopped})
		c.submit(command{mode: Braked})
		c.submit(command{mode: Running})

		if cmd := c.pending.Load(); !cmd.reset {
			t.Errorf("pending = %+v, want reset", *cmd)
		}
	})

	t.Run("mode-only command keeps pending asset", func(t *testing.T) {
		t.Parallel()

		var c channel
		c.submit(command{mode: LoopRequested, asset: "a", setAsset: true})
		c.submit(command{mode: Braked})
		c.submit(command{mode: Draining})

		cmd := c.pending.Load()
		if cmd.mode != Draining || !cmd.setAsset || cmd.asset != "a" {
			t.Errorf("pending = %+v, want out with asset a", *cmd)
		}
	})

	t.Run("stop keeps pending asset", func(t *testing.T) {
		t.Parallel()

		var c channel
		c.submit(command{mode: PlayRequested, asset: "a", setAsset: true})
		c.submit(command{mode: Stopped})

		cmd := c.pending.Load()
		if cmd.mode != Stopped || cmd.asset != "a" || !cmd.setAsset {
			t.Errorf("pending = %+v, want stop with asset a", *cmd)
		}
	})

	t.Run("observed mode prefers pending", func(t *testing.T) {
		t.Parallel()

		var c channel
		c.mode = Running
		c.publish()
		if got := c.observedMode(); got != Running {
			t.Fatalf("observedMode() = %v, want run", got)
		}

		c.submit(command{mode: Braked})
		if got := c.observedMode(); got != Braked {
			t.Errorf("observedMode() = %v, want brake", got)
		}
	})
}
