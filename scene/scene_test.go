// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audmix/engine"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (r *recorder) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if call == r.fail {
		return errors.New("refused")
	}
	return nil
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) Play(ch int, ref string) error { return r.record(fmt.Sprintf("play %d %s", ch, ref)) }
func (r *recorder) Loop(ch int, ref string) error { return r.record(fmt.Sprintf("loop %d %s", ch, ref)) }
func (r *recorder) Run(ch int) error              { return r.record(fmt.Sprintf("run %d", ch)) }
func (r *recorder) Brake(ch int) error            { return r.record(fmt.Sprintf("brake %d", ch)) }
func (r *recorder) Out(ch int) error              { return r.record(fmt.Sprintf("out %d", ch)) }
func (r *recorder) StopChannel(ch int) error      { return r.record(fmt.Sprintf("stop %d", ch)) }
func (r *recorder) SetGain(ch, g int) error       { return r.record(fmt.Sprintf("gain %d %d", ch, g)) }
func (r *recorder) SetPitch(ch int, p float32) error {
	return r.record(fmt.Sprintf("pitch %d %.2f", ch, p))
}

const crossing = `
name: crossing
steps:
  - {at: 2s, do: out, channel: 0}
  - {at: 0s, do: loop, channel: 0, asset: /engine.raw}
  - {at: 500ms, do: pitch, channel: 0, value: 0.25}
  - {at: 500ms, do: play, channel: 1, asset: /horn.raw}
  - {at: 1s, do: gain, channel: 2, value: 64}
  - {at: 1s, do: brake, channel: 2}
  - {at: 1s, do: run, channel: 2}
  - {at: 3s, do: stop, channel: 1}
`

func TestParse(t *testing.T) {
	t.Parallel()

	sc, err := Parse([]byte(crossing))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if sc.Name != "crossing" || len(sc.Steps) != 8 {
		t.Fatalf("scene = %+v", sc)
	}
	if sc.Duration() != 3*time.Second {
		t.Errorf("Duration() = %v, want 3s", sc.Duration())
	}

	// Sorted by time, equal times keep file order.
	var order []string
	for _, st := range sc.Steps {
		order = append(order, st.Do)
	}
	want := []string{"loop", "pitch", "play", "gain", "brake", "run", "out", "stop"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	sc, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if sc.Duration() != 0 {
		t.Errorf("Duration() = %v", sc.Duration())
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "unknown action", doc: `steps: [{at: 0s, do: fly, channel: 0}]`, want: ErrUnknownAction},
		{name: "missing asset", doc: `steps: [{at: 0s, do: play, channel: 0}]`, want: ErrInvalidStep},
		{name: "bad channel", doc: `steps: [{at: 0s, do: run, channel: 3}]`, want: engine.ErrInvalidChannel},
		{name: "negative time", doc: `steps: [{at: -1s, do: run, channel: 0}]`, want: ErrInvalidStep},
		{name: "loud gain", doc: `steps: [{at: 0s, do: gain, channel: 0, value: 300}]`, want: ErrInvalidStep},
		{name: "fast pitch", doc: `steps: [{at: 0s, do: pitch, channel: 0, value: 2}]`, want: ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		if _, err := Load(strings.NewReader(`steps: [{at: 0s, do: run, chan: 0}]`)); err == nil {
			t.Error("expected an error for an unknown field")
		}
	})
}

func TestApplyWindows(t *testing.T) {
	t.Parallel()

	sc, err := Parse([]byte(crossing))
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	step := 400 * time.Millisecond
	var windows [][]string
	for from := time.Duration(0); from <= sc.Duration(); from += step {
		before := len(rec.Calls())
		if err := sc.Apply(rec, from, from+step); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		windows = append(windows, rec.Calls()[before:])
	}

	want := []string{
		"loop 0 /engine.raw", "pitch 0 0.25", "play 1 /horn.raw",
		"gain 2 64", "brake 2", "run 2", "out 0", "stop 1",
	}
	if got := rec.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if len(windows[0]) != 1 || len(windows[1]) != 2 || len(windows[2]) != 3 {
		t.Errorf("windows = %v", windows)
	}
}

func TestApplyCollectsErrors(t *testing.T) {
	t.Parallel()

	sc, err := Parse([]byte(crossing))
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{fail: "brake 2"}
	err = sc.Apply(rec, 0, time.Hour)
	if err == nil {
		t.Fatal("expected the refused step to be reported")
	}
	if n := len(rec.Calls()); n != 8 {
		t.Errorf("%d calls, want all 8 despite the failure", n)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	sc, err := Parse([]byte(`
steps:
  - {at: 0s, do: loop, channel: 0, asset: /a}
  - {at: 20ms, do: out, channel: 0}
`))
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	start := time.Now()
	if err := sc.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Run returned after %v, before the last step was due", elapsed)
	}
	if got := rec.Calls(); !reflect.DeepEqual(got, []string{"loop 0 /a", "out 0"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestRunCancel(t *testing.T) {
	t.Parallel()

	sc, err := Parse([]byte(`
steps:
  - {at: 0s, do: run, channel: 0}
  - {at: 1h, do: out, channel: 0}
`))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	rec := &recorder{}
	err = sc.Run(ctx, rec)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}
	if got := rec.Calls(); !reflect.DeepEqual(got, []string{"run 0"}) {
		t.Errorf("calls = %v", got)
	}
}
