package timer

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type recorder struct {
	ticks     []int
	progress  []float64
	completes int
	states    [][2]State
}

func newRecordedEngine(t *testing.T, duration int) (*Engine, *ManualClock, *recorder) {
	t.Helper()
	clock := NewManualClock()
	e := New(duration, clock, nil)
	r := &recorder{}
	e.OnTick(func(remaining int, progress float64) {
		r.ticks = append(r.ticks, remaining)
		r.progress = append(r.progress, progress)
	})
	e.OnComplete(func() { r.completes++ })
	e.OnStateChange(func(next, prev State) {
		r.states = append(r.states, [2]State{next, prev})
	})
	return e, clock, r
}

// ============================================================
// Countdown
// ============================================================

func TestFiveTickScenario(t *testing.T) {
	e, clock, r := newRecordedEngine(t, 5)
	e.Start()
	clock.Advance(5)

	if e.State() != Completed {
		t.Fatalf("expected completed, got %s", e.State())
	}
	want := []int{4, 3, 2, 1}
	if len(r.ticks) != len(want) {
		t.Fatalf("expected %d ticks, got %v", len(want), r.ticks)
	}
	for i := range want {
		if r.ticks[i] != want[i] {
			t.Fatalf("tick %d remaining = %d, want %d", i, r.ticks[i], want[i])
		}
	}
	if r.completes != 1 {
		t.Fatalf("expected 1 completion, got %d", r.completes)
	}
}

func TestCompletesExactlyOnceForAnyDuration(t *testing.T) {
	for _, d := range []int{1, 2, 7, 60, 1500} {
		e, clock, r := newRecordedEngine(t, d)
		e.Start()
		clock.Advance(d)
		if e.State() != Completed {
			t.Fatalf("d=%d: expected completed, got %s", d, e.State())
		}
		if r.completes != 1 {
			t.Fatalf("d=%d: completes = %d", d, r.completes)
		}
		if len(r.ticks) != d-1 {
			t.Fatalf("d=%d: ticks = %d, want %d", d, len(r.ticks), d-1)
		}
		// Further ticks after completion change nothing.
		clock.Advance(3)
		if r.completes != 1 || len(r.ticks) != d-1 {
			t.Fatalf("d=%d: events after completion", d)
		}
		if clock.Active() != 0 {
			t.Fatalf("d=%d: periodic source still active", d)
		}
	}
}

func TestStateChangeSequence(t *testing.T) {
	e, clock, r := newRecordedEngine(t, 2)
	e.Start()
	clock.Advance(2)
	e.Reset()

	want := [][2]State{
		{Running, Idle},
		{Completed, Running},
		{Idle, Completed},
	}
	if len(r.states) != len(want) {
		t.Fatalf("transitions = %v", r.states)
	}
	for i := range want {
		if r.states[i] != want[i] {
			t.Fatalf("transition %d = %v, want %v", i, r.states[i], want[i])
		}
	}
}

// ============================================================
// Start / pause / reset
// ============================================================

func TestDoubleStartIsNoop(t *testing.T) {
	e, clock, r := newRecordedEngine(t, 10)
	e.Start()
	e.Start()

	if clock.Active() != 1 {
		t.Fatalf("expected 1 periodic source, got %d", clock.Active())
	}
	clock.Advance(1)
	if e.RemainingSeconds() != 9 {
		t.Fatalf("double start double-decremented: remaining %d", e.RemainingSeconds())
	}
	if len(r.states) != 1 {
		t.Fatalf("second start fired a transition: %v", r.states)
	}
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	e, clock, _ := newRecordedEngine(t, 10)
	e.Start()
	clock.Advance(3)
	e.Pause()

	if e.State() != Paused {
		t.Fatalf("expected paused, got %s", e.State())
	}
	at := e.RemainingSeconds()
	clock.Advance(5)
	if e.RemainingSeconds() != at {
		t.Fatalf("remaining changed while paused: %d -> %d", at, e.RemainingSeconds())
	}
	if clock.Active() != 0 {
		t.Fatal("pause should stop the periodic source")
	}

	e.Start()
	if e.RemainingSeconds() != at {
		t.Fatalf("resume changed remaining: %d -> %d", at, e.RemainingSeconds())
	}
	clock.Advance(1)
	if e.RemainingSeconds() != at-1 {
		t.Fatalf("expected %d after resume tick, got %d", at-1, e.RemainingSeconds())
	}
}

func TestPauseWhenNotRunning(t *testing.T) {
	e, _, r := newRecordedEngine(t, 10)
	e.Pause()
	if e.State() != Idle {
		t.Fatalf("pause from idle changed state to %s", e.State())
	}
	if len(r.states) != 0 {
		t.Fatal("pause from idle fired a transition")
	}
}

func TestResetIdempotentFromAnyState(t *testing.T) {
	setups := map[string]func(*Engine, *ManualClock){
		"idle":      func(*Engine, *ManualClock) {},
		"running":   func(e *Engine, c *ManualClock) { e.Start(); c.Advance(2) },
		"paused":    func(e *Engine, c *ManualClock) { e.Start(); c.Advance(2); e.Pause() },
		"completed": func(e *Engine, c *ManualClock) { e.Start(); c.Advance(6) },
	}
	for name, setup := range setups {
		e, clock, _ := newRecordedEngine(t, 6)
		setup(e, clock)
		for i := 0; i < 2; i++ {
			e.Reset()
			if e.State() != Idle || e.RemainingSeconds() != e.Duration() {
				t.Fatalf("%s reset %d: state=%s remaining=%d", name, i, e.State(), e.RemainingSeconds())
			}
		}
		if clock.Active() != 0 {
			t.Fatalf("%s: reset left a periodic source active", name)
		}
	}
}

func TestStartFromCompletedIsNoop(t *testing.T) {
	e, clock, _ := newRecordedEngine(t, 1)
	e.Start()
	clock.Advance(1)
	e.Start()
	if e.State() != Completed {
		t.Fatalf("expected completed, got %s", e.State())
	}
	if clock.Active() != 0 {
		t.Fatal("start from completed scheduled a source")
	}
}

func TestSetDurationResets(t *testing.T) {
	e, clock, _ := newRecordedEngine(t, 10)
	e.Start()
	clock.Advance(4)

	if err := e.SetDuration(30); err != nil {
		t.Fatal(err)
	}
	if e.State() != Idle || e.RemainingSeconds() != 30 || e.Duration() != 30 {
		t.Fatalf("state=%s remaining=%d duration=%d", e.State(), e.RemainingSeconds(), e.Duration())
	}
	if clock.Active() != 0 {
		t.Fatal("set duration left a periodic source active")
	}
}

func TestSetDurationRejectsNonPositive(t *testing.T) {
	e, _, _ := newRecordedEngine(t, 10)
	for _, d := range []int{0, -5} {
		err := e.SetDuration(d)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("SetDuration(%d) err = %v", d, err)
		}
	}
	if e.Duration() != 10 {
		t.Fatal("rejected duration should not change the engine")
	}
}

// ============================================================
// Accessors
// ============================================================

func TestRemainingSplit(t *testing.T) {
	e := New(25*60+7, NewManualClock(), nil)
	m, s := e.Remaining()
	if m != 25 || s != 7 {
		t.Fatalf("Remaining() = %d:%d", m, s)
	}
}

func TestProgressMonotonic(t *testing.T) {
	e, clock, r := newRecordedEngine(t, 8)
	if e.Progress() != 0 {
		t.Fatalf("progress at start = %v", e.Progress())
	}
	e.Start()
	clock.Advance(8)

	for i := 1; i < len(r.progress); i++ {
		if r.progress[i] < r.progress[i-1] {
			t.Fatalf("progress decreased: %v", r.progress)
		}
	}
	for _, p := range r.progress {
		if p >= 100 {
			t.Fatalf("progress reached 100 before completion: %v", r.progress)
		}
	}
	if e.Progress() != 100 {
		t.Fatalf("progress at completion = %v", e.Progress())
	}
}

func TestProgressZeroDuration(t *testing.T) {
	e := New(0, NewManualClock(), nil)
	if e.Progress() != 0 {
		t.Fatalf("progress with zero duration = %v", e.Progress())
	}
}

func TestStateString(t *testing.T) {
	if Running.String() != "running" || Completed.String() != "completed" {
		t.Fatal("unexpected state names")
	}
	if State(42).String() != "state(42)" {
		t.Fatalf("unknown state = %s", State(42).String())
	}
}

// ============================================================
// Observers
// ============================================================

func TestObserversRunInRegistrationOrder(t *testing.T) {
	clock := NewManualClock()
	e := New(1, clock, nil)
	var order []string
	e.OnComplete(func() { order = append(order, "first") })
	e.OnComplete(func() { order = append(order, "second") })
	e.OnComplete(func() { order = append(order, "third") })

	e.Start()
	clock.Tick()
	if strings.Join(order, ",") != "first,second,third" {
		t.Fatalf("order = %v", order)
	}
}

func TestObserverPanicIsolated(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	clock := NewManualClock()
	e := New(3, clock, logger)

	var ticks, completes int
	e.OnTick(func(int, float64) { panic("render failed") })
	e.OnTick(func(int, float64) { ticks++ })
	e.OnComplete(func() { panic("sound failed") })
	e.OnComplete(func() { completes++ })
	e.OnStateChange(func(State, State) { panic("state view failed") })

	e.Start()
	clock.Advance(3)

	if ticks != 2 {
		t.Fatalf("second tick observer ran %d times, want 2", ticks)
	}
	if completes != 1 {
		t.Fatalf("second complete observer ran %d times, want 1", completes)
	}
	if e.State() != Completed || e.RemainingSeconds() != 0 {
		t.Fatalf("state corrupted: %s remaining=%d", e.State(), e.RemainingSeconds())
	}
	if !strings.Contains(buf.String(), "timer observer failed") {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}

func TestObserverMayResetDuringComplete(t *testing.T) {
	clock := NewManualClock()
	e := New(2, clock, nil)
	e.OnComplete(func() { e.Reset() })

	e.Start()
	clock.Advance(2)
	if e.State() != Idle || e.RemainingSeconds() != 2 {
		t.Fatalf("state=%s remaining=%d", e.State(), e.RemainingSeconds())
	}
}

// ============================================================
// ManualClock
// ============================================================

func TestManualClockStopIdempotent(t *testing.T) {
	c := NewManualClock()
	n := 0
	stop := c.Schedule(func() { n++ })
	c.Tick()
	stop()
	stop()
	c.Tick()
	if n != 1 {
		t.Fatalf("fired %d times, want 1", n)
	}
	if c.Active() != 0 {
		t.Fatal("expected no active sources")
	}
}
