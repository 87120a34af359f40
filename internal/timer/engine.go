// Package timer implements the countdown engine behind a pomodoro interval.
//
// An Engine is driven by a Scheduler and is not safe for concurrent use:
// every method, and every tick delivered by the Scheduler, must run on the
// same goroutine. Observers are invoked inline.
package timer

import (
	"fmt"
	"io"
	"log/slog"
)

// State is the countdown state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

var stateNames = map[State]string{
	Idle:      "idle",
	Running:   "running",
	Paused:    "paused",
	Completed: "completed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// TickFunc observes a decrement. remaining is in seconds, progress in [0,100].
type TickFunc func(remaining int, progress float64)

// CompleteFunc observes expiry.
type CompleteFunc func()

// StateFunc observes a state transition.
type StateFunc func(next, prev State)

// Engine counts a configured number of seconds down to zero.
type Engine struct {
	clock  Scheduler
	logger *slog.Logger

	duration  int
	remaining int
	state     State
	stop      func()

	onTick     []TickFunc
	onComplete []CompleteFunc
	onState    []StateFunc
}

// New returns an idle engine loaded with durationSeconds. A nil logger
// discards observer failure logs.
func New(durationSeconds int, clock Scheduler, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	return &Engine{
		clock:     clock,
		logger:    logger,
		duration:  durationSeconds,
		remaining: durationSeconds,
		state:     Idle,
	}
}

func (e *Engine) OnTick(fn TickFunc)         { e.onTick = append(e.onTick, fn) }
func (e *Engine) OnComplete(fn CompleteFunc) { e.onComplete = append(e.onComplete, fn) }
func (e *Engine) OnStateChange(fn StateFunc) { e.onState = append(e.onState, fn) }

// Start begins or resumes the countdown. It is a no-op while Running, so at
// most one periodic source is ever active, and a no-op once Completed.
func (e *Engine) Start() {
	if e.state == Running || e.state == Completed {
		return
	}
	e.stop = e.clock.Schedule(e.tick)
	e.transition(Running)
}

// Pause stops ticking and keeps the remaining time. No-op unless Running.
func (e *Engine) Pause() {
	if e.state != Running {
		return
	}
	e.stopTicking()
	e.transition(Paused)
}

// Reset stops ticking and reloads the configured duration.
func (e *Engine) Reset() {
	e.stopTicking()
	e.remaining = e.duration
	e.transition(Idle)
}

// SetDuration changes the configured length and resets. Any countdown in
// progress is discarded.
func (e *Engine) SetDuration(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("set duration %d: %w", seconds, ErrInvalidDuration)
	}
	e.duration = seconds
	e.Reset()
	return nil
}

func (e *Engine) State() State          { return e.state }
func (e *Engine) Duration() int         { return e.duration }
func (e *Engine) RemainingSeconds() int { return e.remaining }

// Remaining splits the remaining time into minutes and seconds.
func (e *Engine) Remaining() (minutes, seconds int) {
	return e.remaining / 60, e.remaining % 60
}

// Progress returns the elapsed share of the duration as a percentage.
func (e *Engine) Progress() float64 {
	if e.duration <= 0 {
		return 0
	}
	return float64(e.duration-e.remaining) / float64(e.duration) * 100
}

func (e *Engine) tick() {
	if e.state != Running {
		return
	}
	if e.remaining > 0 {
		e.remaining--
	}
	if e.remaining <= 0 {
		e.stopTicking()
		e.transition(Completed)
		for _, fn := range e.onComplete {
			e.guard("complete", fn)
		}
		return
	}

	remaining, progress := e.remaining, e.Progress()
	for _, fn := range e.onTick {
		e.guard("tick", func() { fn(remaining, progress) })
	}
}

func (e *Engine) transition(next State) {
	prev := e.state
	if next == prev {
		return
	}
	e.state = next
	for _, fn := range e.onState {
		e.guard("state_change", func() { fn(next, prev) })
	}
}

func (e *Engine) stopTicking() {
	if e.stop != nil {
		e.stop()
		e.stop = nil
	}
}

// guard runs an observer and recovers its panic so the remaining observers
// still run and the countdown state stays intact.
func (e *Engine) guard(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("timer observer failed", "event", event, "panic", r)
		}
	}()
	fn()
}
