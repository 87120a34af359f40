// Package session turns timer expiry into completed tasks and daily
// statistics and alternates between work and break intervals.
package session

import (
	"errors"
	"io"
	"log/slog"

	"github.com/sadopc/pomo/internal/config"
	"github.com/sadopc/pomo/internal/ledger"
	"github.com/sadopc/pomo/internal/stats"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

// IntervalLog records every started interval. *store.Store implements it.
type IntervalLog interface {
	StartInterval(mode string, plannedSeconds int, taskName string) (*store.Interval, error)
	FinishInterval(id int64, status string) error
}

// NoticeLevel classifies a transient notification.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a transient message for the user.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Deps wires a Coordinator. Engine, Ledger and Stats are required.
type Deps struct {
	Engine    *timer.Engine
	Ledger    *ledger.Ledger
	Stats     *stats.Store
	Intervals IntervalLog
	Settings  config.SettingsStore
	Logger    *slog.Logger
}

// Coordinator owns the current mode and the session counters. Like the
// engine it drives, it must be used from a single goroutine.
type Coordinator struct {
	engine    *timer.Engine
	ledger    *ledger.Ledger
	stats     *stats.Store
	intervals IntervalLog
	store     config.SettingsStore
	logger    *slog.Logger

	settings          config.Settings
	mode              Mode
	completedSessions int
	longBreaks        int
	intervalID        int64

	onTask   []func(store.CompletedTask)
	onStats  []func(store.DailyStats)
	onMode   []func(next, prev Mode)
	onNotice []func(Notice)
}

// New loads the work duration into the engine and subscribes to its
// completion. Invalid settings are replaced by the defaults.
func New(deps Deps, settings config.Settings) *Coordinator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := settings.Validate(); err != nil {
		logger.Warn("invalid settings, using defaults", "err", err)
		settings = config.DefaultSettings()
	}
	c := &Coordinator{
		engine:    deps.Engine,
		ledger:    deps.Ledger,
		stats:     deps.Stats,
		intervals: deps.Intervals,
		store:     deps.Settings,
		logger:    logger,
		settings:  settings,
		mode:      ModeWork,
	}
	c.loadDuration(ModeWork)
	c.engine.OnComplete(c.handleComplete)
	return c
}

// OnTick registers an observer receiving the remaining time split into
// minutes and seconds.
func (c *Coordinator) OnTick(fn func(minutes, seconds int, progress float64)) {
	c.engine.OnTick(func(remaining int, progress float64) {
		fn(remaining/60, remaining%60, progress)
	})
}

// OnComplete observers run after the coordinator has recorded the session
// and switched mode.
func (c *Coordinator) OnComplete(fn func())                          { c.engine.OnComplete(fn) }
func (c *Coordinator) OnStateChange(fn func(next, prev timer.State)) { c.engine.OnStateChange(fn) }
func (c *Coordinator) OnTaskAppended(fn func(store.CompletedTask))   { c.onTask = append(c.onTask, fn) }
func (c *Coordinator) OnStatsChanged(fn func(store.DailyStats))      { c.onStats = append(c.onStats, fn) }
func (c *Coordinator) OnModeChange(fn func(next, prev Mode))         { c.onMode = append(c.onMode, fn) }
func (c *Coordinator) OnNotice(fn func(Notice))                      { c.onNotice = append(c.onNotice, fn) }

// RequestStart starts or resumes the countdown. In work mode a current
// task is required.
func (c *Coordinator) RequestStart() error {
	if c.mode == ModeWork {
		if _, ok := c.ledger.Current(); !ok {
			return ErrMissingTask
		}
	}
	switch c.engine.State() {
	case timer.Running:
		return nil
	case timer.Paused:
		c.engine.Start()
		return nil
	}
	seconds := c.modeSeconds(c.mode)
	if err := c.engine.SetDuration(seconds); err != nil {
		return err
	}
	c.beginInterval(seconds)
	c.engine.Start()
	return nil
}

func (c *Coordinator) RequestPause() {
	c.engine.Pause()
}

// RequestReset stops the countdown, drops the current task and returns to
// work mode.
func (c *Coordinator) RequestReset() {
	c.endInterval(store.IntervalCancelled)
	c.ledger.ClearCurrent()
	c.setMode(ModeWork)
	c.loadDuration(ModeWork)
}

// RequestTaskSubmit sets the current task, replacing any previous one.
func (c *Coordinator) RequestTaskSubmit(name string) error {
	task, err := c.ledger.SetCurrent(name)
	if err != nil {
		return err
	}
	c.logger.Debug("current task set", "task", task.Name, "id", task.ID)
	return nil
}

// SkipBreak ends a break early without touching statistics. It reports
// false in work mode.
func (c *Coordinator) SkipBreak() bool {
	if !c.mode.IsBreak() {
		return false
	}
	c.endInterval(store.IntervalCancelled)
	c.setMode(ModeWork)
	c.loadDuration(ModeWork)
	c.notify(NoticeInfo, "Break skipped")
	return true
}

// UpdateSettings validates and applies s, persisting it when a settings
// store is wired. An idle engine is reloaded with the new duration.
func (c *Coordinator) UpdateSettings(s config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	if st := c.engine.State(); st == timer.Idle || st == timer.Completed {
		c.loadDuration(c.mode)
	}
	if c.store == nil {
		return nil
	}
	return config.SaveSettings(c.store, s)
}

// ToggleSound flips the sound setting and returns the new value.
func (c *Coordinator) ToggleSound() bool {
	s := c.settings
	s.SoundEnabled = !s.SoundEnabled
	if err := c.UpdateSettings(s); err != nil {
		c.logger.Debug("persist sound setting", "err", err)
	}
	return c.settings.SoundEnabled
}

// Report forwards a rejected request to the notice observers.
func (c *Coordinator) Report(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if errors.Is(err, ErrMissingTask) {
		msg = "Enter a task before starting a work session"
	}
	c.logger.Info("request rejected", "err", err)
	c.notify(NoticeError, msg)
}

func (c *Coordinator) Engine() *timer.Engine     { return c.engine }
func (c *Coordinator) Ledger() *ledger.Ledger    { return c.ledger }
func (c *Coordinator) Stats() *stats.Store       { return c.stats }
func (c *Coordinator) Settings() config.Settings { return c.settings }
func (c *Coordinator) SoundEnabled() bool        { return c.settings.SoundEnabled }
func (c *Coordinator) Mode() Mode                { return c.mode }
func (c *Coordinator) CompletedSessions() int    { return c.completedSessions }
func (c *Coordinator) LongBreaks() int           { return c.longBreaks }

// CurrentTask returns the name of the current task, or "".
func (c *Coordinator) CurrentTask() string {
	t, ok := c.ledger.Current()
	if !ok {
		return ""
	}
	return t.Name
}

func (c *Coordinator) handleComplete() {
	c.endInterval(store.IntervalCompleted)

	if c.mode.IsBreak() {
		c.setMode(ModeWork)
		c.notify(NoticeInfo, "Break over, back to work")
		return
	}

	minutes := c.settings.WorkMinutes
	if _, ok := c.ledger.Current(); ok {
		rec, err := c.ledger.CompleteCurrent(minutes)
		if err != nil {
			c.logger.Error("complete task", "err", err)
		} else {
			c.stats.IncrementTasks()
			for _, fn := range c.onTask {
				c.guard("task_appended", func() { fn(rec) })
			}
		}
	}
	c.stats.RecordSession(minutes)
	c.completedSessions++
	today := c.stats.Today()
	for _, fn := range c.onStats {
		c.guard("stats_changed", func() { fn(today) })
	}

	if c.completedSessions%c.settings.SessionsBeforeLongBreak == 0 {
		c.longBreaks++
		c.setMode(ModeLongBreak)
		c.notify(NoticeInfo, "Work session complete, time for a long break")
		return
	}
	c.setMode(ModeShortBreak)
	c.notify(NoticeInfo, "Work session complete, time for a short break")
}

func (c *Coordinator) modeSeconds(m Mode) int {
	switch m {
	case ModeShortBreak:
		return c.settings.BreakMinutes * 60
	case ModeLongBreak:
		return c.settings.LongBreakMinutes * 60
	}
	return c.settings.WorkMinutes * 60
}

func (c *Coordinator) setMode(next Mode) {
	prev := c.mode
	if next == prev {
		return
	}
	c.mode = next
	for _, fn := range c.onMode {
		c.guard("mode_change", func() { fn(next, prev) })
	}
}

func (c *Coordinator) notify(level NoticeLevel, msg string) {
	n := Notice{Level: level, Message: msg}
	for _, fn := range c.onNotice {
		c.guard("notice", func() { fn(n) })
	}
}

// guard runs an observer and recovers its panic so the session bookkeeping
// that follows it still runs.
func (c *Coordinator) guard(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("session observer failed", "event", event, "panic", r)
		}
	}()
	fn()
}

// loadDuration resets the engine to the length of mode.
func (c *Coordinator) loadDuration(m Mode) {
	if err := c.engine.SetDuration(c.modeSeconds(m)); err != nil {
		c.logger.Debug("load duration", "mode", m, "err", err)
	}
}

func (c *Coordinator) beginInterval(seconds int) {
	if c.intervals == nil {
		return
	}
	iv, err := c.intervals.StartInterval(c.mode.String(), seconds, c.CurrentTask())
	if err != nil {
		c.logger.Debug("record interval start", "mode", c.mode, "err", err)
		return
	}
	c.intervalID = iv.ID
}

func (c *Coordinator) endInterval(status string) {
	if c.intervals == nil || c.intervalID == 0 {
		return
	}
	if err := c.intervals.FinishInterval(c.intervalID, status); err != nil {
		c.logger.Debug("record interval finish", "id", c.intervalID, "err", err)
	}
	c.intervalID = 0
}
