package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

// eventFeed collects coordinator notifications raised while Update runs.
// The App is copied by value on every Update, so the queue lives behind a
// pointer shared by all copies.
type eventFeed struct {
	queue []tea.Msg
}

func newEventFeed(c *session.Coordinator) *eventFeed {
	f := &eventFeed{}
	c.OnComplete(func() { f.push(completeMsg{}) })
	c.OnStateChange(func(next, prev timer.State) { f.push(stateChangedMsg{next: next, prev: prev}) })
	c.OnModeChange(func(next, prev session.Mode) { f.push(modeChangedMsg{next: next, prev: prev}) })
	c.OnTaskAppended(func(t store.CompletedTask) { f.push(taskAppendedMsg{task: t}) })
	c.OnStatsChanged(func(ds store.DailyStats) { f.push(statsChangedMsg{today: ds}) })
	c.OnNotice(func(n session.Notice) { f.push(noticeMsg(n)) })
	return f
}

func (f *eventFeed) push(msg tea.Msg) {
	f.queue = append(f.queue, msg)
}

// drain returns the queued messages in arrival order and empties the queue.
func (f *eventFeed) drain() []tea.Msg {
	out := f.queue
	f.queue = nil
	return out
}
