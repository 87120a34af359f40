package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewHistory
	viewReports
	viewSettings
)

var viewNames = []string{"Timer", "History", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// Coordinator notifications, queued by the event feed.

type noticeMsg session.Notice

type completeMsg struct{}

type stateChangedMsg struct {
	next, prev timer.State
}

type modeChangedMsg struct {
	next, prev session.Mode
}

type taskAppendedMsg struct {
	task store.CompletedTask
}

type statsChangedMsg struct {
	today store.DailyStats
}

// --- Helpers ---

// formatClock renders seconds as MM:SS, clamping negatives to zero.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// formatMinutes renders a minute count as "1h 05m" or "25m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatHours(mins int) string {
	return fmt.Sprintf("%.1fh", float64(mins)/60)
}
