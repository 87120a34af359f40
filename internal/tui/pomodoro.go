package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/timer"
)

const recentHistoryRows = 5

// pomodoroModel is the timer view: countdown, current task and the task
// entry field.
type pomodoroModel struct {
	coord  *session.Coordinator
	width  int
	height int

	input       textinput.Model
	formActive  bool
	showHistory bool
}

func newPomodoroModel(c *session.Coordinator) pomodoroModel {
	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 120
	ti.Prompt = "task> "
	return pomodoroModel{
		coord:       c,
		input:       ti,
		showHistory: true,
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.input.Width = max(w-16, 10)
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive {
		return p.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch {
	case key.Matches(km, keys.Start):
		p.coord.Report(p.coord.RequestStart())
	case key.Matches(km, keys.Pause):
		switch p.coord.Engine().State() {
		case timer.Running:
			p.coord.RequestPause()
		case timer.Paused:
			p.coord.Report(p.coord.RequestStart())
		}
	case key.Matches(km, keys.Reset):
		p.coord.RequestReset()
	case key.Matches(km, keys.Skip):
		p.coord.SkipBreak()
	case key.Matches(km, keys.NewTask):
		return p.showInput()
	case key.Matches(km, keys.History):
		p.showHistory = !p.showHistory
	}
	return p, nil
}

func (p pomodoroModel) showInput() (pomodoroModel, tea.Cmd) {
	p.formActive = true
	p.input.SetValue(p.coord.CurrentTask())
	p.input.CursorEnd()
	return p, p.input.Focus()
}

func (p pomodoroModel) updateInput(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Back):
			p.closeInput()
			return p, nil
		case key.Matches(km, keys.Enter):
			if err := p.coord.RequestTaskSubmit(p.input.Value()); err != nil {
				p.coord.Report(err)
				return p, nil
			}
			p.closeInput()
			return p, func() tea.Msg { return statusMsg{text: "Task set: " + p.coord.CurrentTask()} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *pomodoroModel) closeInput() {
	p.formActive = false
	p.input.Blur()
	p.input.SetValue("")
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	e := p.coord.Engine()
	mode := p.coord.Mode()

	title := titleStyle.Render("Pomodoro Timer")

	modeStyle := accentStyle
	switch mode {
	case session.ModeShortBreak:
		modeStyle = successStyle
	case session.ModeLongBreak:
		modeStyle = highlightStyle
	}
	phaseLabel := modeStyle.Bold(true).Render(strings.ToUpper(mode.Label()))

	var timeDisplay, indicator string
	clock := formatClock(e.RemainingSeconds())
	switch e.State() {
	case timer.Running:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(clock)
		indicator = successStyle.Render("●  RUNNING")
	case timer.Paused:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(clock)
		indicator = warningStyle.Render("⏸  PAUSED")
	case timer.Completed:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		indicator = mutedStyle.Render("Press s to start the " + strings.ToLower(mode.Label()))
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		indicator = mutedStyle.Render("■  READY")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		phaseLabel,
		timeDisplay,
		indicator,
		"",
		renderBar(e.Progress(), min(w-10, 50)),
		p.renderCycle(),
		"",
		p.renderTask(),
	)

	sections := []string{content, "", mutedStyle.Render(p.controls())}
	if p.showHistory {
		sections = append(sections, "", p.renderRecent())
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (p pomodoroModel) renderTask() string {
	if p.formActive {
		return p.input.View()
	}
	if name := p.coord.CurrentTask(); name != "" {
		return mutedStyle.Render("Task: ") + highlightStyle.Render(name)
	}
	if p.coord.Mode().IsBreak() {
		return mutedStyle.Render("On a break")
	}
	return warningStyle.Render("No task set. Press n to add one")
}

// renderCycle shows the work sessions done toward the next long break.
func (p pomodoroModel) renderCycle() string {
	target := p.coord.Settings().SessionsBeforeLongBreak
	done := p.coord.CompletedSessions() % target
	if p.coord.Mode() == session.ModeLongBreak {
		done = target
	}
	var parts []string
	for i := 0; i < target; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && p.coord.Mode() == session.ModeWork && p.coord.Engine().State() != timer.Idle:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d today", p.coord.Stats().Today().Sessions))
	return strings.Join(parts, " ") + counter
}

func (p pomodoroModel) renderRecent() string {
	recent := p.coord.Ledger().Recent(recentHistoryRows)
	if len(recent) == 0 {
		return mutedStyle.Render("No completed tasks yet")
	}
	rows := []string{titleStyle.Render("Recent")}
	for _, t := range recent {
		rows = append(rows, fmt.Sprintf("  ✓ %s  %-24s %s",
			t.CompletedAt.Local().Format("15:04"), t.Name, formatMinutes(t.DurationMinutes)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (p pomodoroModel) controls() string {
	if p.formActive {
		return "enter: set task  esc: cancel"
	}
	switch p.coord.Engine().State() {
	case timer.Running:
		if p.coord.Mode().IsBreak() {
			return "space: pause  b: skip break  x: reset"
		}
		return "space: pause  x: reset  n: change task"
	case timer.Paused:
		return "space: resume  x: reset"
	}
	if p.coord.Mode().IsBreak() {
		return "s: start break  b: skip break  x: reset"
	}
	return "s: start  n: new task  h: history"
}

// renderBar draws a progress bar for a percentage in [0,100].
func renderBar(progress float64, width int) string {
	if width < 10 {
		width = 10
	}
	filled := int(progress / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, progress)
}
