package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/export"
	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	coord  *session.Coordinator
	clock  *timer.ManualClock
	events *eventFeed
	bell   io.Writer
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	pomodoro pomodoroModel
	history  historyModel
	reports  reportsModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

// NewApp wires the views to the coordinator. clock must be the scheduler
// the coordinator's engine was built with; the App pumps it once a second.
func NewApp(c *session.Coordinator, clock *timer.ManualClock) App {
	h := help.New()
	h.ShowAll = false

	applyTheme(c.Settings().DarkMode)
	home, _ := os.UserHomeDir()

	return App{
		coord:      c,
		clock:      clock,
		events:     newEventFeed(c),
		bell:       os.Stderr,
		exportDir:  home,
		activeView: viewTimer,
		pomodoro:   newPomodoroModel(c),
		history:    newHistoryModel(c),
		reports:    newReportsModel(c),
		settings:   newSettingsModel(c),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.reports.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	a, cmd = a.drainEvents(cmd)
	return a, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.pomodoro.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, a.reports.refresh()

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Mute):
			state := "off"
			if a.coord.ToggleSound() {
				state = "on"
			}
			a.status, a.statusError = "Sound "+state, false
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, a.history.loadData()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		a.clock.Tick()
		return a, tickCmd()

	case statusMsg:
		a.status, a.statusError = msg.text, msg.isError
		return a, nil

	case settingsSavedMsg:
		applyTheme(msg.settings.DarkMode)
		a.status, a.statusError = "Settings saved", false
		return a, a.reports.refresh()

	case exportDoneMsg:
		a.status, a.statusError = "Exported to "+msg.path, false
		a.exportPicking = false
		return a, nil

	case historyDataMsg:
		a.history = a.history.apply(msg)
		return a, nil

	case reportsDataMsg:
		a.reports, _ = a.reports.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

// drainEvents applies the coordinator notifications raised during this
// update, in order.
func (a App) drainEvents(cmd tea.Cmd) (App, tea.Cmd) {
	cmds := []tea.Cmd{cmd}
	for _, msg := range a.events.drain() {
		var c tea.Cmd
		a, c = a.handleEvent(msg)
		cmds = append(cmds, c)
	}
	return a, tea.Batch(cmds...)
}

func (a App) handleEvent(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		a.status = msg.Message
		a.statusError = msg.Level == session.NoticeError
	case completeMsg:
		if a.coord.SoundEnabled() {
			fmt.Fprint(a.bell, "\a")
		}
	case stateChangedMsg:
		switch msg.next {
		case timer.Running:
			a.status, a.statusError = a.coord.Mode().Label()+" started", false
		case timer.Paused:
			a.status, a.statusError = "Paused", false
		case timer.Idle:
			if msg.prev == timer.Running || msg.prev == timer.Paused {
				a.status, a.statusError = "Timer reset", false
			}
		}
	case taskAppendedMsg, statsChangedMsg:
		a.history = a.history.apply(a.history.collect())
		return a, a.reports.refresh()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimer:
		return a.pomodoro.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHistory:
		return a.history.loadData()
	case viewReports:
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.pomodoro.view()
	case viewHistory:
		content = a.history.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pomo")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator in footer
	timerInfo := ""
	e := a.coord.Engine()
	switch e.State() {
	case timer.Running:
		timerInfo = successStyle.Render(" ● " + formatClock(e.RemainingSeconds()))
	case timer.Paused:
		timerInfo = warningStyle.Render(" ⏸ " + formatClock(e.RemainingSeconds()))
	}
	if !a.coord.SoundEnabled() {
		timerInfo += mutedStyle.Render(" 🔇")
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	return func() tea.Msg {
		data := export.Collect(a.coord.Ledger(), a.coord.Stats())
		path := filepath.Join(a.exportDir, export.DefaultFileName(format, time.Now()))
		if err := export.Write(format, data, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
