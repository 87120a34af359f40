package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/ledger"
	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/store"
)

const (
	historyRows = 10
	topTaskRows = 5
)

// historyModel shows today's figures, the most productive tasks and the
// recent completions.
type historyModel struct {
	coord  *session.Coordinator
	width  int
	height int

	today  store.DailyStats
	score  int
	streak ledger.StreakInfo
	top    []ledger.Summary
	recent []store.CompletedTask
	total  int
}

func newHistoryModel(c *session.Coordinator) historyModel {
	h := historyModel{coord: c}
	return h.apply(h.collect())
}

func (h *historyModel) setSize(w, height int) {
	h.width = w
	h.height = height
}

type historyDataMsg struct {
	today  store.DailyStats
	score  int
	streak ledger.StreakInfo
	top    []ledger.Summary
	recent []store.CompletedTask
	total  int
}

func (h historyModel) loadData() tea.Cmd {
	return func() tea.Msg { return h.collect() }
}

func (h historyModel) collect() historyDataMsg {
	l := h.coord.Ledger()
	top, _ := l.MostProductive(topTaskRows)
	return historyDataMsg{
		today:  h.coord.Stats().Today(),
		score:  l.ProductivityScore(),
		streak: l.Streak(),
		top:    top,
		recent: l.Recent(historyRows),
		total:  len(l.History()),
	}
}

func (h historyModel) apply(msg historyDataMsg) historyModel {
	h.today = msg.today
	h.score = msg.score
	h.streak = msg.streak
	h.top = msg.top
	h.recent = msg.recent
	h.total = msg.total
	return h
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		return h.apply(msg), nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Clear) {
			if h.total == 0 {
				return h, nil
			}
			persisted := h.coord.Ledger().ClearHistory()
			text := "History cleared"
			if !persisted {
				text = "History cleared (not saved)"
			}
			return h.apply(h.collect()), func() tea.Msg { return statusMsg{text: text} }
		}
	}
	return h, nil
}

func (h historyModel) view() string {
	if h.width < 20 {
		return "Terminal too small"
	}
	w := h.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		h.renderTodayPanel(w),
		h.renderTopPanel(w),
		h.renderRecentPanel(w),
	)
}

func (h historyModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	stats := fmt.Sprintf("%s sessions  %s focused  %s tasks",
		highlightStyle.Render(fmt.Sprint(h.today.Sessions)),
		highlightStyle.Render(formatMinutes(h.today.TotalMinutes)),
		highlightStyle.Render(fmt.Sprint(h.today.TasksCompleted)),
	)
	extra := fmt.Sprintf("Score %s   Streak %s (best %d)",
		scoreStyle(h.score).Render(fmt.Sprintf("%d/100", h.score)),
		highlightStyle.Render(fmt.Sprintf("%d days", h.streak.Current)),
		h.streak.Longest,
	)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, stats, extra))
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return successStyle
	case score >= 40:
		return warningStyle
	}
	return mutedStyle
}

func (h historyModel) renderTopPanel(w int) string {
	title := titleStyle.Render("Most Productive")
	if len(h.top) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No completed tasks yet"),
		))
	}

	rows := []string{title}
	for i, s := range h.top {
		rows = append(rows, fmt.Sprintf("  %d. %-24s %8s  (%d sessions)",
			i+1, s.Name, formatMinutes(s.TotalDuration), s.SessionCount))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h historyModel) renderRecentPanel(w int) string {
	title := titleStyle.Render(fmt.Sprintf("Completed Tasks (%d)", h.total))
	if len(h.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing yet. Finish a work session to record a task."),
		))
	}

	rows := []string{title}
	for _, t := range h.recent {
		rows = append(rows, fmt.Sprintf("  ✓ %s %s  %-24s %s  #%d",
			t.Date,
			t.CompletedAt.Local().Format("15:04"),
			t.Name,
			formatMinutes(t.DurationMinutes),
			t.SessionCount,
		))
	}
	rows = append(rows, "", mutedStyle.Render("  D: clear history"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
