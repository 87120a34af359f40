package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/stats"
	"github.com/sadopc/pomo/internal/store"
)

type reportMetric int

const (
	metricMinutes reportMetric = iota
	metricSessions
)

type reportsModel struct {
	coord  *session.Coordinator
	width  int
	height int

	metric reportMetric
	days   []store.DailyStats
	offset int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(c *session.Coordinator) reportsModel {
	return reportsModel{
		coord: c,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	days []store.DailyStats
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange(r.coord.Stats().Now())
		return reportsDataMsg{days: r.coord.Stats().Range(from, to)}
	}
}

// dateRange returns the first and last day of the window, both inclusive.
func (r reportsModel) dateRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, -stats.WeekDays*r.offset)
	return end.AddDate(0, 0, 1-stats.WeekDays), end
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.days = msg.days
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Metric):
			if r.metric == metricMinutes {
				r.metric = metricSessions
			} else {
				r.metric = metricMinutes
			}
			r.buildChart()
			return r, nil
		}
	}
	return r, nil
}

func (r reportsModel) value(ds store.DailyStats) float64 {
	if r.metric == metricSessions {
		return float64(ds.Sessions)
	}
	return float64(ds.TotalMinutes) / 60
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	if r.metric == metricSessions {
		barStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	}

	var bars []barchart.BarData
	for _, ds := range r.days {
		label := ds.Date
		if d, err := time.Parse(store.DateLayout, ds.Date); err == nil {
			label = d.Format("Mon 02")
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  r.metricName(),
				Value: r.value(ds),
				Style: barStyle,
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) metricName() string {
	if r.metric == metricSessions {
		return "Sessions"
	}
	return "Hours"
}

func (r reportsModel) view() string {
	w := r.width - 4

	minutesTab := inactiveTabStyle.Render("Hours")
	sessionsTab := inactiveTabStyle.Render("Sessions")
	if r.metric == metricMinutes {
		minutesTab = activeTabStyle.Render("Hours")
	} else {
		sessionsTab = activeTabStyle.Render("Sessions")
	}
	metricTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, minutesTab, sessionsTab)

	from, to := r.dateRange(r.coord.Stats().Now())
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", metricTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  t: hours/sessions")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	var sessions, minutes, tasks int
	for _, ds := range r.days {
		sessions += ds.Sessions
		minutes += ds.TotalMinutes
		tasks += ds.TasksCompleted
	}
	if sessions == 0 && tasks == 0 {
		return mutedStyle.Render("  No sessions in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %8s", "Date", "Sessions", "Focused", "Tasks")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))
	for _, ds := range r.days {
		rows = append(rows, fmt.Sprintf("  %-12s %10d %10s %8d",
			ds.Date, ds.Sessions, formatMinutes(ds.TotalMinutes), ds.TasksCompleted))
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))
	rows = append(rows, titleStyle.Render(fmt.Sprintf("  %-12s %10d %10s %8d",
		"Total", sessions, formatHours(minutes), tasks)))

	return strings.Join(rows, "\n")
}
