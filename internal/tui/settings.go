package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/config"
	"github.com/sadopc/pomo/internal/session"
)

type settingsModel struct {
	coord  *session.Coordinator
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	workMinutes      *string
	breakMinutes     *string
	longBreakMinutes *string
	sessionsPerLong  *string
	soundEnabled     *bool
	darkMode         *bool
}

func newSettingsModel(c *session.Coordinator) settingsModel {
	w, b, lb, n := "", "", "", ""
	sound, dark := false, false
	return settingsModel{
		coord:            c,
		workMinutes:      &w,
		breakMinutes:     &b,
		longBreakMinutes: &lb,
		sessionsPerLong:  &n,
		soundEnabled:     &sound,
		darkMode:         &dark,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsSavedMsg struct {
	settings config.Settings
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.coord.Settings()
	*s.workMinutes = strconv.Itoa(cur.WorkMinutes)
	*s.breakMinutes = strconv.Itoa(cur.BreakMinutes)
	*s.longBreakMinutes = strconv.Itoa(cur.LongBreakMinutes)
	*s.sessionsPerLong = strconv.Itoa(cur.SessionsBeforeLongBreak)
	*s.soundEnabled = cur.SoundEnabled
	*s.darkMode = cur.DarkMode

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Value(s.workMinutes).Validate(validatePositive),
			huh.NewInput().Title("Short break (min)").Value(s.breakMinutes).Validate(validatePositive),
			huh.NewInput().Title("Long break (min)").Value(s.longBreakMinutes).Validate(validatePositive),
			huh.NewInput().Title("Sessions before long break").Value(s.sessionsPerLong).Validate(validatePositive),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Sound").Affirmative("On").Negative("Off").Value(s.soundEnabled),
			huh.NewConfirm().Title("Dark mode").Affirmative("On").Negative("Off").Value(s.darkMode),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save()
	}

	return s, cmd
}

// save applies the form values through the coordinator.
func (s settingsModel) save() tea.Cmd {
	next, err := s.values()
	if err == nil {
		err = s.coord.UpdateSettings(next)
	}
	if err != nil {
		s.coord.Report(err)
		return nil
	}
	return func() tea.Msg { return settingsSavedMsg{settings: next} }
}

func (s settingsModel) values() (config.Settings, error) {
	var out config.Settings
	fields := []struct {
		raw *string
		dst *int
	}{
		{s.workMinutes, &out.WorkMinutes},
		{s.breakMinutes, &out.BreakMinutes},
		{s.longBreakMinutes, &out.LongBreakMinutes},
		{s.sessionsPerLong, &out.SessionsBeforeLongBreak},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(*f.raw))
		if err != nil {
			return out, fmt.Errorf("%w: %q is not a number", config.ErrInvalidSettings, *f.raw)
		}
		*f.dst = n
	}
	out.SoundEnabled = *s.soundEnabled
	out.DarkMode = *s.darkMode
	return out, nil
}

func validatePositive(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return errors.New("enter a whole number above zero")
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	cur := s.coord.Settings()
	entries := []struct {
		label string
		value string
	}{
		{"Work", fmt.Sprintf("%d min", cur.WorkMinutes)},
		{"Short break", fmt.Sprintf("%d min", cur.BreakMinutes)},
		{"Long break", fmt.Sprintf("%d min", cur.LongBreakMinutes)},
		{"Sessions before long break", strconv.Itoa(cur.SessionsBeforeLongBreak)},
		{"Sound", onOff(cur.SoundEnabled)},
		{"Dark mode", onOff(cur.DarkMode)},
	}

	rows := []string{title, ""}
	for _, e := range entries {
		label := lipgloss.NewStyle().Width(28).Render(e.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(e.value)))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
