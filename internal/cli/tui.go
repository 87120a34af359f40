package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/timer"
	"github.com/sadopc/pomo/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	coord, clock := e.coordinator()
	app := tui.NewApp(coord, clock)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// coordinator wires a timer engine, driven by a manual clock, to the
// ledger and statistics.
func (e *env) coordinator() (*session.Coordinator, *timer.ManualClock) {
	clock := timer.NewManualClock()
	deps := session.Deps{
		Engine: timer.New(0, clock, e.logger),
		Ledger: e.ledger,
		Stats:  e.stats,
		Logger: e.logger,
	}
	if e.db != nil {
		deps.Intervals = e.db
		deps.Settings = e.db
	}
	return session.New(deps, e.settings()), clock
}
