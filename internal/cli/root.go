// Package cli implements the pomo command-line interface using Cobra.
// Without a subcommand it launches the terminal UI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "pomo - a terminal pomodoro timer",
	Long: `pomo runs work sessions against a task, alternates them with short and
long breaks, and keeps a history of completed tasks and daily statistics.

Run without arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/pomo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides config)")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
