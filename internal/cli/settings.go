package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/sadopc/pomo/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

var errNoDatabase = errors.New("database unavailable")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the stored settings",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func runSettings(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if e.db == nil {
		return errNoDatabase
	}

	pairs, err := e.db.GetAllSettings()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, p := range pairs {
		fmt.Fprintf(w, "%s\t%s\n", p.Key, p.Value)
	}
	return w.Flush()
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if e.db == nil {
		return errNoDatabase
	}

	s := e.settings()
	if err := s.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveSettings(e.db, s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}
