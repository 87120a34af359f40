package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	historyCmd.Flags().IntVar(&historyTop, "top", 0, "Show the N most productive tasks")
	historyCmd.Flags().StringVar(&historyTask, "task", "", "Show statistics for one task")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of recent tasks to list")
	rootCmd.AddCommand(historyCmd)
}

var (
	historyTop   int
	historyTask  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls"},
	Short:   "List completed tasks",
	Args:    cobra.NoArgs,
	RunE:    runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	switch {
	case historyTask != "":
		st, err := e.ledger.Stats(historyTask)
		if err != nil {
			return err
		}
		if st.SessionCount == 0 {
			fmt.Fprintf(out, "No completions for %q.\n", strings.TrimSpace(historyTask))
			return nil
		}
		fmt.Fprintf(w, "Task:\t%s\n", st.Name)
		fmt.Fprintf(w, "Sessions:\t%d\n", st.SessionCount)
		fmt.Fprintf(w, "Total:\t%d min\n", st.TotalDuration)
		fmt.Fprintf(w, "Average:\t%.1f min\n", st.AverageDuration)
		fmt.Fprintf(w, "Last completed:\t%s\n", st.LastCompleted.Local().Format("2006-01-02 15:04"))
		return w.Flush()

	case cmd.Flags().Changed("top"):
		top, err := e.ledger.MostProductive(historyTop)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "TASK\tMINUTES\tSESSIONS")
		for _, s := range top {
			fmt.Fprintf(w, "%s\t%d\t%d\n", s.Name, s.TotalDuration, s.SessionCount)
		}
		return w.Flush()
	}

	recent := e.ledger.Recent(historyLimit)
	if len(recent) == 0 {
		fmt.Fprintln(out, "No completed tasks yet. Run 'pomo' to start a session.")
		return nil
	}
	fmt.Fprintln(w, "COMPLETED\tTASK\tMINUTES\tSESSION")
	for _, t := range recent {
		fmt.Fprintf(w, "%s\t%s\t%d\t#%d\n",
			t.CompletedAt.Local().Format("2006-01-02 15:04"), t.Name, t.DurationMinutes, t.SessionCount)
	}
	return w.Flush()
}
