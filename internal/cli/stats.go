package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetDailyCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's and this week's statistics",
	RunE:  runStats,
}

var resetDailyCmd = &cobra.Command{
	Use:   "reset-daily",
	Short: "Zero today's statistics",
	Args:  cobra.NoArgs,
	RunE:  runResetDaily,
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	today := e.stats.Today()
	streak := e.ledger.Streak()
	fmt.Fprintf(out, "Today (%s): %d sessions, %d min focused, %d tasks\n",
		today.Date, today.Sessions, today.TotalMinutes, today.TasksCompleted)
	fmt.Fprintf(out, "Productivity score: %d\n", e.ledger.ProductivityScore())
	fmt.Fprintf(out, "Streak: %d days (longest %d)\n", streak.Current, streak.Longest)

	sessions, minutes, tasks := e.stats.Totals()
	fmt.Fprintf(out, "All time: %d sessions, %d min focused, %d tasks\n", sessions, minutes, tasks)

	if e.db != nil {
		now := e.stats.Now()
		completed, cancelled, err := e.db.IntervalStats(now.AddDate(0, 0, -7), now.Add(time.Second))
		if err == nil {
			fmt.Fprintf(out, "Intervals this week: %d completed, %d cancelled\n", completed, cancelled)
		}
	} else {
		fmt.Fprintln(out, "Database unavailable, showing this session only")
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSESSIONS\tMINUTES\tTASKS")
	for _, ds := range e.stats.Weekly() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", ds.Date, ds.Sessions, ds.TotalMinutes, ds.TasksCompleted)
	}
	return w.Flush()
}

func runResetDaily(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.stats.ResetDaily() {
		return fmt.Errorf("reset daily statistics: %w", errNoDatabase)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Statistics for %s reset.\n", e.stats.Today().Date)
	return nil
}
