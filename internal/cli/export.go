package cli

import (
	"fmt"

	"github.com/sadopc/pomo/internal/export"
	"github.com/spf13/cobra"
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv, json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default pomo-export-<time>.<format>)")
	rootCmd.AddCommand(exportCmd)
}

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export task history and daily statistics",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	path := exportOut
	if path == "" {
		path = export.DefaultFileName(format, e.stats.Now())
	}
	data := export.Collect(e.ledger, e.stats)
	if err := export.Write(format, data, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(data.Tasks), path)
	return nil
}
