package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sadopc/pomo/internal/api"
	"github.com/spf13/cobra"
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local statistics API",
	Long:  `Serve task history and daily statistics as JSON, by default on 127.0.0.1:7420.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	addr := e.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
	return api.NewServer(e.ledger, e.stats, e.logger).Serve(ctx, addr)
}
