package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and finalize closed proposals",
		Long: `Serve the association's HTTP API for the frontend, with Prometheus metrics
at /metrics. Unless disabled with sweeper.enabled = false, proposals whose
voting has closed are finalized on the sweeper schedule.

Environment:
  COOP_HTTP_ADDR              listen address (default :8080)
  COOP_SWEEPER_SCHEDULE       cron schedule (default every minute)`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if app.Config.Sweeper.Enabled {
				if err := app.Sweeper.Start(); err != nil {
					return err
				}
				defer app.Sweeper.Stop()
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s on %s\n", app.Registry.Genesis().SchoolName, app.Server.Addr())
			return app.Server.Run(ctx)
		},
	}
}
