package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aadipatodia/Scheduler/internal/api"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var noSweep bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the nightly missed-task sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := app.logger()
			srv := api.NewServer(api.Services{
				Goals:         app.Goals,
				Roadmaps:      app.Roadmaps,
				Tasks:         app.Tasks,
				Recalibration: app.Recalibration,
				Stats:         app.Stats,
			}, log)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(gctx, addr)
			})
			if !noSweep {
				g.Go(func() error {
					return app.Recalibration.RunDaily(gctx)
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			log.Info("serve_started", zap.String("addr", addr), zap.Bool("daily_sweep", !noSweep))
			err := g.Wait()
			log.Info("serve_stopped", zap.Error(err))
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.ServerAddr, "Listen address")
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "Do not run the midnight recalibration loop")

	return cmd
}
