package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
)

func newRecalibrateCmd(app *App) *cobra.Command {
	var goal string
	var history bool

	cmd := &cobra.Command{
		Use:   "recalibrate",
		Short: "Mark overdue tasks missed and adjust affected goals",
		Long: `Without --goal, every due task scheduled before today is marked missed
and each affected goal is recalibrated. With --goal, that goal's missed
tasks are analysed without sweeping.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if goal != "" {
				g, err := resolveGoal(ctx, app, goal)
				if err != nil {
					return err
				}
				if history {
					logs, err := app.Recalibration.ListLogs(ctx, g.ID)
					if err != nil {
						return err
					}
					fmt.Fprint(out, formatter.FormatRecalibrationLogs(logs))
					return nil
				}

				stop := app.spin(cmd, "Analysing missed tasks...")
				rec, err := app.Recalibration.RecalibrateGoal(ctx, g.ID)
				stop()
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatRecalibration(g.Title, rec))
				return nil
			}

			if history {
				return fmt.Errorf("--history needs --goal")
			}

			stop := app.spin(cmd, "Sweeping overdue tasks...")
			res, err := app.Recalibration.Sweep(ctx, app.now())
			stop()
			if err != nil {
				return err
			}

			titles := make(map[string]string, len(res.Goals))
			for _, rec := range res.Goals {
				if g, err := app.Goals.GetByID(ctx, rec.GoalID); err == nil {
					titles[g.ID] = g.Title
				}
			}
			fmt.Fprint(out, formatter.FormatSweep(res, titles))
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "", "Recalibrate one goal from its missed tasks")
	cmd.Flags().BoolVar(&history, "history", false, "List past recalibrations for --goal")

	return cmd
}
