package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
	"github.com/aadipatodia/Scheduler/internal/repository"
)

func newStatsCmd(app *App) *cobra.Command {
	var goal string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress across goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if goal != "" {
				g, err := resolveGoal(ctx, app, goal)
				if err != nil {
					return err
				}
				gp, err := app.Stats.GoalProgress(ctx, g.ID)
				if err != nil {
					return err
				}
				rm, err := app.Roadmaps.GetByGoal(ctx, g.ID)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
				fmt.Fprint(out, formatter.FormatGoalDetail(gp, rm, app.now()))
				return nil
			}

			ov, err := app.Stats.Overview(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatOverview(ov, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "", "Show one goal in detail")

	return cmd
}
