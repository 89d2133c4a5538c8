package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
)

func newRoadmapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Draft, review and approve goal roadmaps",
	}

	cmd.AddCommand(
		newRoadmapGenerateCmd(app),
		newRoadmapShowCmd(app),
		newRoadmapRefineCmd(app),
		newRoadmapImportCmd(app),
		newRoadmapPreviewCmd(app),
		newRoadmapApproveCmd(app),
	)

	return cmd
}

func newRoadmapGenerateCmd(app *App) *cobra.Command {
	var extra string

	cmd := &cobra.Command{
		Use:   "generate GOAL",
		Short: "Draft a roadmap for a goal with the language model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}

			stop := app.spin(cmd, "Drafting roadmap...")
			rm, err := app.Roadmaps.Generate(ctx, g.ID, extra)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatRoadmap(rm))
			fmt.Fprintf(out, "\nNext: scheduler roadmap preview %s\n", g.ShortID())
			return nil
		},
	}

	cmd.Flags().StringVar(&extra, "context", "", "Extra context for the draft (experience, constraints)")

	return cmd
}

func newRoadmapShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show GOAL",
		Short: "Show a goal's roadmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			rm, err := app.Roadmaps.GetByGoal(ctx, g.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRoadmap(rm))
			return nil
		},
	}
}

func newRoadmapRefineCmd(app *App) *cobra.Command {
	var feedback string

	cmd := &cobra.Command{
		Use:   "refine GOAL",
		Short: "Revise a roadmap from feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			rm, err := app.Roadmaps.GetByGoal(ctx, g.ID)
			if err != nil {
				return err
			}

			stop := app.spin(cmd, "Refining roadmap...")
			rm, err = app.Roadmaps.Refine(ctx, rm.ID, feedback)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRoadmap(rm))
			return nil
		},
	}

	cmd.Flags().StringVar(&feedback, "feedback", "", "What to change")
	_ = cmd.MarkFlagRequired("feedback")

	return cmd
}

func newRoadmapImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import GOAL FILE",
		Short: "Use phases from a JSON or YAML file as the goal's roadmap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			rm, err := app.Roadmaps.ImportPhases(ctx, g.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d phases for %s\n\n", len(rm.Phases), formatter.Bold(g.Title))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRoadmap(rm))
			return nil
		},
	}
}

func newRoadmapPreviewCmd(app *App) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "preview GOAL",
		Short: "Compute the day-by-day schedule without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}

			stop := app.spin(cmd, "Planning schedule...")
			p, err := app.Roadmaps.Preview(ctx, g.ID)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case day > 0:
				if day > p.TotalDays {
					return fmt.Errorf("day %d is past the end of the schedule (%d days)", day, p.TotalDays)
				}
				fmt.Fprint(out, formatter.FormatScheduleDay(p, day))
			case app.interactive():
				prog := tea.NewProgram(newPreviewPager(p), tea.WithAltScreen(), tea.WithOutput(out))
				_, err := prog.Run()
				return err
			default:
				fmt.Fprint(out, formatter.FormatSchedulePreview(p))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Show a single day of the schedule")

	return cmd
}

func newRoadmapApproveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "approve GOAL",
		Short: "Approve a roadmap and write its schedule as tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			rm, err := app.Roadmaps.GetByGoal(ctx, g.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes && app.interactive() {
				confirmed := false
				desc := "Pending scheduled tasks for this goal are replaced."
				if err := confirmForm(fmt.Sprintf("Approve the roadmap for %q?", g.Title), desc, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			stop := app.spin(cmd, "Scheduling tasks...")
			res, err := app.Roadmaps.Approve(ctx, rm.ID)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatApproval(res))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
