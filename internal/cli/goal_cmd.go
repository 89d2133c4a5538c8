package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}

	cmd.AddCommand(
		newGoalAddCmd(app),
		newGoalListCmd(app),
		newGoalShowCmd(app),
		newGoalUpdateCmd(app),
		newGoalRemoveCmd(app),
	)

	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var title, description string
	target := newDateValue(app.now)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				if !app.interactive() {
					return fmt.Errorf("--title is required")
				}
				vals := goalFormValues{Description: description}
				if err := goalForm(&vals).Run(); err != nil {
					return err
				}
				title, description = vals.Title, vals.Description
				if err := target.Set(vals.TargetDate); err != nil {
					return err
				}
			}

			g := &domain.Goal{
				Title:       title,
				Description: description,
				TargetDate:  target.Time(),
			}
			if err := app.Goals.Create(cmd.Context(), g); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created goal %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(g.Title), formatter.Dim("["+g.ShortID()+"]"))
			if g.TargetDate != nil {
				fmt.Fprintf(out, "  Target: %s\n", formatter.DueDateStyled(g.TargetDate, app.now()))
			}
			fmt.Fprintf(out, "  Next: scheduler roadmap generate %s\n", g.ShortID())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Goal title")
	cmd.Flags().StringVar(&description, "description", "", "Background for roadmap generation")
	cmd.Flags().Var(target, "target", "Target date (YYYY-MM-DD)")

	return cmd
}

func newGoalListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := app.Goals.List(cmd.Context(), domain.GoalStatus(status))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoalList(goals, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, completed, abandoned)")

	return cmd
}

func newGoalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show GOAL",
		Short: "Show a goal with its progress and roadmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoalDetail(gp, rm, app.now()))
			return nil
		},
	}
}

func newGoalUpdateCmd(app *App) *cobra.Command {
	var title, description string
	target := newDateValue(app.now)
	var clearTarget bool

	cmd := &cobra.Command{
		Use:   "update GOAL [active|completed|abandoned]",
		Short: "Change a goal's status or fields",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				g.Status = domain.GoalStatus(strings.ToLower(args[1]))
			}
			if cmd.Flags().Changed("title") {
				g.Title = title
			}
			if cmd.Flags().Changed("description") {
				g.Description = description
			}
			if target.Time() != nil {
				g.TargetDate = target.Time()
			}
			if clearTarget {
				g.TargetDate = nil
			}
			if err := app.Goals.Update(ctx, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %s  %s\n",
				formatter.Bold(g.Title), formatter.GoalStatusPill(g.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().Var(target, "target", "New target date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearTarget, "clear-target", false, "Remove the target date")
	cmd.MarkFlagsMutuallyExclusive("target", "clear-target")

	return cmd
}

func newGoalRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm GOAL",
		Short: "Delete a goal with its roadmap and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				confirmed := false
				desc := "The roadmap and every task for this goal are deleted too."
				if err := confirmForm(fmt.Sprintf("Delete %q?", g.Title), desc, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Goals.Delete(ctx, g.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", formatter.Bold(g.Title))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

