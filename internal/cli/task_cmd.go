package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/service"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskTodayCmd(app),
		newTaskDoneCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemoveCmd(app),
		newTaskHistoryCmd(app),
	)

	return cmd
}

func parseStatusFlag(s string) (domain.TaskStatus, error) {
	st, ok := domain.ParseTaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return 0, fmt.Errorf("invalid status %q (expected due, completed or missed)", s)
	}
	return st, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var goal, description, category string
	var priority int
	date := newDateValue(app.now)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t := &domain.Task{
				Title:         args[0],
				Description:   description,
				Category:      domain.TaskCategory(category),
				Priority:      priority,
				ScheduledDate: date.Time(),
			}
			if goal != "" {
				g, err := resolveGoal(ctx, app, goal)
				if err != nil {
					return err
				}
				t.GoalID = &g.ID
			}
			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added task %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(t.Title), formatter.Dim("["+formatter.ShortID(t.ID)+"]"))
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "", "Goal the task belongs to")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&category, "category", "", "daily, weekly or milestone")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority 0-5")
	cmd.Flags().Var(date, "date", "Scheduled date (YYYY-MM-DD, today, tomorrow)")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var goal, status, source string
	from := newDateValue(app.now)
	to := newDateValue(app.now)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := repository.TaskFilter{
				Source: domain.TaskSource(source),
				From:   from.Time(),
				To:     to.Time(),
			}
			if goal != "" {
				g, err := resolveGoal(ctx, app, goal)
				if err != nil {
					return err
				}
				f.GoalID = g.ID
			}
			if status != "" {
				st, err := parseStatusFlag(status)
				if err != nil {
					return err
				}
				f.Status = &st
			}
			tasks, err := app.Tasks.List(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "", "Only tasks for this goal")
	cmd.Flags().StringVar(&status, "status", "", "due, completed or missed")
	cmd.Flags().StringVar(&source, "source", "", "manual or schedule")
	cmd.Flags().Var(from, "from", "Scheduled on or after this date")
	cmd.Flags().Var(to, "to", "Scheduled on or before this date")

	return cmd
}

func newTaskTodayCmd(app *App) *cobra.Command {
	date := newDateValue(app.now)

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the tasks scheduled for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := startOfLocalDay(app.now())
			if d := date.Time(); d != nil {
				day = *d
			}
			v, err := app.Tasks.Today(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayView(v))
			return nil
		},
	}

	cmd.Flags().Var(date, "date", "Show another day instead")

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done TASK...",
		Short: "Mark tasks completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			status := domain.TaskCompleted
			if undo {
				status = domain.TaskDue
			}
			for _, arg := range args {
				t, err := resolveTask(ctx, app, arg)
				if err != nil {
					return err
				}
				t, err = app.Tasks.Update(ctx, t.ID, service.TaskUpdate{Status: &status})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.TaskStatusPill(t.Status), t.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Set the tasks back to due")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var title, description, status, category, reason string
	var priority int
	date := newDateValue(app.now)

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTask(ctx, app, args[0])
			if err != nil {
				return err
			}

			upd := service.TaskUpdate{Reason: reason}
			flags := cmd.Flags()
			if flags.Changed("title") {
				upd.Title = &title
			}
			if flags.Changed("description") {
				upd.Description = &description
			}
			if flags.Changed("status") {
				st, err := parseStatusFlag(status)
				if err != nil {
					return err
				}
				upd.Status = &st
			}
			if flags.Changed("priority") {
				upd.Priority = &priority
			}
			if flags.Changed("category") {
				c := domain.TaskCategory(category)
				upd.Category = &c
			}
			if d := date.Time(); d != nil {
				upd.ScheduledDate = d
			}

			t, err = app.Tasks.Update(ctx, t.ID, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s  %s %s\n",
				formatter.Bold(t.Title), formatter.TaskStatusPill(t.Status), formatter.PriorityLabel(t.Priority))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "due, completed or missed")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority 0-5")
	cmd.Flags().StringVar(&category, "category", "", "daily, weekly or milestone")
	cmd.Flags().Var(date, "date", "Reschedule to this date")
	cmd.Flags().StringVar(&reason, "reason", "", "Note recorded in the task history")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", formatter.Bold(t.Title))
			return nil
		},
	}
}

func newTaskHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history TASK",
		Short: "Show the change history of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			entries, err := app.Tasks.History(ctx, t.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", formatter.Header(t.Title))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskHistory(entries))
			return nil
		},
	}
}
