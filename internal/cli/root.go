package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
	"github.com/aadipatodia/Scheduler/internal/service"
)

// App holds the services and environment used by CLI commands.
type App struct {
	Goals         service.GoalService
	Roadmaps      service.RoadmapService
	Tasks         service.TaskService
	Recalibration service.RecalibrationService
	Stats         service.StatsService

	Log *zap.Logger

	// ServerAddr is the default listen address for "serve".
	ServerAddr string

	// IsInteractive reports whether forms and pagers may take over the
	// terminal. Nil means never.
	IsInteractive func() bool

	// Now is the clock used for "today". Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// NewRootCmd creates the top-level "scheduler" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "scheduler",
		Short:         "Turn goals into roadmaps and day-by-day task schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGoalCmd(app),
		newRoadmapCmd(app),
		newTaskCmd(app),
		newRecalibrateCmd(app),
		newStatsCmd(app),
		newServeCmd(app),
		newTimelineCmd(),
	)

	return root
}

// spin starts a spinner on stderr when running interactively.
func (a *App) spin(cmd *cobra.Command, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}
