package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aadipatodia/Scheduler/internal/cli"
	"github.com/aadipatodia/Scheduler/internal/config"
	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/intelligence"
	"github.com/aadipatodia/Scheduler/internal/llm"
	"github.com/aadipatodia/Scheduler/internal/logging"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
	"github.com/aadipatodia/Scheduler/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath picks --config out of the arguments before cobra parses them,
// since everything cobra runs depends on the loaded configuration.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	goalRepo := repository.NewSQLiteGoalRepo(database)
	roadmapRepo := repository.NewSQLiteRoadmapRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)
	recalRepo := repository.NewSQLiteRecalibrationRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(log)
	}
	client, err := llm.NewClient(ctx, cfg.LLM, observer)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Debug("llm_disabled", zap.String("reason", err.Error()))
		client = nil
	case err != nil:
		return fmt.Errorf("creating llm client: %w", err)
	}

	planner := scheduler.NewPlanner(intelligence.NewScheduleGenerator(client), log)
	useCases := service.NewLogUseCaseObserver(log)

	roadmapSvc := service.NewRoadmapService(goalRepo, roadmapRepo, uow,
		intelligence.NewRoadmapService(client, observer), planner, cfg.DefaultDaysPerPhase, useCases)
	recalSvc := service.NewRecalibrationService(goalRepo, taskRepo, recalRepo, uow,
		intelligence.NewMissedTaskAnalyzer(client), log, useCases)

	app := &cli.App{
		Goals:         service.NewGoalService(goalRepo),
		Roadmaps:      roadmapSvc,
		Tasks:         service.NewTaskService(taskRepo, goalRepo, auditRepo, uow),
		Recalibration: recalSvc,
		Stats:         service.NewStatsService(goalRepo, taskRepo),
		Log:           log,
		ServerAddr:    cfg.ServerAddr,
	}

	// Forms, spinners and the preview pager only run on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	root := cli.NewRootCmd(app)
	root.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath()+")")
	return root.ExecuteContext(ctx)
}
