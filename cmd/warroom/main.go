package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/warroomhq/warroom/internal/cli"
	"github.com/warroomhq/warroom/internal/config"
	"github.com/warroomhq/warroom/internal/db"
	"github.com/warroomhq/warroom/internal/notify"
	"github.com/warroomhq/warroom/internal/quota"
	"github.com/warroomhq/warroom/internal/repository"
	"github.com/warroomhq/warroom/internal/sched"
	"github.com/warroomhq/warroom/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Use-case telemetry goes to the configured log file, if any.
	var logWriter io.Writer
	if cfg.LogPath != "" {
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logWriter = f
	}
	observer := service.NewLogUseCaseObserver(logWriter)

	// Notifications surface on stderr when a human is watching; in pipes
	// and cron they are dropped.
	var sink notify.Sink = notify.NoopSink{}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		sink = notify.NewSlogSink(os.Stderr)
	}

	// Wire repositories
	strategyRepo := repository.NewSQLiteStrategyRepo(database)
	campaignRepo := repository.NewSQLiteCampaignRepo(database)
	moveRepo := repository.NewSQLiteMoveRepo(database)
	pipelineRepo := repository.NewSQLitePipelineRepo(database)
	duelRepo := repository.NewSQLiteDuelRepo(database)
	signalRepo := repository.NewSQLiteSignalRepo(database)
	cohortRepo := repository.NewSQLiteCohortRepo(database)
	usageRepo := repository.NewSQLiteUsageRepo(database)

	governor := quota.NewGovernor(quota.PlanByKey(cfg.Plan), usageRepo)
	scheduler := sched.NewTimerScheduler()
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	campaignSvc := service.NewCampaignService(campaignRepo, moveRepo, strategyRepo, governor, sink, observer)
	app := &cli.App{
		Strategies: service.NewStrategyService(strategyRepo, uow),
		Campaigns:  campaignSvc,
		Moves: service.NewMoveService(
			moveRepo, campaignRepo, cohortRepo, strategyRepo,
			campaignSvc, governor, sink, scheduler, cfg.GenerationDelay, observer,
		),
		Pipeline: service.NewPipelineService(pipelineRepo, sink),
		Duels:    service.NewDuelService(duelRepo, governor, sink),
		Signals:  service.NewSignalService(signalRepo, duelRepo, moveRepo, sink),
		Radar:    service.NewRadarService(cohortRepo, governor, sink, observer),
		Cohorts:  cohortRepo,
		Governor: governor,
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
