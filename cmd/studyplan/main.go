package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/studyplan/internal/cli"
	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/events"
	"github.com/alexanderramin/studyplan/internal/prefs"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/mattn/go-isatty"
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
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	studyRepo := repository.NewSQLiteStudyRepo(database)
	itemRepo := repository.NewSQLiteLineItemRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	appRepo := repository.NewSQLiteApplicationRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.PublishEnabled() {
		amqpPub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return fmt.Errorf("connecting to message broker: %w", err)
		}
		publisher = amqpPub
	}
	defer publisher.Close()

	// Wire services
	reconcileSvc := service.NewReconcileService(taskRepo, itemRepo, appRepo, uow, publisher, observers...)

	app := &cli.App{
		Studies:     service.NewStudyService(studyRepo, uow, observers...),
		LineItems:   service.NewLineItemService(itemRepo),
		Recruitment: service.NewRecruitmentService(taskRepo, appRepo, reconcileSvc),
		Reconcile:   reconcileSvc,
		Prefs:       prefs.Open(cfg.PrefsDir),
		DefaultZoom: cfg.Zoom,
	}

	// The planner needs a terminal; the other commands do not.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
