package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/hearth/internal/cli"
	"github.com/alexanderramin/hearth/internal/config"
	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/planning"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/alexanderramin/hearth/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine config path: env var or default ~/.hearth/config.yaml
	cfgPath := os.Getenv("HEARTH_CONFIG")
	if cfgPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		cfgPath = filepath.Join(home, ".hearth", "config.yaml")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Cycle boundaries and date parsing follow the configured timezone.
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	time.Local = loc

	// HEARTH_DB overrides the configured database location.
	dbPath := cfg.DBPath
	if env := os.Getenv("HEARTH_DB"); env != "" {
		dbPath = env
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	goalRepo := repository.NewSQLiteGoalRepo(database)
	eventRepo := repository.NewSQLiteEventRepo(database)
	itemRepo := repository.NewSQLiteItemRepo(database)
	criteriaRepo := repository.NewSQLiteCriteriaRepo(database)
	periodRepo := repository.NewSQLitePeriodRepo(database)
	meetingRepo := repository.NewSQLiteMeetingRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.Verbose {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	registry := planning.NewRegistry()

	meetings := service.NewMeetingService(meetingRepo)
	if err := meetings.Seed(context.Background(), cfg.Meeting.DayOfWeek, cfg.Meeting.PreferredTime); err != nil {
		return fmt.Errorf("seeding meeting settings: %w", err)
	}

	app := &cli.App{
		Goals:     service.NewGoalService(goalRepo),
		Events:    service.NewEventService(eventRepo),
		Items:     service.NewItineraryService(itemRepo),
		Meetings:  meetings,
		Planning:  service.NewPlanningService(registry, periodRepo, criteriaRepo, meetingRepo, uow, observers...),
		Progress:  service.NewProgressService(criteriaRepo, periodRepo, goalRepo, uow, observers...),
		Household: cfg.Household,
	}

	// Detect interactive terminal for the session walk-through.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
