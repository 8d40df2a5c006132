package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/capplan/internal/cli"
	"github.com/alexanderramin/capplan/internal/config"
	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/planning"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Settings: defaults, then CAPPLAN_CONFIG (YAML), then CAPPLAN_* variables.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	// Reference data is read-only and reloaded on every start.
	ref, report, err := importer.LoadReference(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("loading reference data from %s: %w", cfg.DataDir, err)
	}
	if report.HasProblems() {
		logger.Warn("reference data loaded with problems",
			"skipped", len(report.Skipped), "repaired", len(report.Diagnostics))
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	planner := planning.NewPlanner(ref,
		planning.WithHorizonYears(cfg.Recurrence.HorizonYears),
		planning.WithLegacyYearStepping(cfg.Recurrence.LegacyYearStepping),
	)
	plan := service.NewPlanService(ref, planner, db.NewSQLiteUnitOfWork(database), cfg.Actor,
		service.NewLogUseCaseObserver(logger))
	if err := plan.Load(context.Background()); err != nil {
		return err
	}

	app := &cli.App{
		Plan:    plan,
		DataDir: cfg.DataDir,
		Logger:  logger,
	}

	// Prompts and the catalog browser need a terminal on both ends.
	app.IsInteractive = func() bool {
		in, out := os.Stdin.Fd(), os.Stdout.Fd()
		return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
			(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
	}

	return cli.NewRootCmd(app).Execute()
}
