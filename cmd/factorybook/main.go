package main

import (
	"fmt"
	"os"
	"path/filepath"

	"factorybook/internal/catalog"
	"factorybook/internal/cli"
	"factorybook/internal/db"
	"factorybook/internal/repository"
	"factorybook/internal/service"

	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.factorybook/factorybook.db
	dbPath := os.Getenv("FACTORYBOOK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".factorybook", "factorybook.db")
	}

	// Load the recipe catalog: env var or the embedded default.
	cat := catalog.Default()
	if path := os.Getenv("FACTORYBOOK_CATALOG"); path != "" {
		var err error
		cat, err = catalog.LoadFile(path)
		if err != nil {
			return fmt.Errorf("loading catalog %s: %w", path, err)
		}
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and the unit of work for transactional operations.
	worldRepo := repository.NewSQLiteWorldRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case logging is off unless FACTORYBOOK_LOG points at a file.
	var observers []service.UseCaseObserver
	if logPath := os.Getenv("FACTORYBOOK_LOG"); logPath != "" {
		fh, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer fh.Close()
		observers = append(observers, service.NewLogUseCaseObserver(fh))
	}

	app := &cli.App{
		Worlds:   service.NewWorldService(worldRepo, settingsRepo, uow, cat, observers...),
		Settings: service.NewSettingsService(settingsRepo, observers...),
		Catalog:  cat,
	}

	// Detect interactive terminal for the full-screen editor entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
