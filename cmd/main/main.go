package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/matt-steen/task-tracker/pkg/config"
	"github.com/matt-steen/task-tracker/pkg/controller"
	"github.com/matt-steen/task-tracker/pkg/db"
	"github.com/matt-steen/task-tracker/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const filePerms = 0o666

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err = run(context.Background(), cfg); err != nil {
		log.Error().Err(err).Msg("exiting with error")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logFile, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return fmt.Errorf("error opening log file %s: %w", cfg.LogFile, err)
	}

	defer logFile.Close()

	zerolog.SetGlobalLevel(cfg.LogLevel())

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	})

	log.Info().Str("tasks", cfg.TasksFile).Msg("starting application...")

	s := store.New(cfg.TasksFile, cfg.HistoryFile)

	if err = loadStore(s); err != nil {
		return err
	}

	database, err := db.NewDatabase(ctx, cfg.AuditFile)
	if err != nil {
		return err
	}

	defer database.Close()

	return controller.NewController(ctx, s, database).Go()
}

// loadStore fills s from its files. A missing tasks file starts an empty task
// manager; any other load error is returned.
func loadStore(s *store.Store) error {
	err := s.LoadTasks()
	if errors.Is(err, store.ErrFileNotFound) {
		log.Info().Msg("file not found, creating new task manager")
	} else if err != nil {
		return err
	}

	return s.LoadViewHistory()
}
