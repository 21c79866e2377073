package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ErrUsage is returned when the command line cannot be parsed.
var ErrUsage = errors.New("usage error")

// Config holds everything main needs to wire the app.
type Config struct {
	// TasksFile is the positional file_name argument.
	TasksFile   string
	HistoryFile string
	AuditFile   string
	LogFile     string
	Debug       bool
}

// New returns a Config with defaults and no tasks file.
func New() Config {
	return Config{
		HistoryFile: "view_history.txt",
		AuditFile:   "task_audit.sqlite",
		LogFile:     "task-tracker.log",
	}
}

// LogLevel returns the zerolog level selected by Debug.
func (c Config) LogLevel() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}

	return zerolog.InfoLevel
}

// Parse reads flags and the single file_name argument from args (without the program name).
// Usage text and flag errors are written to output.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	cfg := New()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [flags] file_name\n\nfile_name: file name for saving tasks\n\n", name)
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.HistoryFile, "history", cfg.HistoryFile, "file for the view history")
	fs.StringVar(&cfg.AuditFile, "audit", cfg.AuditFile, "sqlite file for the status change log")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "file for debug logs")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log at debug level")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return Config{}, fmt.Errorf("%w: expected exactly one file_name, got %d", ErrUsage, fs.NArg())
	}

	cfg.TasksFile = strings.TrimSpace(fs.Arg(0))
	if cfg.TasksFile == "" {
		return Config{}, fmt.Errorf("%w: file_name is empty", ErrUsage)
	}

	if cfg.HistoryFile == "" || cfg.AuditFile == "" || cfg.LogFile == "" {
		return Config{}, fmt.Errorf("%w: file flags must not be empty", ErrUsage)
	}

	return cfg, nil
}
