package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pevans/feedscrape/config"
	"github.com/pevans/feedscrape/filter"
	"github.com/pevans/feedscrape/report"
)

// loadSettings loads settings with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (~/.feedscrape/config.yaml)
// 3. Default values (lowest priority)
// Command-line flags are applied on top by each command.
func loadSettings() config.Settings {
	s, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Continuing with defaults and environment variables...\n\n")
		s, _ = config.Resolve(nil, os.Getenv)
	}
	return s
}

// newLogger returns the slog logger library packages report progress to.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// signalContext is cancelled on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// outputFlags are the filter and report flags every source command takes.
type outputFlags struct {
	filter  *string
	search  *string
	days    *int
	format  *string
	out     *string
	verbose *bool
}

func addOutputFlags(fs *flag.FlagSet, s config.Settings) *outputFlags {
	return &outputFlags{
		filter:  fs.String("filter", "", "Keep posts whose text contains this (case-insensitive)"),
		search:  fs.String("search", "", "Keep posts whose text, author, links or images mention this"),
		days:    fs.Int("days", 0, "Keep posts from the last N days (0 = all; undated posts are kept)"),
		format:  fs.String("format", string(s.Format), "Report format: html, json, csv, md"),
		out:     fs.String("out", s.ReportsDir, "Report directory"),
		verbose: fs.Bool("verbose", false, "Log progress details to stderr"),
	}
}

func (o *outputFlags) criteria() filter.Criteria {
	return filter.Criteria{Text: *o.filter, Blob: *o.search, Days: *o.days}
}

func (o *outputFlags) reportFormat() report.Format {
	f, err := report.ParseFormat(*o.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return f
}

// openPrefs opens the preferences store, creating its directory.
func openPrefs(dsn string) (*config.ConfigStore, error) {
	if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return config.NewConfigStore(dsn)
}
