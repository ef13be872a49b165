package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pevans/feedscrape/browser"
	"github.com/pevans/feedscrape/config"
)

func handleDoctor(args []string) {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show detailed diagnostic information")
	fs.Parse(args)

	if r := runDoctor(os.Stdout, loadSettings(), *verbose); r.errors > 0 {
		os.Exit(1)
	}
}

// doctorResult counts failed checks. Warnings do not fail the command.
type doctorResult struct {
	errors   int
	warnings int
}

// runDoctor checks the config file, preferences database, reports directory
// and browser endpoint, printing a check list to w.
func runDoctor(w io.Writer, settings config.Settings, verbose bool) doctorResult {
	var r doctorResult

	fmt.Fprintln(w, "Checking feedscrape setup...")
	fmt.Fprintln(w)

	// Config file
	fmt.Fprintln(w, "Config File:")
	if dir, err := config.Dir(); err == nil {
		fmt.Fprintf(w, "  Path: %s\n", filepath.Join(dir, "config.yaml"))
	}
	fc, err := config.LoadConfigFile()
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ✗ %v\n", err)
		r.errors++
	case fc == nil:
		fmt.Fprintln(w, "  - Not present, using defaults")
	default:
		if _, err := config.Resolve(fc, os.Getenv); err != nil {
			fmt.Fprintf(w, "  ✗ Invalid value: %v\n", err)
			r.errors++
		} else {
			fmt.Fprintln(w, "  ✓ Config file is valid")
		}
	}
	fmt.Fprintln(w)

	// Preferences database
	fmt.Fprintln(w, "Preferences Database:")
	fmt.Fprintf(w, "  Path: %s\n", settings.PrefsDSN)
	if !checkPrefs(w, settings.PrefsDSN, verbose) {
		r.errors++
	}
	fmt.Fprintln(w)

	// Reports directory
	fmt.Fprintln(w, "Reports Directory:")
	fmt.Fprintf(w, "  Path: %s\n", settings.ReportsDir)
	if stat, err := os.Stat(settings.ReportsDir); os.IsNotExist(err) {
		fmt.Fprintln(w, "  - Does not exist yet; it is created on the first report")
	} else if err != nil {
		fmt.Fprintf(w, "  ✗ Cannot access reports directory: %v\n", err)
		r.errors++
	} else if !stat.IsDir() {
		fmt.Fprintln(w, "  ✗ Path exists but is not a directory")
		r.errors++
	} else {
		fmt.Fprintln(w, "  ✓ Reports directory is accessible")
		if verbose {
			entries, _ := os.ReadDir(settings.ReportsDir)
			fmt.Fprintf(w, "  Report folders: %d\n", len(entries))
		}
	}
	fmt.Fprintln(w)

	// Browser
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintf(w, "  Remote URL: %s\n", settings.Browser.RemoteURL)
	if wsURL, err := browser.Probe(settings.Browser.RemoteURL); err != nil {
		fmt.Fprintln(w, "  ⚠ Warning: Chromium is not reachable")
		fmt.Fprintln(w, "    Start it with: chromium --remote-debugging-port=9222")
		if verbose {
			fmt.Fprintf(w, "    %v\n", err)
		}
		r.warnings++
	} else {
		fmt.Fprintln(w, "  ✓ Chromium is reachable")
		if verbose {
			fmt.Fprintf(w, "  DevTools: %s\n", wsURL)
		}
	}
	fmt.Fprintln(w)

	switch {
	case r.errors > 0:
		fmt.Fprintln(w, "✗ Problems found")
	case r.warnings > 0:
		fmt.Fprintln(w, "⚠ Ready for snapshot and feed; scrape needs a running Chromium")
	default:
		fmt.Fprintln(w, "✓ All checks passed")
	}
	return r
}

// checkPrefs reports whether the preferences database at dsn is usable. A
// database that does not exist yet is fine.
func checkPrefs(w io.Writer, dsn string, verbose bool) bool {
	if _, err := os.Stat(dsn); os.IsNotExist(err) {
		fmt.Fprintln(w, "  - Not created yet; 'scrape -prompt' or 'config set' creates it")
		return true
	} else if err != nil {
		fmt.Fprintf(w, "  ✗ Cannot access database file: %v\n", err)
		return false
	}

	store, err := config.NewConfigStore(dsn)
	if err != nil {
		fmt.Fprintf(w, "  ✗ Failed to open database: %v\n", err)
		return false
	}
	defer store.Close()

	fmt.Fprintln(w, "  ✓ Database is accessible")
	if verbose {
		if prefs, err := store.All(); err == nil {
			for _, k := range config.Keys() {
				fmt.Fprintf(w, "  %s = %q\n", k, prefs[k])
			}
		}
	}
	return true
}
