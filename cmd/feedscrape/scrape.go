package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pevans/feedscrape"
	"github.com/pevans/feedscrape/browser"
	"github.com/pevans/feedscrape/config"
	"github.com/pevans/feedscrape/report"
)

func handleScrape(args []string) {
	settings := loadSettings()

	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	remote := fs.String("remote", settings.Browser.RemoteURL, "Remote-debugging endpoint of a running Chromium")
	launch := fs.String("launch", "", "Launch a local Chromium on this URL instead of attaching")
	headless := fs.Bool("headless", settings.Browser.Headless, "Run a launched Chromium headless")
	scroll := fs.Bool("scroll", false, "Auto-scroll before extracting")
	steps := fs.Int("steps", settings.Scroll.Steps, "Number of scroll steps")
	delay := fs.Duration("delay", settings.Scroll.Delay, "Wait after each scroll step")
	expand := fs.Bool("expand", settings.ExpandEnabled, `Click "See more" and "View more comments" toggles first`)
	prompt := fs.Bool("prompt", false, "Ask for filter, scroll and format interactively")
	out := addOutputFlags(fs, settings)
	fs.Parse(args)

	criteria := out.criteria()
	format := out.reportFormat()

	if *prompt {
		prefs := promptPrefs(settings.PrefsDSN)
		criteria.Text = prefs.Filter
		criteria.Days = prefs.Days
		*scroll = prefs.Scroll
		*steps = prefs.Steps
		format = report.Format(prefs.Format)
	}

	log := newLogger(*out.verbose)
	ctx, cancel := signalContext()
	defer cancel()

	cfg := settings.Browser
	cfg.RemoteURL = *remote
	cfg.Headless = *headless
	cfg.Logger = log

	var (
		session *browser.Session
		err     error
	)
	if *launch != "" {
		fmt.Printf("Launching Chromium on %s...\n", *launch)
		session, err = browser.Launch(ctx, cfg, *launch)
	} else {
		fmt.Printf("Connecting to Chromium at %s...\n", cfg.RemoteURL)
		session, err = browser.Attach(ctx, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, browser.ErrConnect) {
			fmt.Fprintln(os.Stderr, "Start Chromium with remote debugging enabled:")
			fmt.Fprintln(os.Stderr, "  chromium --remote-debugging-port=9222")
		}
		if errors.Is(err, browser.ErrNoPage) {
			fmt.Fprintln(os.Stderr, "Open the feed page in Chromium first.")
		}
		os.Exit(1)
	}
	defer session.Close()

	opts := feedscrape.Options{
		Extract:  settings.Extract,
		Criteria: criteria,
		Logger:   log,
	}
	if *scroll {
		sc := settings.Scroll
		sc.Steps = *steps
		sc.Delay = *delay
		opts.Scroll = &sc
		fmt.Printf("Scrolling %d steps...\n", sc.Steps)
	}
	if *expand {
		ec := settings.Expand
		opts.Expand = &ec
		fmt.Println("Expanding posts and comments...")
	}

	res, err := feedscrape.Run(ctx, session.Page, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: scrape failed: %v\n", err)
		os.Exit(1)
	}

	writeReport(res, *out.out, format)
}

// promptPrefs runs the interactive prompt with stored answers as defaults
// and remembers the new answers. A broken preferences store only costs the
// defaults.
func promptPrefs(dsn string) config.Prefs {
	prev := config.Prefs{Steps: 10, Format: string(report.HTML)}

	store, err := openPrefs(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: preferences unavailable: %v\n", err)
	} else {
		defer store.Close()
		if stored, err := store.GetPrefs(); err == nil {
			prev = *stored
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read preferences: %v\n", err)
		}
	}

	next, err := askPrefs(os.Stdin, os.Stdout, prev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read answers: %v\n", err)
		os.Exit(1)
	}

	if store != nil {
		if err := store.UpdatePrefs(&next); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save preferences: %v\n", err)
		}
	}
	fmt.Println()
	return next
}
