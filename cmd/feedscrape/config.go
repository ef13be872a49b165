package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/feedscrape/config"
)

var errUnknownAction = errors.New("unknown config command")

func printConfigUsage() {
	fmt.Println("feedscrape config - Show or change remembered prompt answers")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  feedscrape config <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  show              Show preferences and effective settings")
	fmt.Println("  set KEY VALUE     Store a preference")
	fmt.Println("  reset             Forget all stored preferences")
	fmt.Println("  help              Show this help message")
	fmt.Println()
	fmt.Printf("Keys: %s\n", strings.Join(config.Keys(), ", "))
}

func handleConfigCommand(action string, args []string) {
	if action == "help" || action == "--help" || action == "-h" {
		printConfigUsage()
		return
	}

	settings := loadSettings()
	store, err := openPrefs(settings.PrefsDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open preferences: %v\n", err)
		os.Exit(1)
	}

	err = runConfig(os.Stdout, store, settings, action, args)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUnknownAction) {
			fmt.Fprintln(os.Stderr)
			printConfigUsage()
		}
		os.Exit(1)
	}
}

// runConfig performs one config action against store, writing its output
// to w.
func runConfig(w io.Writer, store *config.ConfigStore, settings config.Settings, action string, args []string) error {
	switch action {
	case "show":
		return configShow(w, store, settings)
	case "set":
		return configSet(w, store, args)
	case "reset":
		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(w, "Preferences reset to defaults.")
		return nil
	}
	return fmt.Errorf("%w: %s", errUnknownAction, action)
}

func configShow(w io.Writer, store *config.ConfigStore, settings config.Settings) error {
	prefs, err := store.All()
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Preferences")
	t.AppendHeader(table.Row{"Key", "Value"})
	for _, k := range config.Keys() {
		v := prefs[k]
		if v == "" {
			v = "(any)"
		}
		t.AppendRow(table.Row{k, v})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Fprintln(w)

	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.SetTitle("Settings")
	s.AppendHeader(table.Row{"Setting", "Value"})
	s.AppendRows([]table.Row{
		{"remote url", settings.Browser.RemoteURL},
		{"headless launch", settings.Browser.Headless},
		{"scroll steps", settings.Scroll.Steps},
		{"scroll delay", settings.Scroll.Delay},
		{"expand", settings.ExpandEnabled},
		{"expand labels", strings.Join(settings.Expand.Labels, ", ")},
		{"min candidates", settings.Extract.MinCandidates},
		{"repeat threshold", settings.Extract.RepeatThreshold},
		{"max fallback", settings.Extract.MaxFallback},
		{"reports dir", settings.ReportsDir},
		{"format", settings.Format},
		{"preferences db", settings.PrefsDSN},
	})
	s.SetStyle(table.StyleRounded)
	s.Render()
	return nil
}

func configSet(w io.Writer, store *config.ConfigStore, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: feedscrape config set KEY VALUE")
	}

	if err := store.Set(args[0], args[1]); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.Keys(), ", "))
		}
		return err
	}

	value, err := store.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Set %s = %q\n", args[0], value)
	return nil
}
