package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/feedscrape/browser"
	"github.com/pevans/feedscrape/extract"
	"github.com/pevans/feedscrape/report"
)

// Environment variables, which override the config file.
const (
	EnvRemoteURL  = "FEEDSCRAPE_REMOTE_URL"
	EnvReportsDir = "FEEDSCRAPE_REPORTS_DIR"
	EnvPrefsDSN   = "FEEDSCRAPE_PREFS_DSN"
)

// Settings is the effective configuration of a run before command-line
// flags are applied.
type Settings struct {
	Browser       browser.Config
	Scroll        browser.ScrollConfig
	Expand        browser.ExpandConfig
	ExpandEnabled bool
	Extract       extract.Config
	ReportsDir    string
	Format        report.Format
	PrefsDSN      string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	prefs := "feedscrape-prefs.db"
	if dir, err := Dir(); err == nil {
		prefs = filepath.Join(dir, "prefs.db")
	}

	return Settings{
		Browser: browser.Config{
			RemoteURL:       browser.DefaultRemoteURL,
			NavigateTimeout: 30 * time.Second,
		},
		Scroll: browser.ScrollConfig{
			Steps:  10,
			Offset: 1500,
			Delay:  1500 * time.Millisecond,
		},
		Expand: browser.ExpandConfig{
			Selector:     browser.DefaultExpandSelector,
			Labels:       browser.DefaultExpandLabels,
			ClickTimeout: 3 * time.Second,
			Delay:        time.Second,
			MaxRounds:    5,
		},
		Extract:    extract.DefaultConfig(),
		ReportsDir: "reports",
		Format:     report.HTML,
		PrefsDSN:   prefs,
	}
}

// Load returns defaults overlaid with ~/.feedscrape/config.yaml and then the
// environment.
func Load() (Settings, error) {
	fc, err := LoadConfigFile()
	if err != nil {
		return Settings{}, err
	}
	return Resolve(fc, os.Getenv)
}

// Resolve overlays fc (which may be nil) and then the variables returned by
// getenv onto the defaults.
func Resolve(fc *FileConfig, getenv func(string) string) (Settings, error) {
	s := Defaults()

	if fc != nil {
		if err := s.applyFile(fc); err != nil {
			return Settings{}, err
		}
	}

	if v := getenv(EnvRemoteURL); v != "" {
		s.Browser.RemoteURL = v
	}
	if v := getenv(EnvReportsDir); v != "" {
		s.ReportsDir = v
	}
	if v := getenv(EnvPrefsDSN); v != "" {
		s.PrefsDSN = v
	}

	return s, nil
}

func (s *Settings) applyFile(fc *FileConfig) error {
	if fc.Browser.RemoteURL != "" {
		s.Browser.RemoteURL = fc.Browser.RemoteURL
	}
	if fc.Browser.Headless != nil {
		s.Browser.Headless = *fc.Browser.Headless
	}
	if fc.Browser.Bin != "" {
		s.Browser.Bin = fc.Browser.Bin
	}
	if err := setDuration(&s.Browser.NavigateTimeout, "browser.navigate_timeout", fc.Browser.NavigateTimeout); err != nil {
		return err
	}

	if fc.Scroll.Steps > 0 {
		s.Scroll.Steps = fc.Scroll.Steps
	}
	if fc.Scroll.Offset != 0 {
		s.Scroll.Offset = fc.Scroll.Offset
	}
	if err := setDuration(&s.Scroll.Delay, "scroll.delay", fc.Scroll.Delay); err != nil {
		return err
	}

	if fc.Expand.Enabled != nil {
		s.ExpandEnabled = *fc.Expand.Enabled
	}
	if len(fc.Expand.Labels) > 0 {
		s.Expand.Labels = fc.Expand.Labels
	}
	if fc.Expand.MaxRounds > 0 {
		s.Expand.MaxRounds = fc.Expand.MaxRounds
	}
	if err := setDuration(&s.Expand.ClickTimeout, "expand.click_timeout", fc.Expand.ClickTimeout); err != nil {
		return err
	}
	if err := setDuration(&s.Expand.Delay, "expand.delay", fc.Expand.Delay); err != nil {
		return err
	}

	if fc.Extract.MinCandidates > 0 {
		s.Extract.MinCandidates = fc.Extract.MinCandidates
	}
	if fc.Extract.RepeatThreshold > 0 {
		s.Extract.RepeatThreshold = fc.Extract.RepeatThreshold
	}
	if fc.Extract.MaxFallback > 0 {
		s.Extract.MaxFallback = fc.Extract.MaxFallback
	}

	if fc.Reports.Dir != "" {
		s.ReportsDir = fc.Reports.Dir
	}
	if fc.Reports.Format != "" {
		f, err := report.ParseFormat(fc.Reports.Format)
		if err != nil {
			return fmt.Errorf("reports.format: %w", err)
		}
		s.Format = f
	}

	if fc.Prefs.DSN != "" {
		s.PrefsDSN = fc.Prefs.DSN
	}
	return nil
}

func setDuration(dst *time.Duration, name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fmt.Errorf("invalid %s %q", name, value)
	}
	*dst = d
	return nil
}
