package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pevans/feedscrape/config"
	"github.com/pevans/feedscrape/report"
	"github.com/tcnksm/go-input"
)

// askPrefs asks for the run options on out, reading answers from in. A blank
// answer keeps the value from prev; "-" clears the filter. Invalid answers
// are asked again.
func askPrefs(in io.Reader, out io.Writer, prev config.Prefs) (config.Prefs, error) {
	ui := &input.UI{Reader: in, Writer: out}
	next := prev
	if next.Format == "" {
		next.Format = string(report.HTML)
	}

	query := "Filter by text (blank = any):"
	if prev.Filter != "" {
		query = `Filter by text ("-" = any):`
	}
	answer, err := ask(ui, query, &input.Options{Default: prev.Filter, Loop: true})
	if err != nil {
		return prev, err
	}
	switch answer {
	case "-":
		next.Filter = ""
	default:
		next.Filter = strings.ToLower(answer)
	}

	answer, err = ask(ui, "Auto-scroll? (y/n)", &input.Options{
		Default:      yesNo(prev.Scroll),
		Loop:         true,
		ValidateFunc: validateYesNo,
	})
	if err != nil {
		return prev, err
	}
	next.Scroll = isYes(answer)

	if next.Scroll {
		answer, err = ask(ui, "Scroll steps:", &input.Options{
			Default:      strconv.Itoa(prev.Steps),
			Loop:         true,
			ValidateFunc: validateCount(1),
		})
		if err != nil {
			return prev, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n > 0 {
			next.Steps = n
		}
	}

	answer, err = ask(ui, "Only posts from the last N days (0 = all):", &input.Options{
		Default:      strconv.Itoa(prev.Days),
		Loop:         true,
		ValidateFunc: validateCount(0),
	})
	if err != nil {
		return prev, err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 0 {
		next.Days = n
	}

	answer, err = ask(ui, "Report format (html, json, csv, md):", &input.Options{
		Default:      next.Format,
		Loop:         true,
		ValidateFunc: validateFormat,
	})
	if err != nil {
		return prev, err
	}
	if f, err := report.ParseFormat(answer); err == nil && f != "" {
		next.Format = string(f)
	}

	return next, nil
}

// ask wraps ui.Ask, trimming the answer and treating a blank one as the
// default.
func ask(ui *input.UI, query string, opts *input.Options) (string, error) {
	answer, err := ui.Ask(query, opts)
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return opts.Default, nil
	}
	return answer, nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

func validateYesNo(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "y", "yes", "n", "no":
		return nil
	}
	return fmt.Errorf("answer y or n, not %q", s)
}

// validateCount accepts blank or a whole number of at least min.
func validateCount(min int) input.ValidateFunc {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < min {
			return fmt.Errorf("expected a whole number of at least %d, not %q", min, s)
		}
		return nil
	}
}

func validateFormat(s string) error {
	_, err := report.ParseFormat(strings.TrimSpace(s))
	return err
}
