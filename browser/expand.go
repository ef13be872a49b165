package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ExpandConfig controls Expand.
type ExpandConfig struct {
	// Selector finds clickable candidates.
	Selector string
	// Labels are matched case-insensitively against the start of a
	// candidate's text.
	Labels []string
	// ClickTimeout bounds each click. Default: 3s.
	ClickTimeout time.Duration
	// Delay is the settle time after a round with clicks. Default: 1s.
	Delay time.Duration
	// MaxRounds bounds the number of passes. Default: 5.
	MaxRounds int
}

// DefaultExpandSelector matches the button-like elements feeds use for
// "See more" style toggles.
const DefaultExpandSelector = "div[role='button'], span[role='button'], a[role='button']"

// DefaultExpandLabels are the toggle texts clicked by default.
var DefaultExpandLabels = []string{
	"see more",
	"view more comments",
	"view previous comments",
	"view more replies",
	"more replies",
}

func (c *ExpandConfig) defaults() {
	if c.Selector == "" {
		c.Selector = DefaultExpandSelector
	}
	if len(c.Labels) == 0 {
		c.Labels = DefaultExpandLabels
	}
	if c.ClickTimeout <= 0 {
		c.ClickTimeout = 3 * time.Second
	}
	if c.Delay <= 0 {
		c.Delay = time.Second
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = 5
	}
}

// ClickError describes one failed click.
type ClickError struct {
	Label string
	Err   error
}

func (e *ClickError) Error() string {
	return fmt.Sprintf("%q: %v", e.Label, e.Err)
}

// ExpandResult reports what Expand did. Failed clicks are collected in Errors
// rather than stopping the run; timeouts are counted in Gone.
type ExpandResult struct {
	Rounds  int
	Clicked int
	Gone    int
	Errors  []ClickError
}

// Expand clicks visible "See more" style toggles, one round at a time, until a
// round clicks nothing or MaxRounds is reached. A click that times out means
// the button went away and is not an error. Only a failing query is
// returned as an error.
func Expand(ctx context.Context, page Page, cfg ExpandConfig, log *slog.Logger) (*ExpandResult, error) {
	cfg.defaults()
	if log == nil {
		log = slog.Default()
	}

	result := &ExpandResult{}
	for result.Rounds < cfg.MaxRounds {
		result.Rounds++

		els, err := page.Query(ctx, cfg.Selector)
		if err != nil {
			return result, fmt.Errorf("expand: %w", err)
		}

		clicked := 0
		for _, el := range els {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			label, ok := matchLabel(ctx, el, cfg.Labels)
			if !ok {
				continue
			}

			err := el.Click(ctx, cfg.ClickTimeout)
			switch {
			case err == nil:
				clicked++
			case errors.Is(err, context.DeadlineExceeded):
				result.Gone++
				log.Debug("browser: expand click timed out", "label", label)
			default:
				result.Errors = append(result.Errors, ClickError{Label: label, Err: err})
				log.Debug("browser: expand click failed", "label", label, "error", err)
			}
		}

		result.Clicked += clicked
		log.Debug("browser: expand round", "round", result.Rounds, "clicked", clicked)
		if clicked == 0 {
			break
		}

		if err := sleep(ctx, cfg.Delay); err != nil {
			return result, err
		}
	}

	return result, nil
}

// matchLabel reports whether el is visible and its text starts with one of
// labels.
func matchLabel(ctx context.Context, el Element, labels []string) (string, bool) {
	visible, err := el.Visible(ctx)
	if err != nil || !visible {
		return "", false
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", false
	}
	text = strings.ToLower(strings.Join(strings.Fields(text), " "))
	for _, l := range labels {
		if strings.HasPrefix(text, l) {
			return text, true
		}
	}
	return "", false
}
