package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ScrollConfig controls AutoScroll.
type ScrollConfig struct {
	Steps  int
	Offset int           // pixels per step. Default: 1500.
	Delay  time.Duration // settle time after each step. Default: 1.5s.
}

func (c *ScrollConfig) defaults() {
	if c.Offset == 0 {
		c.Offset = 1500
	}
	if c.Delay <= 0 {
		c.Delay = 1500 * time.Millisecond
	}
}

// AutoScroll scrolls the page down Steps times, waiting Delay after each step
// so lazy-loaded posts can render.
func AutoScroll(ctx context.Context, page Page, cfg ScrollConfig, log *slog.Logger) error {
	cfg.defaults()
	if log == nil {
		log = slog.Default()
	}

	for i := range cfg.Steps {
		if err := page.ScrollBy(ctx, cfg.Offset); err != nil {
			return fmt.Errorf("scroll step %d: %w", i+1, err)
		}
		log.Debug("browser: scrolled", "step", i+1, "of", cfg.Steps)

		if err := sleep(ctx, cfg.Delay); err != nil {
			return err
		}
	}
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
