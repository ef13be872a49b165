// Package feedscrape runs a scrape end to end: scroll and expand the open
// feed page, extract post-like blocks, resolve them into posts, filter, and
// group the survivors into a report.
package feedscrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pevans/feedscrape/browser"
	"github.com/pevans/feedscrape/extract"
	"github.com/pevans/feedscrape/filter"
	"github.com/pevans/feedscrape/post"
	"github.com/pevans/feedscrape/report"
	"github.com/pevans/feedscrape/resolve"
)

// Options configure a run.
type Options struct {
	// Scroll, when set, auto-scrolls the page before extraction.
	Scroll *browser.ScrollConfig
	// Expand, when set, clicks "See more" style toggles before extraction.
	Expand *browser.ExpandConfig

	Extract  extract.Config
	Criteria filter.Criteria

	// Now is the reference time for relative dates and the recency window.
	// Default: time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Result is the outcome of a run.
type Result struct {
	// Blocks is the number of raw blocks extracted.
	Blocks int
	// Kept is the number of posts that passed the filters.
	Kept int
	// Expand is nil when expansion did not run.
	Expand *browser.ExpandResult

	Report *report.Report
}

// Run scrapes page. The page URL is read first; failing to read it is fatal.
// Scroll and expansion failures other than cancellation are logged and the
// run continues with what the page shows.
func Run(ctx context.Context, page browser.Page, opts Options) (*Result, error) {
	opts.defaults()
	log := opts.Logger

	pageURL, err := page.URL(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", browser.ErrNoPage, err)
	}
	log.Info("feedscrape: scraping", "url", pageURL)

	if opts.Scroll != nil {
		if err := browser.AutoScroll(ctx, page, *opts.Scroll, log); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Warn("feedscrape: auto-scroll stopped early", "error", err)
		}
	}

	var expanded *browser.ExpandResult
	if opts.Expand != nil {
		expanded, err = browser.Expand(ctx, page, *opts.Expand, log)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Warn("feedscrape: expansion stopped early", "error", err)
		}
		if expanded != nil {
			log.Info("feedscrape: expanded", "clicked", expanded.Clicked, "rounds", expanded.Rounds, "failed", len(expanded.Errors))
		}
	}

	blocks, err := extract.FromPage(ctx, page, opts.Extract)
	if err != nil {
		return nil, err
	}

	res := Process(pageURL, blocks, opts)
	res.Expand = expanded
	return res, nil
}

// Process resolves, filters and groups blocks taken from pageURL. It is the
// offline half of Run, shared by snapshot and feed sources.
func Process(pageURL string, blocks []post.RawBlock, opts Options) *Result {
	opts.defaults()
	now := opts.Now()

	posts := resolve.Blocks(blocks, pageURL, now)
	kept := filter.Apply(posts, opts.Criteria, now)

	opts.Logger.Info("feedscrape: processed",
		"blocks", len(blocks),
		"kept", len(kept),
		"filter", opts.Criteria.Text,
		"days", opts.Criteria.Days,
	)

	return &Result{
		Blocks: len(blocks),
		Kept:   len(kept),
		Report: report.New(pageURL, kept, now),
	}
}
