package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pevans/feedscrape"
	"github.com/pevans/feedscrape/extract"
	"github.com/pevans/feedscrape/feedsource"
)

func handleSnapshot(args []string) {
	settings := loadSettings()

	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	file := fs.String("file", "", "Saved HTML page to read")
	pageURL := fs.String("url", "", "Fetch this page over HTTP instead of reading a file")
	base := fs.String("base", "", "URL the page was saved from; relative links resolve against it")
	out := addOutputFlags(fs, settings)
	fs.Parse(args)

	if (*file == "") == (*pageURL == "") {
		fmt.Fprintf(os.Stderr, "Error: exactly one of -file or -url is required\n")
		fs.Usage()
		os.Exit(1)
	}
	format := out.reportFormat()

	ctx, cancel := signalContext()
	defer cancel()

	var (
		doc *goquery.Document
		err error
	)
	source := *base
	if *file != "" {
		f, openErr := os.Open(*file)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open snapshot: %v\n", openErr)
			os.Exit(1)
		}
		doc, err = extract.LoadDocument(f)
		f.Close()
		if source == "" {
			source = "file://" + absPath(*file)
		}
	} else {
		fmt.Printf("Fetching %s...\n", *pageURL)
		doc, err = extract.FetchDocument(ctx, *pageURL)
		if source == "" {
			source = *pageURL
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	blocks := extract.FromDocument(doc, settings.Extract)
	res := feedscrape.Process(source, blocks, feedscrape.Options{
		Criteria: out.criteria(),
		Logger:   newLogger(*out.verbose),
	})

	writeReport(res, *out.out, format)
}

func handleFeed(args []string) {
	settings := loadSettings()

	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	feedURL := fs.String("url", "", "RSS or Atom feed URL")
	file := fs.String("file", "", "Read the feed from a file instead")
	out := addOutputFlags(fs, settings)
	fs.Parse(args)

	if (*file == "") == (*feedURL == "") {
		fmt.Fprintf(os.Stderr, "Error: exactly one of -url or -file is required\n")
		fs.Usage()
		os.Exit(1)
	}
	format := out.reportFormat()

	ctx, cancel := signalContext()
	defer cancel()

	fallback := *feedURL
	feed, err := func() (*gofeed.Feed, error) {
		if *file != "" {
			fallback = "file://" + absPath(*file)
			f, err := os.Open(*file)
			if err != nil {
				return nil, fmt.Errorf("failed to open feed: %w", err)
			}
			defer f.Close()
			return feedsource.Parse(f)
		}
		fmt.Printf("Fetching %s...\n", *feedURL)
		return feedsource.Fetch(ctx, *feedURL)
	}()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Fetched feed: %s (format: %s, %d items)\n", feed.Title, feed.FeedType, len(feed.Items))

	res := feedscrape.Process(feedsource.PageURL(feed, fallback), feedsource.Blocks(feed), feedscrape.Options{
		Criteria: out.criteria(),
		Logger:   newLogger(*out.verbose),
	})

	writeReport(res, *out.out, format)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
