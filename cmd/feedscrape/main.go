package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "scrape":
		handleScrape(args)
	case "snapshot":
		handleSnapshot(args)
	case "feed":
		handleFeed(args)
	case "config":
		if len(args) < 1 {
			printConfigUsage()
			os.Exit(1)
		}
		handleConfigCommand(args[0], args[1:])
	case "doctor":
		handleDoctor(args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("feedscrape - Social feed scraper and offline report builder")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  feedscrape <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scrape     Scrape the feed open in a running Chromium")
	fmt.Println("  snapshot   Build a report from a saved HTML page")
	fmt.Println("  feed       Build a report from an RSS or Atom feed")
	fmt.Println("  config     Show or change remembered prompt answers")
	fmt.Println("  doctor     Check configuration, storage and browser access")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Start Chromium for 'scrape' with:")
	fmt.Println("  chromium --remote-debugging-port=9222")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  FEEDSCRAPE_REMOTE_URL   Remote-debugging endpoint (default: http://localhost:9222)")
	fmt.Println("  FEEDSCRAPE_REPORTS_DIR  Report directory (default: reports)")
	fmt.Println("  FEEDSCRAPE_PREFS_DSN    Path to the preferences database (default: ~/.feedscrape/prefs.db)")
}
