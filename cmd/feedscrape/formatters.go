package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/feedscrape"
	"github.com/pevans/feedscrape/report"
)

// writeReport writes the run's report and prints where it went, followed by
// the author summary.
func writeReport(res *feedscrape.Result, dir string, format report.Format) {
	path, err := report.WriteFile(dir, res.Report, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Extracted %d blocks, kept %d posts.\n", res.Blocks, res.Kept)
	if res.Expand != nil && len(res.Expand.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "\nWarning: %d expansion click(s) failed:\n", len(res.Expand.Errors))
		for _, clickErr := range res.Expand.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", clickErr.Error())
		}
	}
	fmt.Println()
	printSummary(os.Stdout, res.Report)
	fmt.Println()
	fmt.Printf("Report saved: %s\n", path)
}

// printSummary prints posts per author as a table.
func printSummary(w io.Writer, r *report.Report) {
	if len(r.Groups) == 0 {
		fmt.Fprintln(w, "No posts matched.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Author", "Posts", "Latest"})
	for _, g := range r.Groups {
		var latest *time.Time
		for _, p := range g.Posts {
			if p.PublishedAt != nil && (latest == nil || p.PublishedAt.After(*latest)) {
				latest = p.PublishedAt
			}
		}
		shown := "-"
		if latest != nil {
			shown = latest.Format("2006-01-02 15:04")
		}
		t.AppendRow(table.Row{truncate(g.Author, 40), len(g.Posts), shown})
	}
	t.AppendFooter(table.Row{"Total", r.Total(), ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
