// Package report assembles resolved posts into a per-run report and renders
// it as HTML, JSON, CSV or Markdown.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/feedscrape/post"
)

// Report is everything one run produced.
type Report struct {
	RunID       uuid.UUID          `json:"run_id"`
	PageURL     string             `json:"page_url"`
	GeneratedAt time.Time          `json:"generated_at"`
	Groups      []post.AuthorGroup `json:"groups"`
}

// New groups posts into a report generated at now.
func New(pageURL string, posts []post.Post, now time.Time) *Report {
	return &Report{
		RunID:       uuid.New(),
		PageURL:     pageURL,
		GeneratedAt: now,
		Groups:      Group(posts),
	}
}

// Total returns the number of posts across all groups.
func (r *Report) Total() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Posts)
	}
	return n
}

const (
	labelLayout   = "2006 January, 02 - 15:04:05"
	displayLayout = "02/01/06 - 15:04:05"
	fileLayout    = "01.02.2006_15.04.05"
)

// Label is the human-readable generation time, e.g. "2024 November, 20 -
// 12:00:00".
func (r *Report) Label() string {
	return r.GeneratedAt.Format(labelLayout)
}

// DisplayLabel rewrites a Label as "dd/mm/yy - HH:MM:SS". Labels that do not
// parse are returned unchanged.
func DisplayLabel(label string) string {
	t, err := time.Parse(labelLayout, label)
	if err != nil {
		return label
	}
	return t.Format(displayLayout)
}

// Format is an output format.
type Format string

const (
	HTML     Format = "html"
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "md"
)

// Formats lists every supported format.
var Formats = []Format{HTML, JSON, CSV, Markdown}

// ParseFormat accepts a format name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "htm":
		return HTML, nil
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "md", "markdown":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: html, json, csv, md)", s)
}

// Write renders r to w in format f.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case HTML:
		return WriteHTML(w, r)
	case JSON:
		return WriteJSON(w, r)
	case CSV:
		return WriteCSV(w, r)
	case Markdown:
		return WriteMarkdown(w, r)
	}
	return fmt.Errorf("unknown format %q", f)
}

var (
	scheme   = regexp.MustCompile(`^https?://`)
	unsafe   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	wwwLabel = regexp.MustCompile(`^www_`)
	// Feed pages on the main site are all under one host; the folder keeps
	// only the path.
	siteHost = regexp.MustCompile(`^www_facebook_com_`)
)

// Slugify turns a URL into a filesystem-safe name: the scheme is dropped and
// every run of other characters becomes one underscore. A leading
// "www_facebook_com_" is removed, leaving the path, and otherwise a leading
// "www_" host label. An empty result is "page".
func Slugify(rawURL string) string {
	s := scheme.ReplaceAllString(strings.TrimSpace(rawURL), "")
	s = unsafe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	s = siteHost.ReplaceAllString(s, "")
	s = wwwLabel.ReplaceAllString(s, "")
	if s == "" {
		return "page"
	}
	return s
}

// Path returns where a report for pageURL generated at t is written:
// <dir>/<slug>/<MM.DD.YYYY_HH.MM.SS>.<ext>.
func Path(dir, pageURL string, t time.Time, f Format) string {
	return filepath.Join(dir, Slugify(pageURL), t.Format(fileLayout)+"."+string(f))
}

// WriteFile renders r under dir and returns the file path.
func WriteFile(dir string, r *Report, f Format) (string, error) {
	path := Path(dir, r.PageURL, r.GeneratedAt, f)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}

	if err := Write(file, r, f); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
