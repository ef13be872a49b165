package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/pevans/feedscrape/post"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// CSVHeader is the first row WriteCSV emits.
var CSVHeader = []string{
	"author", "index", "timestamp", "published_at", "permalink", "text", "images", "links",
}

// WriteCSV writes one row per post, in group order. Image and link URLs are
// joined with spaces.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	for _, g := range r.Groups {
		for _, p := range g.Posts {
			published := ""
			if p.PublishedAt != nil {
				published = p.PublishedAt.Format(time.RFC3339)
			}
			hrefs := make([]string, 0, len(p.Links))
			for _, l := range p.Links {
				hrefs = append(hrefs, l.Href)
			}

			row := []string{
				g.Author,
				strconv.Itoa(p.Index),
				p.Timestamp,
				published,
				p.Permalink,
				p.Text,
				strings.Join(p.Images, " "),
				strings.Join(hrefs, " "),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// WriteMarkdown writes a Markdown digest of r: one section per author, one
// entry per post. Entries are built as HTML fragments and converted, so
// links and images resolve against the page URL.
func WriteMarkdown(w io.Writer, r *Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(r.PageURL))
	fmt.Fprintf(&sb, "<p>Generated %s. %d posts by %d authors.</p>\n",
		html.EscapeString(DisplayLabel(r.Label())), r.Total(), len(r.Groups))

	for _, g := range r.Groups {
		fmt.Fprintf(&sb, "<h2>%s (%d)</h2>\n", html.EscapeString(g.Author), len(g.Posts))
		for _, p := range g.Posts {
			writePostFragment(&sb, p)
		}
	}

	md, err := mdConverter.ConvertString(sb.String(), converter.WithDomain(r.PageURL))
	if err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	if _, err := io.WriteString(w, md+"\n"); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writePostFragment(sb *strings.Builder, p post.Post) {
	title := fmt.Sprintf("Post %d", p.Index)
	if p.Timestamp != "" {
		title += " - " + p.Timestamp
	}
	if p.Permalink != "" {
		fmt.Fprintf(sb, "<h3><a href=\"%s\">%s</a></h3>\n", html.EscapeString(p.Permalink), html.EscapeString(title))
	} else {
		fmt.Fprintf(sb, "<h3>%s</h3>\n", html.EscapeString(title))
	}

	if p.Text != "" {
		sb.WriteString("<blockquote>")
		for i, line := range strings.Split(p.Text, "\n") {
			if i > 0 {
				sb.WriteString("<br>")
			}
			sb.WriteString(html.EscapeString(line))
		}
		sb.WriteString("</blockquote>\n")
	}

	if len(p.Images) > 0 || len(p.Links) > 0 {
		sb.WriteString("<ul>\n")
		for _, src := range head(p.Images, MaxCardImages) {
			fmt.Fprintf(sb, "<li><img src=\"%s\" alt=\"image\"></li>\n", html.EscapeString(src))
		}
		for _, l := range head(p.Links, MaxCardLinks) {
			fmt.Fprintf(sb, "<li><a href=\"%s\">%s</a></li>\n", html.EscapeString(l.Href), html.EscapeString(l.Text))
		}
		sb.WriteString("</ul>\n")
	}
}
