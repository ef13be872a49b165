package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/pevans/feedscrape/normalize"
	"github.com/pevans/feedscrape/post"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/report.html.tmpl"))

// MaxCardImages and MaxCardLinks bound what one post card shows. The full
// lists remain in the JSON export.
const (
	MaxCardImages = 8
	MaxCardLinks  = 8
)

type htmlPage struct {
	RunID   string
	PageURL string
	Label   string
	Total   int
	Groups  []htmlGroup
}

type htmlGroup struct {
	Author string
	Count  int
	Posts  []htmlPost
}

type htmlPost struct {
	Index     int
	Timestamp string
	Permalink string
	Text      string
	Search    string
	Images    []string
	Links     []post.Link
}

// WriteHTML renders r as a self-contained page with client-side text and
// author filters, author sort modes, and collapsible author groups.
func WriteHTML(w io.Writer, r *Report) error {
	page := htmlPage{
		RunID:   r.RunID.String(),
		PageURL: r.PageURL,
		Label:   DisplayLabel(r.Label()),
		Total:   r.Total(),
	}

	for _, g := range r.Groups {
		hg := htmlGroup{Author: g.Author, Count: len(g.Posts)}
		for _, p := range g.Posts {
			hg.Posts = append(hg.Posts, htmlPost{
				Index:     p.Index,
				Timestamp: p.Timestamp,
				Permalink: p.Permalink,
				Text:      p.Text,
				Search:    normalize.SearchBlob(p),
				Images:    head(p.Images, MaxCardImages),
				Links:     head(p.Links, MaxCardLinks),
			})
		}
		page.Groups = append(page.Groups, hg)
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func head[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	return list
}
