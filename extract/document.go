package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/feedscrape/post"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// UserAgent identifies snapshot fetches.
const UserAgent = "feedscrape/1.0 (feed snapshot extractor)"

// LoadDocument parses an HTML snapshot.
func LoadDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// FetchDocument fetches url and parses the response as HTML.
func FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return LoadDocument(resp.Body)
}

// FromDocument applies the extraction heuristics to a parsed snapshot. It
// returns the same blocks FromPage would for a page with that markup, with
// element text approximated from the DOM instead of rendered layout.
func FromDocument(doc *goquery.Document, cfg Config) []post.RawBlock {
	cfg.defaults()

	candidates := doc.Find(SignatureSelector).Nodes
	if len(candidates) < cfg.MinCandidates {
		candidates = append(candidates, repeatedCards(doc, cfg)...)
	}
	candidates = uniqueNodes(candidates)

	blocks := make([]post.RawBlock, 0, len(candidates))
	for i, n := range candidates {
		blocks = append(blocks, harvest(doc.FindNodes(n), i+1))
	}
	return blocks
}

// repeatedCards returns divs whose exact class string occurs at least
// RepeatThreshold times under the fallback root, in document order.
func repeatedCards(doc *goquery.Document, cfg Config) []*html.Node {
	root := doc.Find(FallbackRootSelector).First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	divs := root.Find("div")
	counts := map[string]int{}
	divs.Each(func(_ int, s *goquery.Selection) {
		if cls := s.AttrOr("class", ""); cls != "" {
			counts[cls]++
		}
	})

	var extra []*html.Node
	divs.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(extra) >= cfg.MaxFallback {
			return false
		}
		if cls := s.AttrOr("class", ""); cls != "" && counts[cls] >= cfg.RepeatThreshold {
			extra = append(extra, s.Nodes[0])
		}
		return true
	})
	return extra
}

func uniqueNodes(nodes []*html.Node) []*html.Node {
	seen := map[*html.Node]bool{}
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// harvest builds one RawBlock. A failing step leaves its field empty.
func harvest(s *goquery.Selection, index int) post.RawBlock {
	n := s.Nodes[0]
	b := post.RawBlock{
		Index:               index,
		Tag:                 strings.ToLower(n.Data),
		Role:                s.AttrOr("role", ""),
		ClassName:           s.AttrOr("class", ""),
		DataAttrs:           map[string]string{},
		AuthorCandidates:    []string{},
		TimestampCandidates: []string{},
		Links:               []post.Link{},
		Images:              []post.Image{},
	}

	attempt(func() {
		for _, a := range n.Attr {
			if len(b.DataAttrs) >= post.MaxDataAttrs {
				break
			}
			if strings.HasPrefix(a.Key, "data-") {
				b.DataAttrs[a.Key] = a.Val
			}
		}
	})

	attempt(func() { b.Text = innerText(n) })
	b.Snippet = post.Snippet(b.Text)
	b.TextLength = utf8.RuneCountInString(b.Text)

	attempt(func() {
		s.Find(AuthorSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			b.AuthorCandidates = post.AppendUnique(b.AuthorCandidates, innerText(a.Nodes[0]), post.MaxAuthors)
			return len(b.AuthorCandidates) < post.MaxAuthors
		})
	})

	attempt(func() {
		s.Find(TimestampSelector).EachWithBreak(func(_ int, t *goquery.Selection) bool {
			b.TimestampCandidates = post.AppendUnique(b.TimestampCandidates, timestampValue(t), post.MaxTimestamps)
			return len(b.TimestampCandidates) < post.MaxTimestamps
		})
	})

	attempt(func() {
		seen := map[post.Link]bool{}
		s.Find(LinkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			l := post.Link{
				Href: strings.TrimSpace(a.AttrOr("href", "")),
				Text: innerText(a.Nodes[0]),
			}
			if l.Href != "" && !seen[l] {
				seen[l] = true
				b.Links = append(b.Links, l)
			}
			return len(b.Links) < post.MaxLinks
		})
	})

	attempt(func() {
		type key struct{ src, srcset string }
		seen := map[key]bool{}
		s.Find(ImageSelector).EachWithBreak(func(_ int, img *goquery.Selection) bool {
			src := strings.TrimSpace(img.AttrOr("src", ""))
			if src == "" {
				src = strings.TrimSpace(img.AttrOr("data-src", ""))
			}
			im := post.Image{
				Src:    src,
				Srcset: strings.TrimSpace(img.AttrOr("srcset", "")),
				Alt:    strings.TrimSpace(img.AttrOr("alt", "")),
			}
			k := key{im.Src, im.Srcset}
			if (im.Src != "" || im.Srcset != "") && !seen[k] {
				seen[k] = true
				b.Images = append(b.Images, im)
			}
			return len(b.Images) < post.MaxImages
		})
	})

	return b
}

func timestampValue(t *goquery.Selection) string {
	for _, name := range timestampAttrs {
		if v := strings.TrimSpace(t.AttrOr(name, "")); v != "" {
			return v
		}
	}
	return innerText(t.Nodes[0])
}

// attempt runs fn, discarding any panic from malformed markup.
func attempt(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

var blockLevel = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Tr: true, atom.Ul: true,
}

// Source line breaks inside text are plain whitespace once rendered.
var flatten = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// innerText approximates the rendered text of n: hidden subtrees are skipped,
// block elements and <br> break lines, runs of spaces collapse, and blank
// lines are dropped.
func innerText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(flatten.Replace(n.Data))
			return
		case html.ElementNode:
			if skipped[n.DataAtom] || hidden(n) {
				return
			}
			if n.DataAtom == atom.Br {
				sb.WriteByte('\n')
				return
			}
		}

		block := n.Type == html.ElementNode && blockLevel[n.DataAtom]
		if block {
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			sb.WriteByte('\n')
		}
	}
	walk(n)

	var lines []string
	for line := range strings.SplitSeq(sb.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func hidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if a.Val == "true" {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") {
				return true
			}
		}
	}
	return false
}
