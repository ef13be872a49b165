package normalize

import (
	"strings"

	"github.com/pevans/feedscrape/post"
)

// SearchBlob flattens everything known about p into one lowercase string used
// for case-insensitive substring filtering. It is never displayed.
func SearchBlob(p post.Post) string {
	parts := []string{p.Text}

	var raw post.RawBlock
	if p.Raw != nil {
		raw = *p.Raw
	}

	parts = append(parts, raw.Snippet, p.Author)
	parts = append(parts, raw.AuthorCandidates...)
	parts = append(parts, raw.ClassName, raw.Role)
	parts = append(parts, raw.TimestampCandidates...)

	for _, l := range p.Links {
		parts = append(parts, l.Text)
	}
	for _, l := range p.Links {
		parts = append(parts, l.Href)
	}
	parts = append(parts, p.Images...)
	for _, img := range raw.Images {
		parts = append(parts, img.Alt)
	}

	return Lower(strings.Join(parts, " "))
}
