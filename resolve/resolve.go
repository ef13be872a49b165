package resolve

import (
	"time"

	"github.com/pevans/feedscrape/normalize"
	"github.com/pevans/feedscrape/post"
)

// Block interprets one raw block into a post. baseURL is the page URL the
// block was extracted from; now anchors relative timestamps.
func Block(b post.RawBlock, baseURL string, now time.Time) post.Post {
	raw := b

	p := post.Post{
		Index:     b.Index,
		Author:    Author(b.AuthorCandidates),
		Timestamp: Timestamp(b.TimestampCandidates),
		Permalink: Permalink(b.Links, baseURL),
		Text:      normalize.Text(b.Text),
		Images:    []string{},
		Links:     make([]post.Link, 0, len(b.Links)),
		Raw:       &raw,
	}

	if t, ok := Date(p.Timestamp, now); ok {
		p.PublishedAt = &t
	} else {
		// The longest label may be prose; any other candidate that parses
		// still dates the post.
		for _, c := range b.TimestampCandidates {
			if t, ok := Date(c, now); ok {
				p.PublishedAt = &t
				break
			}
		}
	}

	for _, img := range b.Images {
		if src := normalize.ImageURL(img, baseURL); src != "" {
			p.Images = append(p.Images, src)
		}
	}

	for _, l := range b.Links {
		href := normalize.Absolutize(l.Href, baseURL)
		text := normalize.Text(l.Text)
		if text == "" {
			text = href
		}
		p.Links = append(p.Links, post.Link{Href: href, Text: text})
	}

	return p
}

// Blocks resolves every block in order.
func Blocks(blocks []post.RawBlock, baseURL string, now time.Time) []post.Post {
	posts := make([]post.Post, 0, len(blocks))
	for _, b := range blocks {
		posts = append(posts, Block(b, baseURL, now))
	}
	return posts
}
