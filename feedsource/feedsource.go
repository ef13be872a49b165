// Package feedsource turns RSS and Atom feeds into raw blocks, so a feed can
// go through the same resolve, filter and report stages as a scraped page.
package feedsource

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pevans/feedscrape/extract"
	"github.com/pevans/feedscrape/post"
)

// UserAgent identifies feed fetches.
const UserAgent = "feedscrape/1.0 (RSS/Atom block source)"

// Fetch fetches and parses an RSS or Atom feed from the given URL. gofeed
// detects the format.
func Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = UserAgent
	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// Parse parses an RSS or Atom document.
func Parse(r io.Reader) (*gofeed.Feed, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// PageURL is the URL a report for feed is filed under: the feed's site link,
// else its own address, else fallback.
func PageURL(feed *gofeed.Feed, fallback string) string {
	switch {
	case feed.Link != "":
		return feed.Link
	case feed.FeedLink != "":
		return feed.FeedLink
	}
	return fallback
}

// Blocks converts every item of feed to a RawBlock, in feed order.
func Blocks(feed *gofeed.Feed) []post.RawBlock {
	blocks := make([]post.RawBlock, 0, len(feed.Items))
	for i, item := range feed.Items {
		blocks = append(blocks, ItemBlock(item, feed.FeedType, i+1))
	}
	return extract.Sanitize(blocks)
}

// ItemBlock maps one feed item onto the RawBlock fields the resolver reads:
// authors from <author>, Atom authors and dc:creator; timestamps from the
// parsed published and updated dates (RFC 3339) followed by their raw
// values; the item link first among links; images from <image>, image
// enclosures and <img> tags in the item body.
func ItemBlock(item *gofeed.Item, feedType string, index int) post.RawBlock {
	b := post.RawBlock{
		Index:     index,
		Tag:       "item",
		Role:      "feed-item",
		ClassName: feedType,
		DataAttrs: map[string]string{},
	}
	if item.GUID != "" {
		b.DataAttrs["data-guid"] = item.GUID
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	bodyText := body
	if err == nil {
		bodyText = doc.Text()
	}

	var lines []string
	for _, s := range []string{item.Title, bodyText} {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			lines = append(lines, s)
		}
	}
	b.Text = strings.Join(lines, "\n")

	if item.Author != nil {
		b.AuthorCandidates = append(b.AuthorCandidates, item.Author.Name)
	}
	for _, a := range item.Authors {
		if a != nil {
			b.AuthorCandidates = append(b.AuthorCandidates, a.Name)
		}
	}
	if item.DublinCoreExt != nil {
		b.AuthorCandidates = append(b.AuthorCandidates, item.DublinCoreExt.Creator...)
	}

	for _, t := range []*time.Time{item.PublishedParsed, item.UpdatedParsed} {
		if t != nil {
			b.TimestampCandidates = append(b.TimestampCandidates, t.Format(time.RFC3339))
		}
	}
	b.TimestampCandidates = append(b.TimestampCandidates, item.Published, item.Updated)

	if item.Link != "" {
		b.Links = append(b.Links, post.Link{Href: item.Link, Text: item.Title})
	}
	for _, l := range item.Links {
		b.Links = append(b.Links, post.Link{Href: l, Text: item.Title})
	}

	if item.Image != nil {
		b.Images = append(b.Images, post.Image{Src: item.Image.URL, Alt: item.Image.Title})
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			b.Images = append(b.Images, post.Image{Src: enc.URL})
		}
	}
	if err == nil {
		doc.Find("img").Each(func(_ int, img *goquery.Selection) {
			b.Images = append(b.Images, post.Image{
				Src:    img.AttrOr("src", img.AttrOr("data-src", "")),
				Srcset: img.AttrOr("srcset", ""),
				Alt:    img.AttrOr("alt", ""),
			})
		})
	}

	return b
}
