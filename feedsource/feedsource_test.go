package feedsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/pevans/feedscrape/post"
	"github.com/pevans/feedscrape/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <title>Neighbourhood</title>
  <link>https://example.com/group</link>
  <item>
    <title>Bike for sale</title>
    <link>https://example.com/group/posts/101</link>
    <guid>post-101</guid>
    <dc:creator>Jane Doe</dc:creator>
    <pubDate>Mon, 15 Jan 2024 10:30:00 +0000</pubDate>
    <description><![CDATA[<p>Barely <b>used</b>.</p><img src="https://cdn.example.com/bike.jpg" alt="bike">]]></description>
    <enclosure url="https://cdn.example.com/bike-large.jpg" type="image/jpeg" length="100"/>
  </item>
  <item>
    <title>Lost cat</title>
    <description>Grey, answers to Tom.</description>
  </item>
</channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Club news</title>
  <link href="https://club.example.org/"/>
  <entry>
    <title>Meeting moved</title>
    <link href="https://club.example.org/posts/7"/>
    <id>urn:uuid:7</id>
    <updated>2024-02-01T08:00:00Z</updated>
    <author><name>Alex Roe</name></author>
    <summary>Now on Thursday.</summary>
  </entry>
</feed>`

// TestParse_RSS verifies RSS items become blocks the resolver understands
func TestParse_RSS(t *testing.T) {
	feed, err := Parse(strings.NewReader(rssFeed))
	require.NoError(t, err)

	blocks := Blocks(feed)

	require.Len(t, blocks, 2)
	b := blocks[0]
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, "rss", b.ClassName)
	assert.Equal(t, "post-101", b.DataAttrs["data-guid"])
	assert.Equal(t, "Bike for sale\nBarely used.", b.Text)
	assert.Equal(t, []string{"Jane Doe"}, b.AuthorCandidates)
	assert.Equal(t, []string{"2024-01-15T10:30:00Z", "Mon, 15 Jan 2024 10:30:00 +0000"}, b.TimestampCandidates)
	assert.Equal(t, []post.Link{{Href: "https://example.com/group/posts/101", Text: "Bike for sale"}}, b.Links)
	assert.Equal(t, []post.Image{
		{Src: "https://cdn.example.com/bike-large.jpg"},
		{Src: "https://cdn.example.com/bike.jpg", Alt: "bike"},
	}, b.Images)

	p := resolve.Block(b, "https://example.com/group", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Jane Doe", p.Author)
	assert.Equal(t, "https://example.com/group/posts/101", p.Permalink)
	require.NotNil(t, p.PublishedAt)
	assert.True(t, p.PublishedAt.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)))

	second := blocks[1]
	assert.Equal(t, "Lost cat\nGrey, answers to Tom.", second.Text)
	assert.Empty(t, second.AuthorCandidates)
	assert.Empty(t, second.TimestampCandidates)
	assert.Empty(t, second.Links)
}

// TestParse_Atom verifies Atom entries and de-duplicated authors
func TestParse_Atom(t *testing.T) {
	feed, err := Parse(strings.NewReader(atomFeed))
	require.NoError(t, err)

	blocks := Blocks(feed)

	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, "atom", b.ClassName)
	assert.Equal(t, []string{"Alex Roe"}, b.AuthorCandidates, "author and authors list name the same person")
	assert.Equal(t, "2024-02-01T08:00:00Z", b.TimestampCandidates[0])
	assert.Equal(t, "https://club.example.org/posts/7", b.Links[0].Href)
	assert.Equal(t, "https://club.example.org/", PageURL(feed, "fallback"))
}

// TestParse_Invalid verifies garbage input is an error
func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("not a feed"))

	assert.Error(t, err)
}

// TestItemBlock_Caps verifies per-item lists are bounded after Blocks
func TestItemBlock_Caps(t *testing.T) {
	item := &gofeed.Item{Title: "many", DublinCoreExt: &ext.DublinCoreExtension{}}
	for _, name := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a1"} {
		item.DublinCoreExt.Creator = append(item.DublinCoreExt.Creator, name)
	}
	for range 40 {
		item.Links = append(item.Links, "https://example.com/same")
	}

	blocks := Blocks(&gofeed.Feed{Items: []*gofeed.Item{item}})

	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0].AuthorCandidates, post.MaxAuthors)
	assert.Len(t, blocks[0].Links, 1)
	assert.NotNil(t, blocks[0].Images)
}

// TestPageURL verifies the fallback chain
func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://a", PageURL(&gofeed.Feed{Link: "https://a", FeedLink: "https://b"}, "c"))
	assert.Equal(t, "https://b", PageURL(&gofeed.Feed{FeedLink: "https://b"}, "c"))
	assert.Equal(t, "c", PageURL(&gofeed.Feed{}, "c"))
}

// TestFetch verifies feeds are fetched over HTTP with the source user agent
func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFeed))
	}))
	defer server.Close()

	feed, err := Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Neighbourhood", feed.Title)
	assert.Len(t, feed.Items, 2)
}

// TestFetch_HTTPError verifies failed fetches are returned
func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL)

	assert.Error(t, err)
}
