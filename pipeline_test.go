package feedscrape

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pevans/feedscrape/browser"
	"github.com/pevans/feedscrape/browser/browsertest"
	"github.com/pevans/feedscrape/extract"
	"github.com/pevans/feedscrape/filter"
	"github.com/pevans/feedscrape/post"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.November, 20, 12, 0, 0, 0, time.UTC)

const groupURL = "https://www.facebook.com/groups/1"

func feedBlocks() []map[string]any {
	return []map[string]any{
		{
			"index":               1,
			"tag":                 "div",
			"role":                "article",
			"text":                "Jane Doe\n2 hrs\nBike for sale",
			"authorCandidates":    []string{"Jane Doe"},
			"timestampCandidates": []string{"2 hrs"},
			"links":               []map[string]string{{"href": "/groups/1/posts/101/", "text": "2 hrs"}},
		},
		{
			"index": 2,
			"tag":   "div",
			"text":  "Anyone around?",
		},
		{
			"index":               3,
			"tag":                 "div",
			"text":                "Jane Doe\nGarden chairs",
			"authorCandidates":    []string{"Jane Doe"},
			"timestampCandidates": []string{"3 days"},
		},
		{
			"index":               4,
			"tag":                 "div",
			"text":                "Old Poster\nAncient history",
			"authorCandidates":    []string{"Old Poster"},
			"timestampCandidates": []string{"2 weeks"},
		},
	}
}

func fixedNow() time.Time { return now }

// TestRun_EndToEnd verifies scroll, expand, extract, resolve, filter and
// grouping against a scripted page
func TestRun_EndToEnd(t *testing.T) {
	seeMore := &browsertest.Element{Label: "See more"}
	page := &browsertest.Page{
		PageURL:    groupURL,
		EvalResult: feedBlocks(),
		Elements:   map[string][]*browsertest.Element{browser.DefaultExpandSelector: {seeMore}},
	}

	res, err := Run(context.Background(), page, Options{
		Scroll:   &browser.ScrollConfig{Steps: 2, Delay: time.Millisecond},
		Expand:   &browser.ExpandConfig{Delay: time.Millisecond},
		Criteria: filter.Criteria{Days: 7},
		Now:      fixedNow,
	})

	require.NoError(t, err)
	assert.Len(t, page.Scrolls, 2)
	assert.Equal(t, 1, seeMore.Clicks)
	require.NotNil(t, res.Expand)
	assert.Equal(t, 1, res.Expand.Clicked)

	assert.Equal(t, 4, res.Blocks)
	assert.Equal(t, 3, res.Kept)

	r := res.Report
	assert.Equal(t, groupURL, r.PageURL)
	assert.True(t, r.GeneratedAt.Equal(now))

	var got []string
	for _, g := range r.Groups {
		got = append(got, g.Author)
	}
	if diff := cmp.Diff([]string{"Jane Doe", post.UnknownAuthor}, got); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}

	jane := r.Groups[0].Posts
	require.Len(t, jane, 2)
	assert.Equal(t, "https://www.facebook.com/groups/1/posts/101/", jane[0].Permalink)
	require.NotNil(t, jane[0].PublishedAt)
	assert.True(t, jane[0].PublishedAt.Equal(now.Add(-2*time.Hour)))
	assert.Equal(t, 3, jane[1].Index)
	assert.Len(t, r.Groups[1].Posts, 1)
}

// TestRun_TextFilter verifies the text filter narrows the report
func TestRun_TextFilter(t *testing.T) {
	page := &browsertest.Page{PageURL: groupURL, EvalResult: feedBlocks()}

	res, err := Run(context.Background(), page, Options{
		Criteria: filter.Criteria{Text: "GARDEN"},
		Now:      fixedNow,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Kept)
	require.Len(t, res.Report.Groups, 1)
	assert.Equal(t, "Jane Doe", res.Report.Groups[0].Author)
	assert.Nil(t, res.Expand)
	assert.Empty(t, page.Scrolls)
}

// TestRun_NoPage verifies failing to read the URL is fatal
func TestRun_NoPage(t *testing.T) {
	page := &browsertest.Page{URLErr: errors.New("target closed")}

	_, err := Run(context.Background(), page, Options{})

	assert.ErrorIs(t, err, browser.ErrNoPage)
	assert.Empty(t, page.Evals)
}

// TestRun_ExtractError verifies a failing extraction aborts with no report
func TestRun_ExtractError(t *testing.T) {
	page := &browsertest.Page{PageURL: groupURL, EvalErr: errors.New("execution context destroyed")}

	res, err := Run(context.Background(), page, Options{})

	require.Error(t, err)
	assert.Nil(t, res)
}

// TestRun_ScrollFailureIsNotFatal verifies a broken scroll still extracts
func TestRun_ScrollFailureIsNotFatal(t *testing.T) {
	page := &browsertest.Page{
		PageURL:    groupURL,
		EvalResult: feedBlocks(),
		ScrollErr:  errors.New("scroll blocked"),
	}

	res, err := Run(context.Background(), page, Options{
		Scroll: &browser.ScrollConfig{Steps: 3, Delay: time.Millisecond},
		Now:    fixedNow,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, res.Blocks)
}

// TestRun_Cancelled verifies cancellation during scrolling stops the run
func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	page := &browsertest.Page{
		PageURL:    groupURL,
		EvalResult: feedBlocks(),
		OnScroll:   func(int) { cancel() },
	}

	_, err := Run(ctx, page, Options{
		Scroll: &browser.ScrollConfig{Steps: 5, Delay: time.Hour},
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, page.Evals)
}

// TestProcess_Snapshot verifies the offline path over a parsed snapshot
func TestProcess_Snapshot(t *testing.T) {
	doc, err := extract.LoadDocument(strings.NewReader(`<html><body>
		<article><h3><a href="/jane">Jane Doe</a></h3><abbr title="Yesterday">1d</abbr><p>Lamp</p></article>
		<article><p>No byline here</p></article>
	</body></html>`))
	require.NoError(t, err)

	res := Process("https://example.com/feed", extract.FromDocument(doc, extract.Config{}), Options{Now: fixedNow})

	assert.Equal(t, 2, res.Blocks)
	assert.Equal(t, 2, res.Kept)
	require.Len(t, res.Report.Groups, 2)
	jane := res.Report.Groups[0].Posts[0]
	assert.Equal(t, "Jane Doe", jane.Author)
	assert.Equal(t, "https://example.com/jane", jane.Permalink)
	require.NotNil(t, jane.PublishedAt)
	assert.Equal(t, 19, jane.PublishedAt.Day())
}
