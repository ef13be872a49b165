package browser_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pevans/feedscrape/browser"
	"github.com/pevans/feedscrape/browser/browsertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAutoScroll_Steps verifies one scroll per step with the configured offset
func TestAutoScroll_Steps(t *testing.T) {
	page := &browsertest.Page{}

	err := browser.AutoScroll(context.Background(), page, browser.ScrollConfig{
		Steps: 3,
		Delay: time.Millisecond,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int{1500, 1500, 1500}, page.Scrolls)
}

// TestAutoScroll_ScrollError verifies a failing scroll aborts the loop
func TestAutoScroll_ScrollError(t *testing.T) {
	page := &browsertest.Page{ScrollErr: errors.New("detached")}

	err := browser.AutoScroll(context.Background(), page, browser.ScrollConfig{Steps: 2, Delay: time.Millisecond}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scroll step 1")
}

// TestAutoScroll_Cancelled verifies cancellation stops the wait
func TestAutoScroll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	page := &browsertest.Page{OnScroll: func(int) { cancel() }}

	err := browser.AutoScroll(ctx, page, browser.ScrollConfig{Steps: 10, Delay: time.Hour}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, page.Scrolls, 1)
}

// TestExpand_ClicksMatchingLabels verifies only visible, matching toggles are
// clicked
func TestExpand_ClicksMatchingLabels(t *testing.T) {
	seeMore := &browsertest.Element{Label: "See more"}
	comments := &browsertest.Element{Label: "View more comments (12)"}
	like := &browsertest.Element{Label: "Like"}
	hidden := &browsertest.Element{Label: "See more", Hidden: true}

	page := &browsertest.Page{Elements: map[string][]*browsertest.Element{
		browser.DefaultExpandSelector: {seeMore, like, comments, hidden},
	}}

	res, err := browser.Expand(context.Background(), page, browser.ExpandConfig{Delay: time.Millisecond}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Clicked)
	assert.Equal(t, 2, res.Rounds, "second round finds nothing left to click")
	assert.Equal(t, 1, seeMore.Clicks)
	assert.Equal(t, 1, comments.Clicks)
	assert.Zero(t, like.Clicks)
	assert.Zero(t, hidden.Clicks)
}

// TestExpand_TimeoutIsNotFatal verifies a timed-out click counts as gone and
// the loop continues
func TestExpand_TimeoutIsNotFatal(t *testing.T) {
	gone := &browsertest.Element{Label: "See more", ClickErr: fmt.Errorf("click: %w", context.DeadlineExceeded)}
	ok := &browsertest.Element{Label: "See more"}

	page := &browsertest.Page{Elements: map[string][]*browsertest.Element{
		"button": {gone, ok},
	}}

	res, err := browser.Expand(context.Background(), page, browser.ExpandConfig{
		Selector:  "button",
		Delay:     time.Millisecond,
		MaxRounds: 1,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Clicked)
	assert.Equal(t, 1, res.Gone)
	assert.Empty(t, res.Errors)
}

// TestExpand_CollectsClickErrors verifies other click failures are recorded
// without aborting
func TestExpand_CollectsClickErrors(t *testing.T) {
	broken := &browsertest.Element{Label: "See more", ClickErr: errors.New("node detached")}

	page := &browsertest.Page{Elements: map[string][]*browsertest.Element{
		"button": {broken},
	}}

	res, err := browser.Expand(context.Background(), page, browser.ExpandConfig{Selector: "button"}, nil)

	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "see more", res.Errors[0].Label)
	assert.Equal(t, 1, res.Rounds)
}

// TestExpand_MaxRounds verifies sticky toggles stop at the round limit
func TestExpand_MaxRounds(t *testing.T) {
	sticky := &browsertest.Element{Label: "See more", Sticky: true}

	page := &browsertest.Page{Elements: map[string][]*browsertest.Element{
		"button": {sticky},
	}}

	res, err := browser.Expand(context.Background(), page, browser.ExpandConfig{
		Selector:  "button",
		Delay:     time.Millisecond,
		MaxRounds: 3,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Rounds)
	assert.Equal(t, 3, sticky.Clicks)
}

// TestExpand_QueryError verifies a failing query is returned
func TestExpand_QueryError(t *testing.T) {
	page := &browsertest.Page{QueryErr: errors.New("connection closed")}

	_, err := browser.Expand(context.Background(), page, browser.ExpandConfig{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")
}

// TestRodPage_Expand verifies expansion against a real Chromium: the toggle
// is clicked once and the follow-up round finds nothing
func TestRodPage_Expand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.html")
	markup := `<html><body>
<div role="article">Long post
  <div role="button" onclick="document.body.dataset.clicked = 'yes'; this.remove()">See more</div>
  <div role="button">Like</div>
</div>
</body></html>`
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o644))
	page := browsertest.Chromium(t, "file://"+path)
	ctx := context.Background()

	res, err := browser.Expand(ctx, page, browser.ExpandConfig{
		ClickTimeout: 5 * time.Second,
		Delay:        10 * time.Millisecond,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Clicked)
	assert.Equal(t, 2, res.Rounds)
	assert.Empty(t, res.Errors)

	out, err := page.Eval(ctx, `() => document.body.dataset.clicked || ""`)
	require.NoError(t, err)
	assert.JSONEq(t, `"yes"`, string(out))

	url, err := page.URL(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "post.html"), url)
}

// TestProbe verifies the DevTools URL is read from /json/version and pointed
// at the probed host
func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"webSocketDebuggerUrl": "ws://127.0.0.1:9222/devtools/browser/abc"}`))
	}))
	defer srv.Close()

	wsURL, err := browser.Probe(srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "ws://"+strings.TrimPrefix(srv.URL, "http://")+"/devtools/browser/abc", wsURL)
}

// TestProbe_Unreachable verifies a dead endpoint is a connect error
func TestProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := browser.Probe(srv.URL)

	assert.ErrorIs(t, err, browser.ErrConnect)
}
