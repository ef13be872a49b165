// Package browser is the capability boundary between the scraper and a live
// browser tab: run a script in page context, query and click elements, read
// the URL and scroll. Everything above this package works against the Page
// interface so it can be exercised without a browser.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrConnect is returned when the remote browser cannot be reached.
	ErrConnect = errors.New("browser: cannot connect")
	// ErrNoPage is returned when the browser has no open page to attach to.
	ErrNoPage = errors.New("browser: no open page")
)

// Page is one open browser tab.
type Page interface {
	// URL returns the page's current URL.
	URL(ctx context.Context) (string, error)
	// Eval runs js, a JavaScript function expression, in page context with
	// args and returns its result encoded as JSON.
	Eval(ctx context.Context, js string, args ...any) ([]byte, error)
	// ScrollBy scrolls the window vertically by dy pixels.
	ScrollBy(ctx context.Context, dy int) error
	// Query returns the elements matching a CSS selector.
	Query(ctx context.Context, selector string) ([]Element, error)
}

// Element is a DOM element returned by Page.Query.
type Element interface {
	Text(ctx context.Context) (string, error)
	Visible(ctx context.Context) (bool, error)
	// Click clicks the element, giving up after timeout.
	Click(ctx context.Context, timeout time.Duration) error
}
