// Package browsertest provides an in-memory browser.Page for tests.
package browsertest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pevans/feedscrape/browser"
)

// Page is a scripted browser.Page. Eval returns EvalResult encoded as JSON
// (or EvalErr), Query returns Elements[selector], and every call is
// recorded.
type Page struct {
	PageURL    string
	URLErr     error
	EvalResult any
	EvalErr    error
	ScrollErr  error
	QueryErr   error
	Elements   map[string][]*Element

	// OnScroll, when set, runs after each successful scroll.
	OnScroll func(step int)

	Evals   []Eval
	Scrolls []int
	Queries []string
}

// Eval is one recorded Eval call.
type Eval struct {
	JS   string
	Args []any
}

var _ browser.Page = (*Page)(nil)

func (p *Page) URL(ctx context.Context) (string, error) {
	if p.URLErr != nil {
		return "", p.URLErr
	}
	return p.PageURL, nil
}

func (p *Page) Eval(ctx context.Context, js string, args ...any) ([]byte, error) {
	p.Evals = append(p.Evals, Eval{JS: js, Args: args})
	if p.EvalErr != nil {
		return nil, p.EvalErr
	}
	return json.Marshal(p.EvalResult)
}

func (p *Page) ScrollBy(ctx context.Context, dy int) error {
	if p.ScrollErr != nil {
		return p.ScrollErr
	}
	p.Scrolls = append(p.Scrolls, dy)
	if p.OnScroll != nil {
		p.OnScroll(len(p.Scrolls))
	}
	return nil
}

func (p *Page) Query(ctx context.Context, selector string) ([]browser.Element, error) {
	p.Queries = append(p.Queries, selector)
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	var out []browser.Element
	for _, el := range p.Elements[selector] {
		if el.Removed {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

// Element is a scripted browser.Element. A successful click marks it Removed
// unless Sticky is set, so it no longer shows up in queries.
type Element struct {
	Label    string
	Hidden   bool
	Sticky   bool
	Removed  bool
	ClickErr error
	Clicks   int
}

var _ browser.Element = (*Element)(nil)

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.Label, nil
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return !e.Hidden, nil
}

func (e *Element) Click(ctx context.Context, timeout time.Duration) error {
	e.Clicks++
	if e.ClickErr != nil {
		return e.ClickErr
	}
	if !e.Sticky {
		e.Removed = true
	}
	return nil
}
