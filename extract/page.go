package extract

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/pevans/feedscrape/browser"
	"github.com/pevans/feedscrape/post"
)

//go:embed extract.js
var extractJS string

// scriptArgs is the argument object handed to extract.js.
type scriptArgs struct {
	Signature       string `json:"signature"`
	FallbackRoot    string `json:"fallbackRoot"`
	Author          string `json:"author"`
	Timestamp       string `json:"timestamp"`
	Link            string `json:"link"`
	Image           string `json:"image"`
	MinCandidates   int    `json:"minCandidates"`
	RepeatThreshold int    `json:"repeatThreshold"`
	MaxFallback     int    `json:"maxFallback"`
}

func (c Config) scriptArgs() scriptArgs {
	return scriptArgs{
		Signature:       SignatureSelector,
		FallbackRoot:    FallbackRootSelector,
		Author:          AuthorSelector,
		Timestamp:       TimestampSelector,
		Link:            LinkSelector,
		Image:           ImageSelector,
		MinCandidates:   c.MinCandidates,
		RepeatThreshold: c.RepeatThreshold,
		MaxFallback:     c.MaxFallback,
	}
}

// FromPage runs the extraction script in page and returns the sanitized
// blocks in document order.
func FromPage(ctx context.Context, page browser.Page, cfg Config) ([]post.RawBlock, error) {
	cfg.defaults()

	data, err := page.Eval(ctx, extractJS, cfg.scriptArgs())
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	var blocks []post.RawBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("extract: decode blocks: %w", err)
	}

	return Sanitize(blocks), nil
}
