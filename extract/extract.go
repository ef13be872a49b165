// Package extract finds post-like blocks in a feed page and harvests their
// raw signal. FromPage runs inside a live browser tab; FromDocument runs the
// same heuristics over an HTML snapshot.
package extract

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pevans/feedscrape/post"
)

// Config tunes candidate selection.
type Config struct {
	// MinCandidates is the number of signature matches below which the
	// repeated-class fallback runs. Default: 5.
	MinCandidates int `json:"minCandidates" yaml:"min_candidates"`
	// RepeatThreshold is how many elements must share a class string for
	// it to count as a repeating card. Default: 5.
	RepeatThreshold int `json:"repeatThreshold" yaml:"repeat_threshold"`
	// MaxFallback caps the elements added by the fallback. Default: 200.
	MaxFallback int `json:"maxFallback" yaml:"max_fallback"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		MinCandidates:   5,
		RepeatThreshold: 5,
		MaxFallback:     200,
	}
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if c.MinCandidates <= 0 {
		c.MinCandidates = d.MinCandidates
	}
	if c.RepeatThreshold <= 0 {
		c.RepeatThreshold = d.RepeatThreshold
	}
	if c.MaxFallback <= 0 {
		c.MaxFallback = d.MaxFallback
	}
}

// Sanitize enforces the RawBlock caps and de-duplication on blocks decoded
// from outside the process, and replaces nil lists with empty ones.
func Sanitize(blocks []post.RawBlock) []post.RawBlock {
	out := make([]post.RawBlock, 0, len(blocks))
	for _, b := range blocks {
		b.Text = strings.TrimSpace(b.Text)
		b.Snippet = post.Snippet(b.Text)
		b.TextLength = utf8.RuneCountInString(b.Text)
		b.DataAttrs = capAttrs(b.DataAttrs)
		b.AuthorCandidates = uniqueStrings(b.AuthorCandidates, post.MaxAuthors)
		b.TimestampCandidates = uniqueStrings(b.TimestampCandidates, post.MaxTimestamps)
		b.Links = uniqueLinks(b.Links)
		b.Images = uniqueImages(b.Images)
		out = append(out, b)
	}
	return out
}

func uniqueStrings(in []string, limit int) []string {
	out := []string{}
	for _, s := range in {
		out = post.AppendUnique(out, strings.TrimSpace(s), limit)
	}
	return out
}

func uniqueLinks(in []post.Link) []post.Link {
	out := []post.Link{}
	seen := map[post.Link]bool{}
	for _, l := range in {
		l.Href = strings.TrimSpace(l.Href)
		l.Text = strings.TrimSpace(l.Text)
		if l.Href == "" || seen[l] {
			continue
		}
		if len(out) >= post.MaxLinks {
			break
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func uniqueImages(in []post.Image) []post.Image {
	type key struct{ src, srcset string }

	out := []post.Image{}
	seen := map[key]bool{}
	for _, img := range in {
		img.Src = strings.TrimSpace(img.Src)
		img.Srcset = strings.TrimSpace(img.Srcset)
		img.Alt = strings.TrimSpace(img.Alt)
		k := key{img.Src, img.Srcset}
		if (img.Src == "" && img.Srcset == "") || seen[k] {
			continue
		}
		if len(out) >= post.MaxImages {
			break
		}
		seen[k] = true
		out = append(out, img)
	}
	return out
}

// capAttrs keeps at most MaxDataAttrs data-* entries. Decoded maps have no
// order, so the alphabetically first names are kept.
func capAttrs(in map[string]string) map[string]string {
	out := map[string]string{}
	names := make([]string, 0, len(in))
	for name := range in {
		if strings.HasPrefix(name, "data-") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if len(out) >= post.MaxDataAttrs {
			break
		}
		out[name] = in[name]
	}
	return out
}
