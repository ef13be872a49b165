// Package normalize cleans text and URLs harvested from the DOM before they
// are matched on or displayed.
package normalize

import (
	"net/url"
	"strings"

	"github.com/pevans/feedscrape/post"
)

// invisible lists the zero-width and bidi-control characters stripped from
// all text.
var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200e", "",
	"\u200f", "",
	"\u202a", "",
	"\u202b", "",
	"\u202c", "",
)

// Text removes invisible characters, collapses whitespace runs to a single
// space and trims the result.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(invisible.Replace(s)), " ")
}

// Lower is Text followed by lowercasing.
func Lower(s string) string {
	return strings.ToLower(Text(s))
}

// Absolutize resolves ref against base. Absolute references are returned as
// given (trimmed). If either side cannot be parsed, the trimmed ref is
// returned.
func Absolutize(ref, base string) string {
	ref = strings.TrimSpace(ref)

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return ref
	}

	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil || base == "" {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}

// SrcsetLast returns the URL of the last candidate in a srcset attribute,
// which by convention is the highest resolution one.
func SrcsetLast(srcset string) string {
	last := ""
	for part := range strings.SplitSeq(srcset, ",") {
		fields := strings.Fields(part)
		if len(fields) > 0 {
			last = fields[0]
		}
	}
	return last
}

// ImageURL returns the absolute URL to use for img, falling back to the last
// srcset candidate when there is no src. It returns "" when the image has
// neither.
func ImageURL(img post.Image, base string) string {
	src := strings.TrimSpace(img.Src)
	if src == "" {
		src = SrcsetLast(img.Srcset)
	}
	if src == "" {
		return ""
	}
	return Absolutize(src, base)
}
