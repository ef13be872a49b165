package resolve

import (
	"strings"

	"github.com/pevans/feedscrape/normalize"
	"github.com/pevans/feedscrape/post"
)

// permalinkMarkers identify genuine post URLs, in priority order.
var permalinkMarkers = []string{
	"/posts/",
	"permalink",
	"__cft__",
	"multi_permalinks",
	"__tn__",
}

// Permalink returns the first link, in block order, whose absolute URL
// contains a permalink marker. Without a match it falls back to the first
// link, and without links it returns "".
func Permalink(links []post.Link, baseURL string) string {
	if len(links) == 0 {
		return ""
	}

	for _, l := range links {
		href := normalize.Absolutize(l.Href, baseURL)
		for _, marker := range permalinkMarkers {
			if strings.Contains(href, marker) {
				return href
			}
		}
	}

	return normalize.Absolutize(links[0].Href, baseURL)
}
