// Package resolve picks a single author, timestamp, permalink and date for a
// raw block out of its noisy candidate lists.
package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/pevans/feedscrape/normalize"
	"github.com/pevans/feedscrape/post"
)

// uiWords are clickable UI labels that render like bylines but never are.
var uiWords = map[string]bool{
	"comment": true,
	"reply":   true,
	"shared":  true,
	"share":   true,
}

// Author returns the first candidate that is at least two characters long and
// is not a UI label, or post.UnknownAuthor when none qualifies.
func Author(candidates []string) string {
	for _, c := range candidates {
		name := normalize.Text(c)
		if utf8.RuneCountInString(name) < 2 {
			continue
		}
		if uiWords[strings.ToLower(name)] {
			continue
		}
		return name
	}
	return post.UnknownAuthor
}

// Timestamp returns the longest candidate, preferring the earliest on ties.
// Longer labels ("14 November at 10:23") carry more than terse relative ones
// ("2h").
func Timestamp(candidates []string) string {
	best := ""
	bestLen := 0
	for _, c := range candidates {
		ts := normalize.Text(c)
		if n := utf8.RuneCountInString(ts); n > bestLen {
			best, bestLen = ts, n
		}
	}
	return best
}
