// Package filter narrows resolved posts by text and recency. Every pass is
// pure and keeps the input order.
package filter

import (
	"strings"
	"time"

	"github.com/pevans/feedscrape/normalize"
	"github.com/pevans/feedscrape/post"
)

// Criteria holds the requested filters. Zero values disable a filter.
type Criteria struct {
	// Text must appear in the post body (case-insensitive).
	Text string
	// Blob must appear in the post's search blob (case-insensitive).
	Blob string
	// Days is the recency window; posts older than now-Days are dropped.
	Days int
}

// Text keeps posts whose body contains q, ignoring case. An empty q keeps
// everything.
func Text(posts []post.Post, q string) []post.Post {
	q = normalize.Lower(q)
	if q == "" {
		return keep(posts, nil)
	}
	return keep(posts, func(p post.Post) bool {
		return strings.Contains(normalize.Lower(p.Text), q)
	})
}

// Blob is Text matched against the whole search blob instead of the body.
func Blob(posts []post.Post, q string) []post.Post {
	q = normalize.Lower(q)
	if q == "" {
		return keep(posts, nil)
	}
	return keep(posts, func(p post.Post) bool {
		return strings.Contains(normalize.SearchBlob(p), q)
	})
}

// Period keeps posts published within the last days days. Posts with an
// unknown date are always kept. days <= 0 keeps everything.
func Period(posts []post.Post, days int, now time.Time) []post.Post {
	if days <= 0 {
		return keep(posts, nil)
	}
	cutoff := now.AddDate(0, 0, -days)
	return keep(posts, func(p post.Post) bool {
		return p.PublishedAt == nil || !p.PublishedAt.Before(cutoff)
	})
}

// Apply runs every enabled filter in c; a post survives only if it passes all
// of them.
func Apply(posts []post.Post, c Criteria, now time.Time) []post.Post {
	posts = Text(posts, c.Text)
	posts = Blob(posts, c.Blob)
	return Period(posts, c.Days, now)
}

// keep returns a new slice of the posts matching pred; a nil pred keeps all.
func keep(posts []post.Post, pred func(post.Post) bool) []post.Post {
	out := make([]post.Post, 0, len(posts))
	for _, p := range posts {
		if pred == nil || pred(p) {
			out = append(out, p)
		}
	}
	return out
}
