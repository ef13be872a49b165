// Package post holds the records that flow through a scrape: the raw blocks
// harvested from the DOM and the posts resolved from them.
package post

import "time"

// UnknownAuthor is the author of a post for which no usable candidate was
// found.
const UnknownAuthor = "Unknown Author"

// Post is a RawBlock after author, timestamp and permalink resolution and
// text/URL normalization. Author, Timestamp, Permalink and PublishedAt are
// final once set; later stages only filter on them.
type Post struct {
	Index       int        `json:"index"`
	Author      string     `json:"author"`
	Timestamp   string     `json:"timestamp"`
	Permalink   string     `json:"permalink"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Text        string     `json:"text"`
	Images      []string   `json:"images"`
	Links       []Link     `json:"links"`

	// Raw is the block this post came from. It is kept for rendering and
	// diagnostics only.
	Raw *RawBlock `json:"-"`
}

// AuthorGroup is the posts of one author, in extraction order.
type AuthorGroup struct {
	Author string `json:"author"`
	Posts  []Post `json:"posts"`
}
