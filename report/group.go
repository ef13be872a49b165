package report

import (
	"sort"
	"strings"

	"github.com/pevans/feedscrape/post"
)

// Group collects posts by resolved author. Groups are sorted by author name
// case-insensitively, and posts keep their input order within a group.
func Group(posts []post.Post) []post.AuthorGroup {
	index := map[string]int{}
	groups := []post.AuthorGroup{}

	for _, p := range posts {
		author := p.Author
		if author == "" {
			author = post.UnknownAuthor
		}

		i, ok := index[author]
		if !ok {
			i = len(groups)
			index[author] = i
			groups = append(groups, post.AuthorGroup{Author: author})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := strings.ToLower(groups[i].Author), strings.ToLower(groups[j].Author)
		if a != b {
			return a < b
		}
		return groups[i].Author < groups[j].Author
	})

	return groups
}
